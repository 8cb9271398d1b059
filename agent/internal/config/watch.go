package config

import (
	"context"

	"github.com/tabtamer/tabtamer/pkg/confwatch"
)

// Watch monitors path and calls onChange with each successfully reloaded
// Config until ctx is cancelled. Invalid edits keep the previous config.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	return confwatch.Watch(ctx, path, Load, onChange)
}
