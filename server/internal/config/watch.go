package config

import (
	"context"

	"github.com/tabtamer/tabtamer/pkg/confwatch"
)

// Watch reloads the config file at path whenever it changes and passes the
// new Config to onChange. It runs until ctx is cancelled. A reload that
// fails to parse or validate is logged and skipped.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	return confwatch.Watch(ctx, path, Load, onChange)
}
