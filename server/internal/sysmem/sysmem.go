// Package sysmem reads host memory usage for display next to a report.
package sysmem

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/tabtamer/tabtamer/pkg/types"
)

// Stats is used and total virtual memory in bytes.
type Stats struct {
	Used  uint64
	Total uint64
}

// UsedText is Used formatted with binary units, e.g. "7.6 GiB".
func (s Stats) UsedText() string { return humanize.IBytes(s.Used) }

// TotalText is Total formatted with binary units.
func (s Stats) TotalText() string { return humanize.IBytes(s.Total) }

// String renders the dashboard memory line.
func (s Stats) String() string {
	return fmt.Sprintf("%s used out of %s", s.UsedText(), s.TotalText())
}

// Wire converts s to its JSON representation.
func (s Stats) Wire() *types.Memory {
	return &types.Memory{
		Used:      s.Used,
		Total:     s.Total,
		UsedText:  s.UsedText(),
		TotalText: s.TotalText(),
	}
}

// Reader queries the operating system for memory statistics.
type Reader struct {
	virtual func(context.Context) (*mem.VirtualMemoryStat, error) // injectable for tests
}

// New creates a Reader backed by gopsutil.
func New() *Reader {
	return &Reader{virtual: mem.VirtualMemoryWithContext}
}

// Read returns the current memory usage.
func (r *Reader) Read(ctx context.Context) (Stats, error) {
	vm, err := r.virtual(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("sysmem: virtual memory: %w", err)
	}
	return Stats{Used: vm.Used, Total: vm.Total}, nil
}
