package sysmem

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v3/mem"
)

func TestRead(t *testing.T) {
	r := &Reader{virtual: func(context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{Used: 3 << 30, Total: 8 << 30}, nil
	}}
	s, err := r.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if s.Used != 3<<30 || s.Total != 8<<30 {
		t.Errorf("got %+v", s)
	}
	if got := s.String(); got != "3.0 GiB used out of 8.0 GiB" {
		t.Errorf("String: got %q", got)
	}
	w := s.Wire()
	if w.UsedText != "3.0 GiB" || w.Total != 8<<30 {
		t.Errorf("Wire: got %+v", w)
	}
}

func TestRead_Error(t *testing.T) {
	boom := errors.New("boom")
	r := &Reader{virtual: func(context.Context) (*mem.VirtualMemoryStat, error) { return nil, boom }}
	if _, err := r.Read(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Read: got %v, want wrapped boom", err)
	}
}

func TestRead_Host(t *testing.T) {
	s, err := New().Read(context.Background())
	if err != nil {
		t.Skipf("host memory unavailable: %v", err)
	}
	if s.Total == 0 {
		t.Error("Total: got 0")
	}
}
