package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tabtamer/tabtamer/pkg/types"
)

// resetCheckInterval is how often Run checks whether a reset is due.
const resetCheckInterval = time.Second

// Entry is one title and the number of times it has been observed.
type Entry struct {
	Title string
	Count int
}

// Snapshot is an immutable copy of the ledger at one point in time.
// Entries are in first-seen order.
type Snapshot struct {
	Entries []Entry
	TakenAt time.Time
	Since   time.Time // last reset, or ledger creation
}

// Count returns the count for title, or 0 if it was never observed.
func (s Snapshot) Count(title string) int {
	for _, e := range s.Entries {
		if e.Title == title {
			return e.Count
		}
	}
	return 0
}

// Map returns the snapshot as a plain title -> count map.
func (s Snapshot) Map() map[string]int {
	m := make(map[string]int, len(s.Entries))
	for _, e := range s.Entries {
		m[e.Title] = e.Count
	}
	return m
}

// Ledger accumulates per-title observation counts. It is safe for concurrent
// use: one Ingest call is applied as a unit with respect to Snapshot.
type Ledger struct {
	mu      sync.RWMutex
	index   map[string]int // title -> position in entries
	entries []Entry
	batches int64
	since   time.Time

	resetInterval time.Duration // 0 = never
	now           func() time.Time // injectable for deterministic tests
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{
		index: make(map[string]int),
		since: time.Now(),
		now:   time.Now,
	}
}

// Ingest adds one observation per tab record and returns the number of
// records applied. An empty batch is a no-op.
func (l *Ledger) Ingest(tabs []types.Tab) int {
	if len(tabs) == 0 {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range tabs {
		i, ok := l.index[t.Title]
		if !ok {
			i = len(l.entries)
			l.index[t.Title] = i
			l.entries = append(l.entries, Entry{Title: t.Title})
		}
		l.entries[i].Count++
	}
	l.batches++
	return len(tabs)
}

// Snapshot returns a consistent copy of the current counts.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return Snapshot{
		Entries: out,
		TakenAt: l.now(),
		Since:   l.since,
	}
}

// Len returns the number of distinct titles tracked.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Batches returns the number of non-empty Ingest calls since the last reset.
func (l *Ledger) Batches() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.batches
}

// Reset clears all counts and returns the number of titles dropped.
func (l *Ledger) Reset() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resetLocked(l.now())
}

func (l *Ledger) resetLocked(now time.Time) int {
	n := len(l.entries)
	l.index = make(map[string]int)
	l.entries = nil
	l.batches = 0
	l.since = now
	return n
}

// SetResetInterval changes the automatic reset period. Zero or a negative
// value disables automatic resets.
func (l *Ledger) SetResetInterval(d time.Duration) {
	if d < 0 {
		d = 0
	}
	l.mu.Lock()
	l.resetInterval = d
	l.mu.Unlock()
}

// ResetIfDue clears the ledger when the reset interval has elapsed since the
// last reset. It reports whether a reset happened.
func (l *Ledger) ResetIfDue(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.resetInterval <= 0 || now.Sub(l.since) < l.resetInterval {
		return false
	}
	n := l.resetLocked(now)
	slog.Info("ledger: periodic reset", "titles_dropped", n, "interval", l.resetInterval)
	return true
}

// Run drives the periodic reset policy until ctx is cancelled. With no reset
// interval configured each tick is a no-op.
func (l *Ledger) Run(ctx context.Context) {
	t := time.NewTicker(resetCheckInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			l.ResetIfDue(now)
		}
	}
}
