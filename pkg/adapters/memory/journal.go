// Package memory provides the in-memory ports.Journal adapter: a capped ring
// of recent entries, intended for tests and the debug server.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/tendril/pkg/ports"
)

// DefaultCap is the default number of retained entries.
const DefaultCap = 256

// Journal implements ports.Journal in memory. Safe for concurrent use.
type Journal struct {
	mu      sync.RWMutex
	entries []ports.JournalEntry
	cap     int
}

// Option configures the Journal.
type Option func(*Journal)

// WithCap sets the maximum number of retained entries; the oldest are
// evicted first.
func WithCap(n int) Option {
	return func(j *Journal) {
		if n > 0 {
			j.cap = n
		}
	}
}

// NewJournal creates an empty in-memory journal.
func NewJournal(opts ...Option) *Journal {
	j := &Journal{cap: DefaultCap}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Append records an entry, evicting the oldest when full.
func (j *Journal) Append(_ context.Context, entry ports.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
	if len(j.entries) > j.cap {
		j.entries = j.entries[len(j.entries)-j.cap:]
	}
	return nil
}

// List returns up to limit entries, newest first.
func (j *Journal) List(_ context.Context, limit int) ([]ports.JournalEntry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]ports.JournalEntry, 0, len(j.entries))
	for i := len(j.entries) - 1; i >= 0; i-- {
		out = append(out, j.entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Clear removes all entries.
func (j *Journal) Clear(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
	return nil
}
