package ports

import (
	"context"
	"time"

	"github.com/aretw0/tendril/pkg/domain"
)

// JournalEntry records one action emitted by the worker.
type JournalEntry struct {
	Time          time.Time   `json:"time"`
	ActionType    string      `json:"action_type"`
	Endpoint      string      `json:"endpoint,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Status        int         `json:"status,omitempty"`
	Payload       any         `json:"payload,omitempty"`
	Meta          domain.Meta `json:"meta,omitempty"`
}

// Journal persists emitted actions for inspection and debugging. It is an
// optional observer: the dispatch flow never reads it back.
type Journal interface {
	// Append records an entry.
	Append(ctx context.Context, entry JournalEntry) error

	// List returns up to limit entries, newest first. limit <= 0 means all
	// retained entries.
	List(ctx context.Context, limit int) ([]JournalEntry, error)

	// Clear removes all retained entries.
	Clear(ctx context.Context) error
}
