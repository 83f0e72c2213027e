// Package redis provides the Redis-backed ports.Journal adapter, for sharing
// a dispatch journal across processes.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/tendril/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultCap is the default number of retained entries.
const DefaultCap = 1024

// Journal implements ports.Journal using a capped Redis list. Entries are
// stored newest-first (LPUSH + LTRIM).
type Journal struct {
	client *backend.Client
	key    string
	cap    int64
}

// Option configures the Journal.
type Option func(*Journal)

// WithKey sets the Redis key holding the journal list.
func WithKey(key string) Option {
	return func(j *Journal) {
		if key != "" {
			j.key = key
		}
	}
}

// WithCap sets the maximum number of retained entries.
func WithCap(n int64) Option {
	return func(j *Journal) {
		if n > 0 {
			j.cap = n
		}
	}
}

// New creates a Redis journal with its own client.
func New(address, password string, db int, opts ...Option) *Journal {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis journal from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Journal {
	j := &Journal{
		client: client,
		key:    "tendril:journal",
		cap:    DefaultCap,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Append records an entry and trims the list to the configured cap.
func (j *Journal) Append(ctx context.Context, entry ports.JournalEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	pipe := j.client.Pipeline()
	pipe.LPush(ctx, j.key, data)
	pipe.LTrim(ctx, j.key, 0, j.cap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append to redis journal: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (j *Journal) List(ctx context.Context, limit int) ([]ports.JournalEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	raw, err := j.client.LRange(ctx, j.key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read redis journal: %w", err)
	}

	entries := make([]ports.JournalEntry, 0, len(raw))
	for _, item := range raw {
		var entry ports.JournalEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal journal entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Clear removes all entries.
func (j *Journal) Clear(ctx context.Context) error {
	return j.client.Del(ctx, j.key).Err()
}

// Close closes the redis client.
func (j *Journal) Close() error {
	return j.client.Close()
}
