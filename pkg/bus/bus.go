/*
Package bus provides the in-memory, channel-based action bus used by the
dispatch worker and host applications. Each subscriber owns a buffered
channel; Dispatch fans the action out to every matching subscriber in
registration order.
*/
package bus

import (
	"context"
	"sync"

	"github.com/aretw0/tendril/pkg/domain"
)

// DefaultBuffer is the default per-subscriber channel buffer.
const DefaultBuffer = 64

// Bus is a channel-based implementation of ports.Bus.
type Bus struct {
	mu     sync.RWMutex
	subs   []*subscriber
	buffer int
	closed bool
}

type subscriber struct {
	ch    chan domain.Action
	types map[string]struct{} // nil means all types
}

func (s *subscriber) matches(actionType string) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[actionType]
	return ok
}

// Option configures the Bus.
type Option func(*Bus)

// WithBuffer sets the per-subscriber channel buffer size.
func WithBuffer(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.buffer = n
		}
	}
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{buffer: DefaultBuffer}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a subscriber for the given action types (all types when
// empty). The returned cancel function unregisters it; the channel itself is
// never closed, so pending reads simply stop receiving.
func (b *Bus) Subscribe(types ...string) (<-chan domain.Action, func()) {
	sub := &subscriber{ch: make(chan domain.Action, b.buffer)}
	if len(types) > 0 {
		sub.types = make(map[string]struct{}, len(types))
		for _, t := range types {
			sub.types[t] = struct{}{}
		}
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s == sub {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				break
			}
		}
	}
	return sub.ch, cancel
}

// Dispatch delivers the action to every matching subscriber. It blocks while
// a subscriber buffer is full so no action is ever silently lost; ctx bounds
// the wait.
func (b *Bus) Dispatch(ctx context.Context, action domain.Action) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return domain.ErrBusClosed
	}
	// Snapshot so a slow subscriber can still unsubscribe concurrently.
	targets := make([]*subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		if s.matches(action.Type) {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range targets {
		select {
		case s.ch <- action:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close marks the bus closed. Subsequent Dispatch calls fail with
// domain.ErrBusClosed; subscriber channels remain readable for drained
// actions but receive nothing new.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = nil
}
