package ports

import (
	"context"

	"github.com/aretw0/tendril/pkg/domain"
)

// Bus is the action dispatch fabric. The worker subscribes to call actions
// and publishes request/success/failure actions; the host application does
// the inverse.
type Bus interface {
	// Dispatch delivers the action to every matching subscriber. It blocks
	// while a subscriber buffer is full, preserving per-subscriber order.
	Dispatch(ctx context.Context, action domain.Action) error

	// Subscribe returns a channel receiving actions of the given types
	// (all actions when empty) and a cancel function that unregisters the
	// subscription. The channel is never closed by cancel.
	Subscribe(types ...string) (<-chan domain.Action, func())
}
