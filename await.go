package tendril

import (
	"context"
	"fmt"

	"github.com/aretw0/tendril/pkg/domain"
)

// Await blocks until the terminal (success or failure) action for the given
// correlation ID appears on the bus, or ctx ends. A timed-out invocation is
// dropped silently and never produces a terminal action, so callers should
// bound ctx themselves.
func (d *Dispatcher) Await(ctx context.Context, labels domain.Triplet, correlationID string) (domain.Action, error) {
	ch, cancel := d.bus.Subscribe(labels.Success, labels.Failure)
	defer cancel()
	return d.await(ctx, ch, correlationID)
}

// Execute dispatches a call action and waits for its terminal action. The
// subscription is installed before dispatching, so the terminal action cannot
// be missed.
func (d *Dispatcher) Execute(ctx context.Context, call domain.Action) (domain.Action, error) {
	inv, err := domain.InvocationFrom(call)
	if err != nil {
		return domain.Action{}, err
	}

	ch, cancel := d.bus.Subscribe(inv.Labels.Success, inv.Labels.Failure)
	defer cancel()

	if err := d.bus.Dispatch(ctx, call); err != nil {
		return domain.Action{}, err
	}
	return d.await(ctx, ch, inv.CorrelationID())
}

func (d *Dispatcher) await(ctx context.Context, ch <-chan domain.Action, correlationID string) (domain.Action, error) {
	for {
		select {
		case <-ctx.Done():
			return domain.Action{}, fmt.Errorf("%w: %w", domain.ErrNoTerminal, ctx.Err())
		case act := <-ch:
			if correlationID == "" || act.CorrelationID() == correlationID {
				return act, nil
			}
		}
	}
}
