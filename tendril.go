package tendril

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/internal/runtime"
	"github.com/aretw0/tendril/pkg/adapters/httpclient"
	"github.com/aretw0/tendril/pkg/bus"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/observability"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/aretw0/tendril/pkg/registry"
)

// Version is the library version, reported by the CLI and the MCP server.
const Version = "0.1.0"

// Dispatcher is the high-level entry point: it wires the endpoint registry,
// the action bus and the dispatch worker together.
type Dispatcher struct {
	baseURL   string
	registry  *registry.Registry
	bus       ports.Bus
	transport ports.Transport
	tokens    ports.TokenSource
	journal   ports.Journal
	hooks     domain.LifecycleHooks
	timeout   time.Duration
	logger    *slog.Logger
	debug     bool

	worker *runtime.Worker
}

// Option defines a functional option for configuring the Dispatcher.
type Option func(*Dispatcher)

// WithRegistry injects a pre-populated endpoint registry.
func WithRegistry(r *registry.Registry) Option {
	return func(d *Dispatcher) {
		d.registry = r
	}
}

// WithBus injects a custom action bus. By default an in-memory channel bus
// is created; inject one to share a bus across components.
func WithBus(b ports.Bus) Option {
	return func(d *Dispatcher) {
		d.bus = b
	}
}

// WithTransport injects a custom network transport (default: net/http).
func WithTransport(t ports.Transport) Option {
	return func(d *Dispatcher) {
		d.transport = t
	}
}

// WithTokenSource sets the optional async authorization token supplier.
func WithTokenSource(src ports.TokenSource) Option {
	return func(d *Dispatcher) {
		d.tokens = src
	}
}

// WithTimeout overrides the fixed call timeout (default 10s).
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.timeout = timeout
	}
}

// WithJournal records every emitted action in the given journal.
func WithJournal(j ports.Journal) Option {
	return func(d *Dispatcher) {
		d.journal = j
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Dispatcher) {
		d.hooks = d.hooks.Merge(hooks)
	}
}

// WithMetrics attaches a Prometheus collector to the dispatch lifecycle.
func WithMetrics(m *observability.Metrics) Option {
	return func(d *Dispatcher) {
		d.hooks = d.hooks.Merge(m.Hooks())
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithDebug enables debug logging to stderr when no logger is injected.
func WithDebug(debug bool) Option {
	return func(d *Dispatcher) {
		d.debug = debug
	}
}

// New initializes a Dispatcher for the given base URL.
func New(baseURL string, opts ...Option) (*Dispatcher, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}

	d := &Dispatcher{
		baseURL: baseURL,
		timeout: runtime.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.registry == nil {
		d.registry = registry.New()
	}
	if d.bus == nil {
		d.bus = bus.New()
	}
	if d.transport == nil {
		d.transport = httpclient.New()
	}
	// A library stays quiet unless asked: default is a no-op logger, the
	// debug flag switches to stderr debug logging.
	if d.logger == nil {
		if d.debug {
			d.logger = logging.ForDebug(true)
		} else {
			d.logger = logging.NewNop()
		}
	}

	d.worker = runtime.NewWorker(baseURL, d.bus, d.transport,
		runtime.WithTimeout(d.timeout),
		runtime.WithTokenSource(d.tokens),
		runtime.WithJournal(d.journal),
		runtime.WithLifecycleHooks(d.hooks),
		runtime.WithLogger(d.logger),
	)
	return d, nil
}

// Registry returns the endpoint registry for declarations.
func (d *Dispatcher) Registry() *registry.Registry { return d.registry }

// Bus returns the action bus for subscribing to result actions.
func (d *Dispatcher) Bus() ports.Bus { return d.bus }

// Journal returns the configured action journal, or nil.
func (d *Dispatcher) Journal() ports.Journal { return d.journal }

// BaseURL returns the configured base URL.
func (d *Dispatcher) BaseURL() string { return d.baseURL }

// Attach wires the dispatch worker into the bus and starts listening for
// call actions. The worker stops when ctx is cancelled.
func (d *Dispatcher) Attach(ctx context.Context) {
	d.worker.Attach(ctx)
}

// Wait blocks until the worker loop and all in-flight invocations finished.
// Cancel the Attach context first.
func (d *Dispatcher) Wait() {
	d.worker.Wait()
}

// Dispatch publishes an action on the bus.
func (d *Dispatcher) Dispatch(ctx context.Context, action domain.Action) error {
	return d.bus.Dispatch(ctx, action)
}

// Call builds and dispatches a call action for a registered endpoint,
// returning its correlation ID (fire and forget).
func (d *Dispatcher) Call(ctx context.Context, endpointID string, opts ...registry.CallOption) (string, error) {
	act, err := d.registry.Call(endpointID, opts...)
	if err != nil {
		return "", err
	}
	if err := d.bus.Dispatch(ctx, act); err != nil {
		return "", err
	}
	return act.CorrelationID(), nil
}
