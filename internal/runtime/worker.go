/*
Package runtime implements the dispatch worker: the long-lived listener that
turns call actions into network calls and result actions.

For every call invocation the worker emits exactly one Request action, then
performs the HTTP call raced against a fixed timeout and emits at most one
terminal action. If the timeout wins the race, nothing is emitted (silent
drop); the loser of the race is discarded, not cancelled.
*/
package runtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
)

// DefaultTimeout is the fixed call timeout raced against every network call.
const DefaultTimeout = 10 * time.Second

// Worker executes call invocations. One goroutine per invocation: calls are
// concurrent and unordered across invocations, strictly ordered within one.
type Worker struct {
	baseURL   string
	bus       ports.Bus
	transport ports.Transport
	tokens    ports.TokenSource
	journal   ports.Journal
	hooks     domain.LifecycleHooks
	timeout   time.Duration
	logger    *slog.Logger

	wg sync.WaitGroup
}

// Option configures the Worker.
type Option func(*Worker)

// WithTimeout overrides the call timeout (default 10s).
func WithTimeout(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithTokenSource sets the optional authorization token supplier.
func WithTokenSource(src ports.TokenSource) Option {
	return func(w *Worker) {
		w.tokens = src
	}
}

// WithJournal records every emitted action.
func WithJournal(j ports.Journal) Option {
	return func(w *Worker) {
		w.journal = j
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(w *Worker) {
		w.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWorker creates a dispatch worker bound to a bus and transport.
func NewWorker(baseURL string, b ports.Bus, transport ports.Transport, opts ...Option) *Worker {
	w := &Worker{
		baseURL:   baseURL,
		bus:       b,
		transport: transport,
		timeout:   DefaultTimeout,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Attach subscribes the worker to the well-known call action type and starts
// the listen loop. It returns immediately; the loop ends when ctx is done.
func (w *Worker) Attach(ctx context.Context) {
	ch, cancel := w.bus.Subscribe(domain.ActionDispatchCall)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case act := <-ch:
				inv, err := domain.InvocationFrom(act)
				if err != nil {
					w.logger.Warn("dropping malformed call action", "err", err)
					continue
				}
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					w.handle(ctx, inv)
				}()
			}
		}
	}()
}

// Wait blocks until the listen loop and all in-flight invocations finished.
// Cancel the Attach context first.
func (w *Worker) Wait() {
	w.wg.Wait()
}

// handle runs the full lifecycle of one invocation.
func (w *Worker) handle(ctx context.Context, inv domain.Invocation) {
	start := time.Now()
	call := &domain.CallEvent{
		Endpoint:      inv.Endpoint,
		Method:        inv.Method,
		Path:          inv.Path,
		CorrelationID: inv.CorrelationID(),
		Timestamp:     start,
	}
	logger := w.logger.With("endpoint", inv.Endpoint, "correlation_id", call.CorrelationID)

	// 1. Request action, always first and exactly once.
	w.emit(ctx, inv, inv.Labels.Request, domain.EmptyPayload(), 0)
	if w.hooks.OnRequest != nil {
		w.hooks.OnRequest(ctx, call)
	}

	// 2. Optional per-invocation delay.
	if inv.Delay > 0 {
		select {
		case <-time.After(inv.Delay):
		case <-ctx.Done():
			return
		}
	}

	fail := func(status int, payload any) {
		w.emit(ctx, inv, inv.Labels.Failure, payload, status)
		if w.hooks.OnFailure != nil {
			w.hooks.OnFailure(ctx, &domain.ResultEvent{CallEvent: *call, Status: status, Elapsed: time.Since(start)})
		}
	}

	// 3. Build the wire request: URL, headers, encoded body, token.
	url, err := BuildURL(w.baseURL, inv)
	if err != nil {
		logger.Warn("failed to build call URL", "err", err)
		fail(0, domain.EmptyPayload())
		return
	}

	header := http.Header{}
	header.Set("Accept", "application/json")

	var body []byte
	if inv.Body != nil {
		body, err = json.Marshal(inv.Body)
		if err != nil {
			logger.Warn("failed to encode request body", "err", err)
			fail(0, domain.EmptyPayload())
			return
		}
		header.Set("Content-Type", "application/json")
	}

	if w.tokens != nil {
		token, err := w.tokens(ctx)
		if err != nil {
			logger.Warn("token source failed", "err", err)
			fail(0, domain.EmptyPayload())
			return
		}
		if token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	// 4. Race the call against the timeout. The transport goroutine keeps
	// running if it loses; its result is discarded on a closed-over channel.
	type outcome struct {
		resp *ports.Response
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		resp, err := w.transport.Do(ctx, ports.Request{
			Method: inv.Method,
			URL:    url,
			Header: header,
			Body:   body,
		})
		done <- outcome{resp: resp, err: err}
	}()

	timer := time.NewTimer(w.timeout)
	defer timer.Stop()

	var out outcome
	select {
	case <-timer.C:
		// Silent drop: no terminal action, ever.
		logger.Warn("call timed out, dropping invocation", "timeout", w.timeout)
		if w.hooks.OnTimeout != nil {
			w.hooks.OnTimeout(ctx, call)
		}
		return
	case <-ctx.Done():
		return
	case out = <-done:
	}

	// 5. Map the settled call to exactly one terminal action.
	if out.err != nil {
		logger.Warn("transport error", "err", out.err)
		fail(0, domain.EmptyPayload())
		return
	}

	payload, decodeErr := decodeBody(out.resp.Body)
	status := out.resp.Status

	if decodeErr != nil {
		logger.Warn("failed to decode response body", "status", status, "err", decodeErr)
		fail(status, domain.EmptyPayload())
		return
	}

	if status >= http.StatusBadRequest {
		logger.Debug("call failed", "status", status)
		fail(status, payload)
		return
	}

	logger.Debug("call succeeded", "status", status, "elapsed", time.Since(start))
	w.emit(ctx, inv, inv.Labels.Success, payload, status)
	if w.hooks.OnSuccess != nil {
		w.hooks.OnSuccess(ctx, &domain.ResultEvent{CallEvent: *call, Status: status, Elapsed: time.Since(start)})
	}
}

// decodeBody parses the response body as JSON. An empty body is a decode
// error, matching the behavior of parsing an empty document.
func decodeBody(raw []byte) (any, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// emit journals one action, then dispatches it on the bus. Journal first:
// anyone who observed the action on the bus can rely on the entry existing.
// Meta flows from the invocation unchanged.
func (w *Worker) emit(ctx context.Context, inv domain.Invocation, actionType string, payload any, status int) {
	act := domain.Action{Type: actionType, Payload: payload, Meta: inv.Meta}
	if w.journal != nil {
		entry := ports.JournalEntry{
			Time:          time.Now().UTC(),
			ActionType:    actionType,
			Endpoint:      inv.Endpoint,
			CorrelationID: inv.CorrelationID(),
			Status:        status,
			Payload:       payload,
			Meta:          inv.Meta,
		}
		if err := w.journal.Append(ctx, entry); err != nil {
			w.logger.Warn("failed to journal action", "type", actionType, "err", err)
		}
	}
	if err := w.bus.Dispatch(ctx, act); err != nil {
		w.logger.Warn("failed to dispatch action", "type", actionType, "err", err)
	}
}
