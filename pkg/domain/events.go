package domain

import (
	"context"
	"time"
)

// CallEvent describes one invocation as observed by lifecycle hooks.
type CallEvent struct {
	Endpoint      string    `json:"endpoint"`
	Method        Method    `json:"method"`
	Path          string    `json:"path"`
	CorrelationID string    `json:"correlation_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// ResultEvent describes the terminal outcome of one invocation.
type ResultEvent struct {
	CallEvent
	Status  int           `json:"status,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// LifecycleHooks defines callbacks for dispatch observability. All hooks are
// optional and are invoked synchronously from the invocation goroutine, so
// they must not block. OnTimeout fires for silently dropped invocations,
// which never produce a terminal action.
type LifecycleHooks struct {
	OnRequest func(context.Context, *CallEvent)
	OnSuccess func(context.Context, *ResultEvent)
	OnFailure func(context.Context, *ResultEvent)
	OnTimeout func(context.Context, *CallEvent)
}

// Merge combines two hook sets; both callbacks fire, h first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRequest: joinCall(h.OnRequest, other.OnRequest),
		OnSuccess: joinResult(h.OnSuccess, other.OnSuccess),
		OnFailure: joinResult(h.OnFailure, other.OnFailure),
		OnTimeout: joinCall(h.OnTimeout, other.OnTimeout),
	}
}

func joinCall(a, b func(context.Context, *CallEvent)) func(context.Context, *CallEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *CallEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func joinResult(a, b func(context.Context, *ResultEvent)) func(context.Context, *ResultEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *ResultEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
