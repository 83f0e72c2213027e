package registry

import (
	"time"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/google/uuid"
)

// CallOption customizes one call invocation.
type CallOption func(*domain.Invocation)

// WithBody sets the request body. It is JSON-encoded by the worker.
func WithBody(body any) CallOption {
	return func(inv *domain.Invocation) {
		inv.Body = body
	}
}

// WithPathParams binds values for {name} placeholders in the endpoint path.
func WithPathParams(params map[string]any) CallOption {
	return func(inv *domain.Invocation) {
		inv.PathParams = params
	}
}

// WithQuery sets query string parameters.
func WithQuery(query map[string]string) CallOption {
	return func(inv *domain.Invocation) {
		inv.Query = query
	}
}

// WithServer overrides the dispatcher base URL for this invocation.
func WithServer(server string) CallOption {
	return func(inv *domain.Invocation) {
		inv.Server = server
	}
}

// WithDelay suspends the worker for d between the Request action and the
// network call.
func WithDelay(d time.Duration) CallOption {
	return func(inv *domain.Invocation) {
		inv.Delay = d
	}
}

// WithMeta merges correlation metadata into the invocation.
func WithMeta(meta domain.Meta) CallOption {
	return func(inv *domain.Invocation) {
		if inv.Meta == nil {
			inv.Meta = domain.Meta{}
		}
		for k, v := range meta {
			inv.Meta[k] = v
		}
	}
}

// WithCorrelationID pins the correlation ID instead of generating one.
func WithCorrelationID(id string) CallOption {
	return func(inv *domain.Invocation) {
		if inv.Meta == nil {
			inv.Meta = domain.Meta{}
		}
		inv.Meta[domain.MetaCorrelationID] = id
	}
}

// buildCall constructs the call action for a declaration. Every invocation
// gets a correlation ID; callers can pin one via WithCorrelationID.
func buildCall(decl domain.Declaration, opts ...CallOption) domain.Action {
	inv := domain.Invocation{
		Endpoint: decl.Endpoint.ID,
		Method:   decl.Endpoint.Method,
		Path:     decl.Endpoint.Path,
		Labels:   decl.Triplet,
		Meta:     domain.Meta{},
	}
	for _, opt := range opts {
		opt(&inv)
	}
	if inv.CorrelationID() == "" {
		inv.Meta[domain.MetaCorrelationID] = uuid.NewString()
	}
	return domain.Action{
		Type:    domain.ActionDispatchCall,
		Payload: inv,
		Meta:    inv.Meta,
	}
}
