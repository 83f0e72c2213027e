package registry

import "github.com/aretw0/tendril/pkg/domain"

// NoBody marks an endpoint that takes no request body.
type NoBody = struct{}

// None is the NoBody value passed to Call on body-less endpoints.
var None NoBody

// DeclareOption customizes a typed declaration.
type DeclareOption func(*domain.Declaration)

// WithTriplet overrides the derived request/success/failure labels.
func WithTriplet(t domain.Triplet) DeclareOption {
	return func(d *domain.Declaration) {
		d.Triplet = t
	}
}

// WithSummary sets the short endpoint summary.
func WithSummary(summary string) DeclareOption {
	return func(d *domain.Declaration) {
		d.Endpoint.Summary = summary
	}
}

// WithDoc sets the long-form (markdown) endpoint documentation.
func WithDoc(doc string) DeclareOption {
	return func(d *domain.Declaration) {
		d.Endpoint.Doc = doc
	}
}

// Endpoint is the typed variant of a declaration: Req is the request body
// shape, Resp the response shape. Mismatched bodies are a compile-time error.
type Endpoint[Req, Resp any] struct {
	decl domain.Declaration
}

// Declare registers a typed endpoint. The triplet defaults to
// domain.DeriveTriplet(id).
func Declare[Req, Resp any](r *Registry, method domain.Method, id, path string, opts ...DeclareOption) (*Endpoint[Req, Resp], error) {
	decl := domain.Declaration{
		Endpoint: domain.Endpoint{ID: id, Method: method, Path: path},
		Triplet:  domain.DeriveTriplet(id),
	}
	for _, opt := range opts {
		opt(&decl)
	}
	if err := r.Register(decl); err != nil {
		return nil, err
	}
	return &Endpoint[Req, Resp]{decl: decl}, nil
}

// Get declares a body-less GET endpoint.
func Get[Resp any](r *Registry, id, path string, opts ...DeclareOption) (*Endpoint[NoBody, Resp], error) {
	return Declare[NoBody, Resp](r, domain.MethodGet, id, path, opts...)
}

// Post declares a POST endpoint with a typed request body.
func Post[Req, Resp any](r *Registry, id, path string, opts ...DeclareOption) (*Endpoint[Req, Resp], error) {
	return Declare[Req, Resp](r, domain.MethodPost, id, path, opts...)
}

// Put declares a PUT endpoint with a typed request body.
func Put[Req, Resp any](r *Registry, id, path string, opts ...DeclareOption) (*Endpoint[Req, Resp], error) {
	return Declare[Req, Resp](r, domain.MethodPut, id, path, opts...)
}

// Patch declares a PATCH endpoint with a typed request body.
func Patch[Req, Resp any](r *Registry, id, path string, opts ...DeclareOption) (*Endpoint[Req, Resp], error) {
	return Declare[Req, Resp](r, domain.MethodPatch, id, path, opts...)
}

// Delete declares a body-less DELETE endpoint.
func Delete[Resp any](r *Registry, id, path string, opts ...DeclareOption) (*Endpoint[NoBody, Resp], error) {
	return Declare[NoBody, Resp](r, domain.MethodDelete, id, path, opts...)
}

// Declaration returns the underlying declaration.
func (e *Endpoint[Req, Resp]) Declaration() domain.Declaration { return e.decl }

// Triplet returns the endpoint's action labels.
func (e *Endpoint[Req, Resp]) Triplet() domain.Triplet { return e.decl.Triplet }

// Call builds the dispatchable call action. Pass registry.None for body-less
// endpoints.
func (e *Endpoint[Req, Resp]) Call(body Req, opts ...CallOption) domain.Action {
	if _, noBody := any(body).(NoBody); !noBody {
		opts = append([]CallOption{WithBody(body)}, opts...)
	}
	return buildCall(e.decl, opts...)
}

// Success decodes a success action for this endpoint into Resp. The boolean
// reports whether the action matched the success label at all.
func (e *Endpoint[Req, Resp]) Success(a domain.Action) (Resp, bool, error) {
	var out Resp
	if a.Type != e.decl.Triplet.Success {
		return out, false, nil
	}
	if err := a.DecodePayload(&out); err != nil {
		return out, true, err
	}
	return out, true, nil
}

// Failure reports whether the action is this endpoint's failure action.
func (e *Endpoint[Req, Resp]) Failure(a domain.Action) bool {
	return a.Type == e.decl.Triplet.Failure
}
