package ports

import (
	"context"
	"net/http"

	"github.com/aretw0/tendril/pkg/domain"
)

// Request is the wire-level shape handed to the transport: final URL, method,
// headers and an already-encoded body.
type Request struct {
	Method domain.Method
	URL    string
	Header http.Header
	Body   []byte
}

// Response is what the transport hands back. Body is the raw bytes; status
// mapping and JSON decoding are the worker's concern.
type Response struct {
	Status int
	Body   []byte
}

// Transport abstracts the network-request primitive (a fetch equivalent).
// Implementations must honor ctx for connection lifetime but must not impose
// their own overall deadline: the worker races the call against its timeout
// and discards the loser.
type Transport interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req Request) (*Response, error)

// Do implements Transport.
func (f TransportFunc) Do(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
