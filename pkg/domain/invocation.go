package domain

import (
	"fmt"
	"time"
)

// Invocation is one dispatched request to execute an endpoint. It is the
// payload of an ActionDispatchCall action and is ephemeral: built, dispatched,
// consumed by the worker, discarded.
type Invocation struct {
	Endpoint   string         `json:"endpoint,omitempty" mapstructure:"endpoint"`
	Method     Method         `json:"method" mapstructure:"method"`
	Path       string         `json:"path" mapstructure:"path"`
	PathParams map[string]any `json:"path_params,omitempty" mapstructure:"path_params"`
	Query      map[string]string `json:"query,omitempty" mapstructure:"query"`
	Body       any            `json:"body,omitempty" mapstructure:"body"`

	// Server overrides the dispatcher base URL for this invocation only.
	Server string `json:"server,omitempty" mapstructure:"server"`

	// Delay suspends the worker after the Request action and before the
	// network call is issued.
	Delay time.Duration `json:"delay,omitempty" mapstructure:"delay"`

	Meta   Meta    `json:"meta,omitempty" mapstructure:"meta"`
	Labels Triplet `json:"labels" mapstructure:"labels"`
}

// CorrelationID returns the correlation ID from the invocation meta.
func (i Invocation) CorrelationID() string {
	if i.Meta == nil {
		return ""
	}
	id, _ := i.Meta[MetaCorrelationID].(string)
	return id
}

// InvocationFrom extracts the Invocation payload from a call action. It
// accepts both the native struct (in-process dispatch) and a map payload
// (actions that crossed a JSON boundary, e.g. the debug HTTP server).
func InvocationFrom(act Action) (Invocation, error) {
	if act.Type != ActionDispatchCall {
		return Invocation{}, fmt.Errorf("action %q is not a call action", act.Type)
	}
	if inv, ok := act.Payload.(Invocation); ok {
		return inv, nil
	}
	var inv Invocation
	if err := act.DecodePayload(&inv); err != nil {
		return Invocation{}, err
	}
	return inv, nil
}
