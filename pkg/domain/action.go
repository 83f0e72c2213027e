package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ActionDispatchCall is the well-known action type the dispatch worker listens
// on. Any action of this type must carry an Invocation as payload.
const ActionDispatchCall = "tendril/CALL"

// Meta carries correlation metadata from a call invocation into every action
// emitted for it. It is opaque to the worker and flows through unchanged.
type Meta map[string]any

// MetaCorrelationID is the meta key holding the invocation correlation ID.
const MetaCorrelationID = "correlation_id"

// Action is the unit that flows over the bus: a type tag, an optional payload
// (decoded response body, or an invocation for call actions) and the meta of
// the originating invocation.
type Action struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
	Meta    Meta   `json:"meta,omitempty"`
}

// CorrelationID returns the correlation ID from Meta, or "" if absent.
func (a Action) CorrelationID() string {
	if a.Meta == nil {
		return ""
	}
	id, _ := a.Meta[MetaCorrelationID].(string)
	return id
}

// DecodePayload decodes the action payload into out. It handles the
// map[string]any payloads produced by JSON response decoding, using the json
// tags of the target struct.
func (a Action) DecodePayload(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return fmt.Errorf("failed to build payload decoder: %w", err)
	}
	if err := dec.Decode(a.Payload); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

// EmptyPayload is the payload attached to request actions and to failure
// actions produced by transport or decode errors.
func EmptyPayload() map[string]any {
	return map[string]any{}
}
