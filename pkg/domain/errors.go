package domain

import "errors"

// ErrEndpointNotFound is returned when an endpoint ID is not registered.
var ErrEndpointNotFound = errors.New("endpoint not found")

// ErrDuplicateEndpoint is returned when registering an ID twice.
var ErrDuplicateEndpoint = errors.New("duplicate endpoint")

// ErrDuplicateLabel is returned when a triplet label is already claimed by
// another endpoint. Labels must be unique across the whole registry.
var ErrDuplicateLabel = errors.New("duplicate action label")

// ErrInvalidTriplet is returned for incomplete or colliding triplets.
var ErrInvalidTriplet = errors.New("invalid action triplet")

// ErrInvalidDeclaration is returned for malformed endpoint declarations.
var ErrInvalidDeclaration = errors.New("invalid endpoint declaration")

// ErrUnsupportedMethod is returned for HTTP methods outside the declared set.
var ErrUnsupportedMethod = errors.New("unsupported http method")

// ErrNoTerminal is returned by Await when the context ends before a terminal
// action was observed. A timed-out invocation never produces one.
var ErrNoTerminal = errors.New("no terminal action")

// ErrBusClosed is returned when dispatching on a closed bus.
var ErrBusClosed = errors.New("bus closed")
