/*
Package domain contains the core value types of the Tendril dispatch layer:
endpoint descriptors, the request/success/failure action triplet, call
invocations and the actions that flow over the bus.

Everything here is plain data. Behavior (registration, dispatching, transport)
lives in pkg/registry, pkg/bus and internal/runtime.
*/
package domain
