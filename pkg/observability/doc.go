/*
Package observability provides Prometheus instrumentation for the dispatch
lifecycle.

The Metrics collector plugs into domain.LifecycleHooks, so it observes every
invocation, including timed-out ones that never produce a terminal action
and would otherwise be invisible.
*/
package observability
