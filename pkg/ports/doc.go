/*
Package ports defines the narrow interfaces between the Tendril core and its
collaborators: the action bus, the HTTP transport primitive, the optional
token supplier, the action journal and endpoint sources.

The core depends only on these interfaces; concrete implementations live in
pkg/bus and pkg/adapters.
*/
package ports
