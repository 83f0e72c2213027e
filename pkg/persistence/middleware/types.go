// Package middleware provides wrappers around ports.Journal to add behavior
// before entries are persisted.
package middleware

import "github.com/aretw0/tendril/pkg/ports"

// Middleware allows wrapping a Journal to add behavior.
type Middleware func(ports.Journal) ports.Journal
