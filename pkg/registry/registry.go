/*
Package registry holds the endpoint registry and the action-triplet factory.

Endpoints are declared once at startup (in code, or loaded from an OpenAPI
document or YAML manifest) and are immutable afterwards. Each declaration
yields a request/success/failure triplet and a Call factory that builds the
dispatchable call action.
*/
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
)

// Registry manages endpoint declarations. Labels are unique across the whole
// registry so consumers can subscribe to a label without ambiguity.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]domain.Declaration
	labels map[string]string // label -> endpoint ID
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byID:   make(map[string]domain.Declaration),
		labels: make(map[string]string),
	}
}

// Register adds a declaration. It fails on duplicate endpoint IDs or labels;
// registered declarations are never mutated or removed.
func (r *Registry) Register(decl domain.Declaration) error {
	if err := decl.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := decl.Endpoint.ID
	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateEndpoint, id)
	}
	for _, label := range decl.Triplet.Labels() {
		if owner, taken := r.labels[label]; taken {
			return fmt.Errorf("%w: %q already used by endpoint %s", domain.ErrDuplicateLabel, label, owner)
		}
	}

	r.byID[id] = decl
	for _, label := range decl.Triplet.Labels() {
		r.labels[label] = id
	}
	return nil
}

// AddFrom registers every declaration produced by the source.
func (r *Registry) AddFrom(src ports.EndpointSource) error {
	decls, err := src.Load()
	if err != nil {
		return fmt.Errorf("failed to load endpoint source: %w", err)
	}
	for _, decl := range decls {
		if err := r.Register(decl); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the declaration for an endpoint ID.
func (r *Registry) Get(id string) (domain.Declaration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	decl, ok := r.byID[id]
	if !ok {
		return domain.Declaration{}, fmt.Errorf("%w: %s", domain.ErrEndpointNotFound, id)
	}
	return decl, nil
}

// List returns all declarations sorted by endpoint ID.
func (r *Registry) List() []domain.Declaration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	decls := make([]domain.Declaration, 0, len(r.byID))
	for _, d := range r.byID {
		decls = append(decls, d)
	}
	sort.Slice(decls, func(i, j int) bool {
		return decls[i].Endpoint.ID < decls[j].Endpoint.ID
	})
	return decls
}

// Call builds the dispatchable call action for a registered endpoint.
func (r *Registry) Call(id string, opts ...CallOption) (domain.Action, error) {
	decl, err := r.Get(id)
	if err != nil {
		return domain.Action{}, err
	}
	return buildCall(decl, opts...), nil
}
