package ports

import "github.com/aretw0/tendril/pkg/domain"

// EndpointSource produces endpoint declarations for registration. Adapters
// exist for OpenAPI documents and YAML manifests; code-level declaration goes
// through pkg/registry directly.
type EndpointSource interface {
	Load() ([]domain.Declaration, error)
}
