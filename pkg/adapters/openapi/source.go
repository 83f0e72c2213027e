// Package openapi derives endpoint declarations from an OpenAPI 3 document.
package openapi

import (
	"context"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/aretw0/tendril/pkg/domain"
)

// Source loads endpoint declarations from an OpenAPI 3 document. Every
// operation with an operationId becomes one declaration; the operationId is
// the endpoint ID and the action triplet is derived from it.
type Source struct {
	doc *openapi3.T
}

// NewFromFile parses and validates the OpenAPI document at path.
func NewFromFile(path string) (*Source, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document %q: %w", path, err)
	}
	return newSource(loader, doc)
}

// NewFromData parses and validates an OpenAPI document held in memory.
func NewFromData(data []byte) (*Source, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openapi document: %w", err)
	}
	return newSource(loader, doc)
}

func newSource(loader *openapi3.Loader, doc *openapi3.T) (*Source, error) {
	ctx := loader.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return &Source{doc: doc}, nil
}

// Load returns one declaration per operation, sorted by endpoint ID.
func (s *Source) Load() ([]domain.Declaration, error) {
	var decls []domain.Declaration
	for path, item := range s.doc.Paths.Map() {
		for methodName, op := range item.Operations() {
			if op.OperationID == "" {
				return nil, fmt.Errorf("operation %s %s has no operationId", methodName, path)
			}
			method, err := domain.ParseMethod(methodName)
			if err != nil {
				return nil, fmt.Errorf("operation %q: %w", op.OperationID, err)
			}
			decls = append(decls, domain.Declaration{
				Endpoint: domain.Endpoint{
					ID:      op.OperationID,
					Method:  method,
					Path:    path,
					Summary: op.Summary,
					Doc:     op.Description,
				},
				Triplet: domain.DeriveTriplet(op.OperationID),
			})
		}
	}
	sort.Slice(decls, func(i, j int) bool {
		return decls[i].Endpoint.ID < decls[j].Endpoint.ID
	})
	return decls, nil
}

// Server returns the first server URL declared in the document, if any.
func (s *Source) Server() string {
	if len(s.doc.Servers) == 0 {
		return ""
	}
	return s.doc.Servers[0].URL
}

// Title returns the document's info title.
func (s *Source) Title() string {
	if s.doc.Info == nil {
		return ""
	}
	return s.doc.Info.Title
}
