// Package manifest loads endpoint declarations from a hand-written YAML or
// JSON manifest file, for services that do not publish an OpenAPI document.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/tendril/pkg/domain"
)

// EndpointConfig is one manifest entry. Triplet labels are optional; when
// omitted they are derived from the endpoint ID.
type EndpointConfig struct {
	ID      string `yaml:"id" json:"id"`
	Method  string `yaml:"method" json:"method"`
	Path    string `yaml:"path" json:"path"`
	Summary string `yaml:"summary" json:"summary"`
	Doc     string `yaml:"doc" json:"doc"`

	Request string `yaml:"request" json:"request"`
	Success string `yaml:"success" json:"success"`
	Failure string `yaml:"failure" json:"failure"`
}

// File represents the structure of endpoints.yaml.
type File struct {
	Server    string           `yaml:"server" json:"server"`
	Endpoints []EndpointConfig `yaml:"endpoints" json:"endpoints"`
}

// Source loads declarations from a manifest file.
type Source struct {
	file File
}

// NewFromFile reads and parses a manifest file (YAML or JSON by extension).
func NewFromFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read endpoint manifest: %w", err)
	}

	var file File
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse endpoint manifest: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse endpoint manifest: %w", err)
		}
	}
	return &Source{file: file}, nil
}

// NewFromData parses a YAML manifest held in memory.
func NewFromData(data []byte) (*Source, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse endpoint manifest: %w", err)
	}
	return &Source{file: file}, nil
}

// Load converts manifest entries into declarations, in manifest order.
func (s *Source) Load() ([]domain.Declaration, error) {
	decls := make([]domain.Declaration, 0, len(s.file.Endpoints))
	for _, e := range s.file.Endpoints {
		method, err := domain.ParseMethod(e.Method)
		if err != nil {
			return nil, fmt.Errorf("endpoint %q: %w", e.ID, err)
		}
		triplet := domain.DeriveTriplet(e.ID)
		if e.Request != "" {
			triplet.Request = e.Request
		}
		if e.Success != "" {
			triplet.Success = e.Success
		}
		if e.Failure != "" {
			triplet.Failure = e.Failure
		}
		decl := domain.Declaration{
			Endpoint: domain.Endpoint{
				ID:      e.ID,
				Method:  method,
				Path:    e.Path,
				Summary: e.Summary,
				Doc:     e.Doc,
			},
			Triplet: triplet,
		}
		if err := decl.Validate(); err != nil {
			return nil, fmt.Errorf("endpoint %q: %w", e.ID, err)
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// Server returns the manifest's server URL, if declared.
func (s *Source) Server() string {
	return s.file.Server
}
