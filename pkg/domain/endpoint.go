package domain

import (
	"fmt"
	"strings"
)

// Method is an HTTP method supported by endpoint declarations.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// ParseMethod normalizes and validates an HTTP method string.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToUpper(strings.TrimSpace(s))); m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
	}
}

// Endpoint describes one named remote operation: fixed method, path template
// (OpenAPI style, e.g. /users/{id}) and optional documentation. Immutable
// after registration.
type Endpoint struct {
	ID      string `json:"id"`
	Method  Method `json:"method"`
	Path    string `json:"path"`
	Summary string `json:"summary,omitempty"`
	Doc     string `json:"doc,omitempty"`
}

// Triplet is the set of three correlated action labels for one endpoint.
type Triplet struct {
	Request string `json:"request"`
	Success string `json:"success"`
	Failure string `json:"failure"`
}

// Validate checks that all three labels are present and distinct.
func (t Triplet) Validate() error {
	if t.Request == "" || t.Success == "" || t.Failure == "" {
		return fmt.Errorf("%w: all three labels are required", ErrInvalidTriplet)
	}
	if t.Request == t.Success || t.Request == t.Failure || t.Success == t.Failure {
		return fmt.Errorf("%w: labels must be distinct", ErrInvalidTriplet)
	}
	return nil
}

// Labels returns the three labels in request, success, failure order.
func (t Triplet) Labels() []string {
	return []string{t.Request, t.Success, t.Failure}
}

// DeriveTriplet builds the conventional triplet for an endpoint ID:
// "<id>/REQUEST", "<id>/SUCCESS", "<id>/FAILURE".
func DeriveTriplet(id string) Triplet {
	return Triplet{
		Request: id + "/REQUEST",
		Success: id + "/SUCCESS",
		Failure: id + "/FAILURE",
	}
}

// Declaration couples an endpoint descriptor with its action triplet. This is
// the unit endpoint sources produce and the registry stores.
type Declaration struct {
	Endpoint Endpoint `json:"endpoint"`
	Triplet  Triplet  `json:"triplet"`
}

// Validate checks the declaration is complete enough to register.
func (d Declaration) Validate() error {
	if d.Endpoint.ID == "" {
		return fmt.Errorf("%w: endpoint ID is required", ErrInvalidDeclaration)
	}
	if _, err := ParseMethod(string(d.Endpoint.Method)); err != nil {
		return err
	}
	if !strings.HasPrefix(d.Endpoint.Path, "/") {
		return fmt.Errorf("%w: path must start with /", ErrInvalidDeclaration)
	}
	return d.Triplet.Validate()
}
