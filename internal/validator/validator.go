// Package validator lints endpoint declarations before they reach a registry:
// malformed path templates, colliding IDs and colliding action labels.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
)

// ValidateDeclarations checks a set of declarations for structural problems
// and reports all of them at once.
func ValidateDeclarations(decls []domain.Declaration) error {
	var problems []string

	seenIDs := make(map[string]bool)
	seenLabels := make(map[string]string)

	for _, decl := range decls {
		id := decl.Endpoint.ID

		if err := decl.Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("endpoint '%s': %v", id, err))
			continue
		}

		if seenIDs[id] {
			problems = append(problems, fmt.Sprintf("duplicate endpoint ID: '%s'", id))
		}
		seenIDs[id] = true

		for _, label := range decl.Triplet.Labels() {
			if owner, ok := seenLabels[label]; ok {
				problems = append(problems, fmt.Sprintf("endpoint '%s': action label '%s' already used by '%s'", id, label, owner))
				continue
			}
			seenLabels[label] = id
		}

		if errs := validatePath(decl.Endpoint.Path); len(errs) > 0 {
			for _, e := range errs {
				problems = append(problems, fmt.Sprintf("endpoint '%s': %s", id, e))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("validation failed with %d issue(s):\n - %s",
			len(problems), strings.Join(problems, "\n - "))
	}
	return nil
}

// validatePath checks the path template for balanced, non-empty, unique
// parameter placeholders.
func validatePath(path string) []string {
	var errs []string
	seen := make(map[string]bool)

	rest := path
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			if strings.Contains(rest, "}") {
				errs = append(errs, fmt.Sprintf("unbalanced '}' in path %q", path))
			}
			break
		}
		close := strings.Index(rest[open:], "}")
		if close < 0 {
			errs = append(errs, fmt.Sprintf("unclosed '{' in path %q", path))
			break
		}

		name := rest[open+1 : open+close]
		switch {
		case name == "":
			errs = append(errs, fmt.Sprintf("empty parameter name in path %q", path))
		case strings.Contains(name, "{"):
			errs = append(errs, fmt.Sprintf("nested '{' in path %q", path))
		case seen[name]:
			errs = append(errs, fmt.Sprintf("duplicate parameter '%s' in path %q", name, path))
		default:
			seen[name] = true
		}

		rest = rest[open+close+1:]
	}
	return errs
}
