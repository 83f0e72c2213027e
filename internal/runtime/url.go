package runtime

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
	oapiruntime "github.com/oapi-codegen/runtime"
)

// BuildURL resolves the final request URL for an invocation: server override
// (or base URL) + path template with params bound OpenAPI-style + query.
func BuildURL(baseURL string, inv domain.Invocation) (string, error) {
	server := inv.Server
	if server == "" {
		server = baseURL
	}
	if server == "" {
		return "", fmt.Errorf("no server configured for invocation %s", inv.Endpoint)
	}

	path := inv.Path
	for name, value := range inv.PathParams {
		styled, err := oapiruntime.StyleParamWithLocation("simple", false, name, oapiruntime.ParamLocationPath, value)
		if err != nil {
			return "", fmt.Errorf("failed to style path param %q: %w", name, err)
		}
		placeholder := "{" + name + "}"
		if !strings.Contains(path, placeholder) {
			return "", fmt.Errorf("path %q has no placeholder for param %q", path, name)
		}
		path = strings.ReplaceAll(path, placeholder, url.PathEscape(styled))
	}
	if strings.Contains(path, "{") {
		return "", fmt.Errorf("path %q has unbound placeholders", path)
	}

	full := strings.TrimRight(server, "/") + path

	if len(inv.Query) > 0 {
		values := url.Values{}
		for k, v := range inv.Query {
			values.Set(k, v)
		}
		full += "?" + values.Encode()
	}
	return full, nil
}
