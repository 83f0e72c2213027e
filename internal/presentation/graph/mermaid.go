// Package graph renders registered endpoints as Mermaid flowcharts for
// documentation and debugging.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart for the action flow of each
// declaration: the endpoint fans out into its request action, which resolves
// into success or failure. The timeout path is drawn dotted since it produces
// no action at all.
func GenerateMermaid(decls []domain.Declaration) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, decl := range decls {
		safeID := sanitizeMermaidID(decl.Endpoint.ID)

		// Endpoint as subroutine shape, labelled with method and path
		sb.WriteString(fmt.Sprintf("    %s[[\"%s<br/>%s %s\"]]\n",
			safeID, decl.Endpoint.ID, decl.Endpoint.Method, decl.Endpoint.Path))

		reqID := safeID + "_request"
		sb.WriteString(fmt.Sprintf("    %s --> %s[\"%s\"]\n", safeID, reqID, decl.Triplet.Request))
		sb.WriteString(fmt.Sprintf("    %s -- \"status < 400\" --> %s_success[\"%s\"]\n",
			reqID, safeID, decl.Triplet.Success))
		sb.WriteString(fmt.Sprintf("    %s -- \"status >= 400 or error\" --> %s_failure[\"%s\"]\n",
			reqID, safeID, decl.Triplet.Failure))
		sb.WriteString(fmt.Sprintf("    %s -. \"timeout\" .-> dropped\n", reqID))
	}

	sb.WriteString("    dropped((dropped))\n")
	sb.WriteString("\n    classDef success fill:#e8f5e9,stroke:#2e7d32,color:#000;\n")
	sb.WriteString("    classDef failure fill:#ffebee,stroke:#c62828,color:#000;\n")
	for _, decl := range decls {
		safeID := sanitizeMermaidID(decl.Endpoint.ID)
		sb.WriteString(fmt.Sprintf("    class %s_success success;\n", safeID))
		sb.WriteString(fmt.Sprintf("    class %s_failure failure;\n", safeID))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
