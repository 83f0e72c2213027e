package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
)

type redactMiddleware struct {
	next     ports.Journal
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks payload and meta values
// whose keys match the given patterns before journaling. Journals often end
// up in debug endpoints and Redis, so credentials must never land there
// verbatim.
func NewRedactMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.Journal) ports.Journal {
		return &redactMiddleware{next: next, patterns: patterns}
	}
}

// DefaultPatterns covers the usual credential key names.
var DefaultPatterns = []string{
	`(?i)password`,
	`(?i)secret`,
	`(?i)token`,
	`(?i)authorization`,
	`(?i)api_?key`,
}

func (m *redactMiddleware) Append(ctx context.Context, entry ports.JournalEntry) error {
	// Clone before masking: the entry payload may still be referenced by
	// bus subscribers.
	cloned := entry
	if payload, ok := entry.Payload.(map[string]any); ok {
		copied := deepCopyMap(payload)
		maskMap(copied, m.patterns)
		cloned.Payload = copied
	}
	if entry.Meta != nil {
		copied := deepCopyMap(entry.Meta)
		maskMap(copied, m.patterns)
		cloned.Meta = domain.Meta(copied)
	}
	return m.next.Append(ctx, cloned)
}

func (m *redactMiddleware) List(ctx context.Context, limit int) ([]ports.JournalEntry, error) {
	return m.next.List(ctx, limit)
}

func (m *redactMiddleware) Clear(ctx context.Context) error {
	return m.next.Clear(ctx)
}

// Helpers

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if subMap, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(subMap)
		} else {
			out[k] = v // shallow copy of value
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = "***"
				break
			}
		}

		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}
