package middleware

import (
	"context"
	"testing"

	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactMiddleware_MasksMatchingKeys(t *testing.T) {
	journal := NewRedactMiddleware(DefaultPatterns)(memory.NewJournal())
	ctx := context.Background()

	payload := map[string]any{
		"username": "a",
		"password": "b",
		"nested": map[string]any{
			"api_key": "k",
			"note":    "visible",
		},
	}
	err := journal.Append(ctx, ports.JournalEntry{
		ActionType: "login/REQUEST",
		Payload:    payload,
		Meta:       domain.Meta{"auth_token": "t", "screen": "signin"},
	})
	require.NoError(t, err)

	entries, err := journal.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	stored := entries[0].Payload.(map[string]any)
	assert.Equal(t, "a", stored["username"])
	assert.Equal(t, "***", stored["password"])
	assert.Equal(t, "***", stored["nested"].(map[string]any)["api_key"])
	assert.Equal(t, "visible", stored["nested"].(map[string]any)["note"])

	assert.Equal(t, "***", entries[0].Meta["auth_token"])
	assert.Equal(t, "signin", entries[0].Meta["screen"])

	// The caller's payload is untouched.
	assert.Equal(t, "b", payload["password"])
}
