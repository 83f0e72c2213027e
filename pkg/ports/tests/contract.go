package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
)

// JournalContractTest is a reusable suite verifying that an adapter complies
// with ports.Journal: newest-first listing, limit handling and Clear.
func JournalContractTest(t *testing.T, journal ports.Journal) {
	t.Helper()

	ctx := context.Background()

	seed := func(n int) {
		for i := 0; i < n; i++ {
			entry := ports.JournalEntry{
				Time:          time.Now().UTC(),
				ActionType:    fmt.Sprintf("ep%d/REQUEST", i),
				Endpoint:      fmt.Sprintf("ep%d", i),
				CorrelationID: fmt.Sprintf("corr-%d", i),
				Meta:          domain.Meta{domain.MetaCorrelationID: fmt.Sprintf("corr-%d", i)},
			}
			if err := journal.Append(ctx, entry); err != nil {
				t.Fatalf("unexpected error appending entry %d: %v", i, err)
			}
		}
	}

	t.Run("List_NewestFirst", func(t *testing.T) {
		if err := journal.Clear(ctx); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		seed(3)

		entries, err := journal.List(ctx, 0)
		if err != nil {
			t.Fatalf("unexpected error listing: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(entries))
		}
		if entries[0].Endpoint != "ep2" || entries[2].Endpoint != "ep0" {
			t.Errorf("expected newest-first order, got %q .. %q", entries[0].Endpoint, entries[2].Endpoint)
		}
	})

	t.Run("List_Limit", func(t *testing.T) {
		if err := journal.Clear(ctx); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		seed(5)

		entries, err := journal.List(ctx, 2)
		if err != nil {
			t.Fatalf("unexpected error listing: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Endpoint != "ep4" {
			t.Errorf("expected newest entry first, got %q", entries[0].Endpoint)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		seed(1)
		if err := journal.Clear(ctx); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		entries, err := journal.List(ctx, 0)
		if err != nil {
			t.Fatalf("unexpected error listing after clear: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected empty journal after clear, got %d entries", len(entries))
		}
	})
}
