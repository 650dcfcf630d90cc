package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/harborlight/ipsearch/internal/history"
)

func TestSaveSearchNewestFirst(t *testing.T) {
	t.Parallel()

	store := New(10)
	for i := 0; i < 3; i++ {
		err := store.SaveSearch(context.Background(), history.SearchRecord{
			ID: fmt.Sprintf("id-%d", i),
		})
		if err != nil {
			t.Fatalf("SaveSearch() error = %v", err)
		}
	}

	got, err := store.RecentSearches(context.Background(), 2)
	if err != nil {
		t.Fatalf("RecentSearches() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "id-2" || got[1].ID != "id-1" {
		t.Fatalf("order = %q, %q; want newest first", got[0].ID, got[1].ID)
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	t.Parallel()

	store := New(2)
	for i := 0; i < 5; i++ {
		_ = store.SaveSearch(context.Background(), history.SearchRecord{
			ID: fmt.Sprintf("id-%d", i),
		})
	}

	got, err := store.RecentSearches(context.Background(), 0)
	if err != nil {
		t.Fatalf("RecentSearches() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want capacity 2", len(got))
	}
	if got[0].ID != "id-4" || got[1].ID != "id-3" {
		t.Fatalf("kept = %q, %q; want two newest", got[0].ID, got[1].ID)
	}
}

func TestRecentSearchesReturnsCopy(t *testing.T) {
	t.Parallel()

	store := New(5)
	_ = store.SaveSearch(context.Background(), history.SearchRecord{ID: "original"})

	got, _ := store.RecentSearches(context.Background(), 1)
	got[0].ID = "mutated"

	again, _ := store.RecentSearches(context.Background(), 1)
	if again[0].ID != "original" {
		t.Fatal("caller mutation leaked into the store")
	}
}
