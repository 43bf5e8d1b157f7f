package store

import (
	"context"
	"testing"
)

func TestSeedHousehold(t *testing.T) {
	_, _, cs := setupTestDB(t)
	ctx := context.Background()

	h, err := cs.SeedHousehold(ctx, "Demo Family", "")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if h.Name != "Demo Family" || h.Currency != "USD" {
		t.Errorf("household = %+v", h)
	}

	categories, err := cs.ListByHousehold(ctx, h.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(categories) != len(DefaultCategories) {
		t.Fatalf("categories = %d, want %d", len(categories), len(DefaultCategories))
	}
	for i, c := range categories {
		want := DefaultCategories[i]
		if c.Name != want.Name || c.Icon != want.Icon || c.Color != want.Color {
			t.Errorf("category %d = %+v, want %+v", i, c, want)
		}
		if c.HouseholdID != h.ID {
			t.Errorf("category %d household = %q, want %q", i, c.HouseholdID, h.ID)
		}
	}
}

func TestListByHouseholdEmpty(t *testing.T) {
	_, _, cs := setupTestDB(t)

	categories, err := cs.ListByHousehold(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("categories = %d, want 0", len(categories))
	}
}

func TestSeedHouseholdTwiceCreatesTwoHouseholds(t *testing.T) {
	hs, _, cs := setupTestDB(t)
	ctx := context.Background()

	if _, err := cs.SeedHousehold(ctx, "Demo Family", "USD"); err != nil {
		t.Fatalf("seed 1: %v", err)
	}
	if _, err := cs.SeedHousehold(ctx, "Demo Family", "USD"); err != nil {
		t.Fatalf("seed 2: %v", err)
	}

	households, err := hs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(households) != 2 {
		t.Errorf("households = %d, want 2", len(households))
	}
}
