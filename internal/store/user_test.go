package store

import (
	"context"
	"testing"
)

func TestUserGetByEmailIsCaseSensitive(t *testing.T) {
	hs, us, _ := setupTestDB(t)
	ctx := context.Background()

	if _, _, err := hs.CreateWithAdmin(ctx, "H", "USD", alice()); err != nil {
		t.Fatalf("create: %v", err)
	}

	u, err := us.GetByEmail(ctx, "Alice@Example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u != nil {
		t.Error("expected no match for differently cased email")
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	_, us, _ := setupTestDB(t)

	u, err := us.GetByID(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent user")
	}
}

func TestUserDelete(t *testing.T) {
	hs, us, _ := setupTestDB(t)
	ctx := context.Background()

	h, u, err := hs.CreateWithAdmin(ctx, "H", "USD", alice())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := us.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := us.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got != nil {
		t.Error("expected user to be gone")
	}

	// The household outlives its users.
	hh, err := hs.GetByID(ctx, h.ID)
	if err != nil {
		t.Fatalf("get household: %v", err)
	}
	if hh == nil {
		t.Error("expected household to remain")
	}
}
