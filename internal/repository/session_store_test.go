package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/yourorg/agrimarket/internal/domain"
)

func TestMemorySessionStoreRoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("empty store should return ErrNotFound, got %v", err)
	}

	account := &domain.Account{ID: "acc-1", Name: "Ramesh Kumar", Email: "ramesh@farm.com", Role: domain.RoleFarmer}
	if err := store.Save(ctx, account); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.ID != "acc-1" || loaded.Role != domain.RoleFarmer {
		t.Fatalf("unexpected session: %+v", loaded)
	}

	// Save overwrites: there is exactly one session slot
	if err := store.Save(ctx, &domain.Account{ID: "acc-2", Email: "other@x.com", Role: domain.RoleBuyer}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, _ = store.Load(ctx)
	if loaded.ID != "acc-2" {
		t.Fatalf("save should replace the session, got %s", loaded.ID)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cleared store should return ErrNotFound, got %v", err)
	}
}

func TestMemorySessionStoreCopies(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	account := &domain.Account{ID: "acc-1", Name: "Asha", Role: domain.RoleFarmer}
	store.Save(ctx, account)
	account.Name = "Mutated"

	loaded, _ := store.Load(ctx)
	if loaded.Name != "Asha" {
		t.Fatalf("caller mutation leaked into the store: %q", loaded.Name)
	}
}
