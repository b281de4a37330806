package repository

import (
	"errors"
	"testing"

	"github.com/yourorg/agrimarket/internal/domain"
)

func TestAccountRepositoryDuplicateEmail(t *testing.T) {
	repo := NewMemoryAccountRepository(nil)

	if err := repo.Create(&domain.Account{ID: "a1", Email: "x@example.com", Role: domain.RoleFarmer}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	err := repo.Create(&domain.Account{ID: "a2", Email: "x@example.com", Role: domain.RoleBuyer})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	all, _ := repo.List()
	if len(all) != 1 {
		t.Fatalf("duplicate create mutated the store, %d accounts", len(all))
	}
}

func TestAccountEmailIsCaseSensitive(t *testing.T) {
	repo := NewMemoryAccountRepository(nil)
	repo.Create(&domain.Account{ID: "a1", Email: "Asha@Example.com", Role: domain.RoleFarmer})

	// A differently-cased email is a distinct identity
	if err := repo.Create(&domain.Account{ID: "a2", Email: "asha@example.com", Role: domain.RoleFarmer}); err != nil {
		t.Fatalf("differently-cased email should be allowed: %v", err)
	}
	if _, err := repo.GetByEmail("ASHA@EXAMPLE.COM"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("lookup should be exact, got %v", err)
	}
}

func TestAccountRepositoryReturnsCopies(t *testing.T) {
	repo := NewMemoryAccountRepository(nil)
	repo.Create(&domain.Account{ID: "a1", Name: "Asha", Email: "x@example.com", Role: domain.RoleFarmer})

	got, err := repo.GetByID("a1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	got.Name = "Mutated"

	again, _ := repo.GetByID("a1")
	if again.Name != "Asha" {
		t.Fatalf("caller mutation leaked into the store: %q", again.Name)
	}
}

func TestAccountListPreservesOrder(t *testing.T) {
	repo := NewMemoryAccountRepository(nil)
	repo.Create(&domain.Account{ID: "a1", Email: "1@x.com", Role: domain.RoleFarmer})
	repo.Create(&domain.Account{ID: "a2", Email: "2@x.com", Role: domain.RoleBuyer})
	repo.Create(&domain.Account{ID: "a3", Email: "3@x.com", Role: domain.RoleSeller})

	all, _ := repo.List()
	for i, want := range []string{"a1", "a2", "a3"} {
		if all[i].ID != want {
			t.Fatalf("order[%d] = %s, want %s", i, all[i].ID, want)
		}
	}
}
