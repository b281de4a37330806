package domain

import (
	"context"
	"time"
)

// Role identifies which side of the marketplace an account belongs to
type Role string

const (
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// ValidRole reports whether r is one of the three marketplace roles
func ValidRole(r Role) bool {
	switch r {
	case RoleFarmer, RoleBuyer, RoleSeller:
		return true
	}
	return false
}

// Account represents a registered marketplace user
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"` // Unique, case-sensitive
	PasswordHash string    `json:"-"`     // Bcrypt hash; empty for seeded demo accounts
	Role         Role      `json:"role"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AccountRepository defines data access for accounts.
// Create must reject a duplicate email atomically (check-then-insert
// under a single critical section) and return ErrDuplicateEmail.
type AccountRepository interface {
	Create(account *Account) error
	GetByID(id string) (*Account, error)
	GetByEmail(email string) (*Account, error)
	List() ([]*Account, error)
}

// SessionStore persists the active viewer across process restarts.
// At most one account is stored at a time under a fixed key.
type SessionStore interface {
	Save(ctx context.Context, account *Account) error
	Load(ctx context.Context) (*Account, error)
	Clear(ctx context.Context) error
}
