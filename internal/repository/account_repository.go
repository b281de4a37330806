package repository

import (
	"log/slog"
	"sync"

	"github.com/yourorg/agrimarket/internal/domain"
)

// MemoryAccountRepository implements domain.AccountRepository with an
// in-process store. This is the default identity backend; the catalog
// and identity stores are process-local by design, with Postgres as an
// opt-in alternative.
type MemoryAccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Account
	byEmail map[string]*domain.Account
	order   []string // insertion order of IDs
	logger  *slog.Logger
}

// NewMemoryAccountRepository creates an empty in-memory account repository
func NewMemoryAccountRepository(logger *slog.Logger) *MemoryAccountRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryAccountRepository{
		byID:    map[string]*domain.Account{},
		byEmail: map[string]*domain.Account{},
		logger:  logger,
	}
}

// Create inserts a new account. The duplicate-email check and the
// insert happen under one critical section so concurrent registrations
// cannot race past the uniqueness invariant.
func (r *MemoryAccountRepository) Create(account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[account.Email]; exists {
		return domain.ErrDuplicateEmail
	}

	cp := *account
	r.byID[cp.ID] = &cp
	r.byEmail[cp.Email] = &cp
	r.order = append(r.order, cp.ID)

	r.logger.Debug("account created",
		slog.String("account_id", cp.ID),
		slog.String("role", string(cp.Role)),
	)
	return nil
}

// GetByID retrieves an account by ID
func (r *MemoryAccountRepository) GetByID(id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *account
	return &cp, nil
}

// GetByEmail retrieves an account by its exact, case-sensitive email
func (r *MemoryAccountRepository) GetByEmail(email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *account
	return &cp, nil
}

// List returns all accounts in registration order
func (r *MemoryAccountRepository) List() ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Account, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.byID[id]
		out = append(out, &cp)
	}
	return out, nil
}
