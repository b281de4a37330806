package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourorg/agrimarket/internal/domain"
	"github.com/yourorg/agrimarket/internal/observability/metrics"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned on any failed login, regardless of
// whether the email was unknown or the password rejected
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService is the identity store frontend and the session manager.
// It tracks at most one active viewer and mirrors it to the session
// store so the viewer survives a restart.
//
// Login looks accounts up by email only. Password verification is off
// by default, preserving the original marketplace behavior where the
// credential was never checked; enabling VerifyPasswords turns on
// bcrypt comparison for accounts that carry a hash. Seeded demo
// accounts carry none and always pass.
type AuthService struct {
	accounts domain.AccountRepository
	sessions domain.SessionStore
	newID    func() string

	// VerifyPasswords enables bcrypt verification at login
	VerifyPasswords bool

	mu      sync.RWMutex
	current *domain.Account

	logger *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	accounts domain.AccountRepository,
	sessions domain.SessionStore,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		accounts: accounts,
		sessions: sessions,
		newID:    uuid.NewString,
		logger:   logger,
	}
}

// Register creates a new account and establishes it as the active
// session. The duplicate-email check is case-sensitive and atomic with
// the insert (the repository enforces it in one critical section).
func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role, location string) (*domain.Account, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return nil, errors.New("name and email are required")
	}
	if !domain.ValidRole(role) {
		return nil, errors.New("role must be farmer, buyer, or seller")
	}

	account := &domain.Account{
		ID:        s.newID(),
		Name:      name,
		Email:     email,
		Role:      role,
		Location:  location,
		CreatedAt: time.Now(),
	}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("failed to hash password", slog.String("error", err.Error()))
			return nil, errors.New("failed to register")
		}
		account.PasswordHash = string(hash)
	}

	if err := s.accounts.Create(account); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			metrics.ObserveAuth("register", "duplicate")
			return nil, domain.ErrDuplicateEmail
		}
		s.logger.Error("failed to create account", slog.String("error", err.Error()))
		return nil, errors.New("failed to register")
	}

	metrics.ObserveAuth("register", "ok")
	s.logger.Info("account registered",
		slog.String("account_id", account.ID),
		slog.String("role", string(account.Role)),
	)

	s.establishSession(ctx, account)
	return account, nil
}

// Login authenticates by email lookup and establishes the session
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, error) {
	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		metrics.ObserveAuth("login", "failed")
		s.logger.Info("login attempt for unknown email", slog.String("email", email))
		return nil, ErrInvalidCredentials
	}

	if s.VerifyPasswords && account.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
			metrics.ObserveAuth("login", "failed")
			s.logger.Info("login failed with wrong password", slog.String("email", email))
			return nil, ErrInvalidCredentials
		}
	}

	metrics.ObserveAuth("login", "ok")
	s.logger.Info("user logged in",
		slog.String("account_id", account.ID),
		slog.String("role", string(account.Role)),
	)

	s.establishSession(ctx, account)
	return account, nil
}

// Logout clears the active session, both in memory and persisted
func (s *AuthService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear persisted session", slog.String("error", err.Error()))
		return err
	}
	metrics.ObserveAuth("logout", "ok")
	return nil
}

// Current returns the active viewer, or nil when anonymous
func (s *AuthService) Current() *domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// GetByID resolves an account by ID (used when mapping token claims to
// a viewer)
func (s *AuthService) GetByID(id string) (*domain.Account, error) {
	return s.accounts.GetByID(id)
}

// Restore loads the persisted session at startup. A missing session is
// not an error; a store failure is reported so the caller can retry.
func (s *AuthService) Restore(ctx context.Context) error {
	account, err := s.sessions.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.current = account
	s.mu.Unlock()

	s.logger.Info("session restored",
		slog.String("account_id", account.ID),
		slog.String("role", string(account.Role)),
	)
	return nil
}

// establishSession makes the account the active viewer. Persistence
// failures degrade to in-memory only; the login itself still succeeds.
func (s *AuthService) establishSession(ctx context.Context, account *domain.Account) {
	s.mu.Lock()
	cp := *account
	s.current = &cp
	s.mu.Unlock()

	if err := s.sessions.Save(ctx, account); err != nil {
		s.logger.Warn("failed to persist session",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
	}
}
