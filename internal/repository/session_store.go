package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yourorg/agrimarket/internal/domain"
	"github.com/yourorg/agrimarket/internal/infrastructure/redis"
	"github.com/yourorg/agrimarket/internal/reliability/circuitbreaker"
)

// SessionKey is the fixed key under which the active account is persisted
const SessionKey = "agrimarket:session:current"

// RedisSessionStore implements domain.SessionStore on Redis. A circuit
// breaker guards every call so a dead Redis fails fast instead of
// stalling login and startup; while the circuit is open, session
// persistence degrades to in-memory only.
type RedisSessionStore struct {
	redis   *redis.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewRedisSessionStore creates a Redis-backed session store
func NewRedisSessionStore(redisClient *redis.Client, logger *slog.Logger) *RedisSessionStore {
	if logger == nil {
		logger = slog.Default()
	}

	breaker := circuitbreaker.NewCircuitBreaker(3, 2, 30*time.Second)
	breaker.SetStateChangeCallback(func(from, to circuitbreaker.State) {
		logger.Warn("session store circuit state changed",
			slog.Int("from", int(from)),
			slog.Int("to", int(to)),
		)
	})

	return &RedisSessionStore{
		redis:   redisClient,
		breaker: breaker,
		logger:  logger,
	}
}

// Save serializes the account under the fixed session key
func (s *RedisSessionStore) Save(ctx context.Context, account *domain.Account) error {
	if !s.breaker.AllowRequest() {
		return fmt.Errorf("session store unavailable")
	}

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.redis.Set(ctx, SessionKey, string(data), 0); err != nil {
		s.breaker.RecordFailure()
		return fmt.Errorf("failed to store session: %w", err)
	}

	s.breaker.RecordSuccess()
	s.logger.Debug("session persisted", slog.String("account_id", account.ID))
	return nil
}

// Load reads the persisted session, returning domain.ErrNotFound when
// no session is stored
func (s *RedisSessionStore) Load(ctx context.Context) (*domain.Account, error) {
	if !s.breaker.AllowRequest() {
		return nil, fmt.Errorf("session store unavailable")
	}

	data, err := s.redis.Get(ctx, SessionKey)
	if err != nil {
		if redis.IsNil(err) {
			s.breaker.RecordSuccess()
			return nil, domain.ErrNotFound
		}
		s.breaker.RecordFailure()
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	s.breaker.RecordSuccess()

	var account domain.Account
	if err := json.Unmarshal([]byte(data), &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &account, nil
}

// Clear removes the persisted session
func (s *RedisSessionStore) Clear(ctx context.Context) error {
	if !s.breaker.AllowRequest() {
		return fmt.Errorf("session store unavailable")
	}

	if err := s.redis.Delete(ctx, SessionKey); err != nil {
		s.breaker.RecordFailure()
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.breaker.RecordSuccess()
	return nil
}

// MemorySessionStore implements domain.SessionStore in process memory.
// Used when no Redis is configured and in tests; the session then lives
// only as long as the process.
type MemorySessionStore struct {
	mu      sync.RWMutex
	current *domain.Account
}

// NewMemorySessionStore creates an empty in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

// Save stores the account as the active session
func (s *MemorySessionStore) Save(_ context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *account
	s.current = &cp
	return nil
}

// Load returns the active session, or domain.ErrNotFound
func (s *MemorySessionStore) Load(_ context.Context) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, domain.ErrNotFound
	}
	cp := *s.current
	return &cp, nil
}

// Clear drops the active session
func (s *MemorySessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	return nil
}
