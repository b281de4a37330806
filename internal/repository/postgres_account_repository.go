package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/yourorg/agrimarket/internal/domain"
)

// PostgresAccountRepository implements domain.AccountRepository using
// PostgreSQL. It is selected when DATABASE_URL is configured; the
// uniqueness invariant is carried by the accounts_email_key constraint.
//
// Schema:
//
//	CREATE TABLE accounts (
//	    id            TEXT PRIMARY KEY,
//	    name          TEXT NOT NULL,
//	    email         TEXT NOT NULL UNIQUE,
//	    password_hash TEXT NOT NULL DEFAULT '',
//	    role          TEXT NOT NULL,
//	    location      TEXT NOT NULL DEFAULT '',
//	    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresAccountRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresAccountRepository creates a new Postgres-backed account repository
func NewPostgresAccountRepository(db *sql.DB, logger *slog.Logger) *PostgresAccountRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new account, mapping the unique-email violation to
// domain.ErrDuplicateEmail
func (r *PostgresAccountRepository) Create(account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, name, email, password_hash, role, location)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		query,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		string(account.Role),
		account.Location,
	).Scan(&account.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrDuplicateEmail
		}
		r.logger.Error("failed to create account",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by ID
func (r *PostgresAccountRepository) GetByID(id string) (*domain.Account, error) {
	query := `
		SELECT id, name, email, password_hash, role, location, created_at
		FROM accounts
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByEmail retrieves an account by its exact email. The comparison is
// case-sensitive, matching the in-memory store.
func (r *PostgresAccountRepository) GetByEmail(email string) (*domain.Account, error) {
	query := `
		SELECT id, name, email, password_hash, role, location, created_at
		FROM accounts
		WHERE email = $1
	`
	return r.scanOne(r.db.QueryRow(query, email))
}

// List returns all accounts in registration order
func (r *PostgresAccountRepository) List() ([]*domain.Account, error) {
	query := `
		SELECT id, name, email, password_hash, role, location, created_at
		FROM accounts
		ORDER BY created_at
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("failed to list accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account := &domain.Account{}
		var role string
		err := rows.Scan(
			&account.ID,
			&account.Name,
			&account.Email,
			&account.PasswordHash,
			&role,
			&account.Location,
			&account.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		account.Role = domain.Role(role)
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func (r *PostgresAccountRepository) scanOne(row *sql.Row) (*domain.Account, error) {
	account := &domain.Account{}
	var role string

	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&role,
		&account.Location,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	account.Role = domain.Role(role)
	return account, nil
}
