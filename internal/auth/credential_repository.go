package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CredentialRepository defines the interface for privileged account
// persistence. Every operation takes a Pool value; the pool selects one of
// two fixed statement sets at compile time, so no table name is ever built
// from input.
type CredentialRepository interface {
	Create(ctx context.Context, pool Pool, cred *Credential) error
	GetByUsername(ctx context.Context, pool Pool, username string) (*Credential, error)
	Count(ctx context.Context, pool Pool) (int, error)
}

// SQLiteCredentialRepository implements CredentialRepository using SQLite
// with one physical table per pool.
type SQLiteCredentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new SQLite-backed credential repository.
func NewCredentialRepository(db *sql.DB) *SQLiteCredentialRepository {
	return &SQLiteCredentialRepository{db: db}
}

// poolStatements holds the fixed SQL for one credential pool.
type poolStatements struct {
	insert string
	get    string
	count  string
}

var adminStatements = poolStatements{
	insert: `INSERT INTO admin_credentials (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
	get:    `SELECT id, username, password_hash, created_at FROM admin_credentials WHERE username = ?`,
	count:  `SELECT COUNT(*) FROM admin_credentials`,
}

var operatorStatements = poolStatements{
	insert: `INSERT INTO operator_credentials (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
	get:    `SELECT id, username, password_hash, created_at FROM operator_credentials WHERE username = ?`,
	count:  `SELECT COUNT(*) FROM operator_credentials`,
}

func statementsFor(pool Pool) poolStatements {
	if pool == PoolOperator {
		return operatorStatements
	}
	return adminStatements
}

// Create inserts a new credential into the pool. The ID is generated if empty.
func (r *SQLiteCredentialRepository) Create(ctx context.Context, pool Pool, cred *Credential) error {
	if cred.ID == "" {
		cred.ID = "crd-" + uuid.NewString()[:8]
	}

	now := time.Now().UTC().Format(time.RFC3339)
	cred.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled

	_, err := r.db.ExecContext(ctx, statementsFor(pool).insert,
		cred.ID, cred.Username, cred.PasswordHash, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("creating %s credential: %w", pool, err)
	}

	return nil
}

// GetByUsername retrieves a credential from the pool by username.
func (r *SQLiteCredentialRepository) GetByUsername(ctx context.Context, pool Pool, username string) (*Credential, error) {
	row := r.db.QueryRowContext(ctx, statementsFor(pool).get, username)

	var c Credential
	var createdAt string
	if err := row.Scan(&c.ID, &c.Username, &c.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCredentialNotFound
		}
		return nil, fmt.Errorf("scanning %s credential: %w", pool, err)
	}

	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	return &c, nil
}

// Count returns the number of credentials in the pool.
func (r *SQLiteCredentialRepository) Count(ctx context.Context, pool Pool) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, statementsFor(pool).count).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting %s credentials: %w", pool, err)
	}
	return count, nil
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
