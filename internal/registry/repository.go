package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for identity persistence and the
// admission check.
type Repository interface {
	// Create registers a new identity. Registering an already-known key
	// is silently absorbed: the existing record is left untouched and no
	// error is returned.
	Create(ctx context.Context, identity *Identity) error

	// Exists reports whether an identity with the given key is
	// registered. This is the admission check for report intake; it has
	// no side effects.
	Exists(ctx context.Context, key string) (bool, error)

	List(ctx context.Context) ([]Identity, error)
	Count(ctx context.Context) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed identity repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new identity. The ID and CreatedAt are generated if empty.
// Duplicate registration keys are ignored, not rejected: re-registering an
// existing key leaves exactly one record and returns nil.
func (r *SQLiteRepository) Create(ctx context.Context, identity *Identity) error {
	if !IsValidKey(identity.Key) {
		return ErrInvalidKey
	}

	if identity.ID == "" {
		identity.ID = "idn-" + uuid.NewString()[:8]
	}

	now := time.Now().UTC().Format(time.RFC3339)
	identity.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled

	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO identities (id, registration_key, name, created_at)
		 VALUES (?, ?, ?, ?)`,
		identity.ID, identity.Key, strings.TrimSpace(identity.Name), now,
	)
	if err != nil {
		return fmt.Errorf("creating identity: %w", err)
	}

	return nil
}

// Exists reports whether the registration key is known.
func (r *SQLiteRepository) Exists(ctx context.Context, key string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM identities WHERE registration_key = ?", key,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking identity: %w", err)
	}
	return true, nil
}

// List returns all identities, most recently registered first.
func (r *SQLiteRepository) List(ctx context.Context) ([]Identity, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, registration_key, name, created_at FROM identities ORDER BY created_at DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("listing identities: %w", err)
	}
	defer rows.Close()

	var identities []Identity
	for rows.Next() {
		var id Identity
		var createdAt string
		if err := rows.Scan(&id.ID, &id.Key, &id.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning identity: %w", err)
		}
		id.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
		identities = append(identities, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating identities: %w", err)
	}

	if identities == nil {
		identities = []Identity{}
	}
	return identities, nil
}

// Count returns the total number of registered identities.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM identities").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting identities: %w", err)
	}
	return count, nil
}
