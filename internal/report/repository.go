package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for the append-only report ledger.
type Repository interface {
	// Append persists a report, assigning its ID and server-side
	// creation timestamp. Reports are never mutated after this.
	Append(ctx context.Context, r *Report) error

	// List returns reports matching the filter, ordered by creation
	// (oldest first).
	List(ctx context.Context, filter Filter) ([]Report, error)

	// ListWithIdentity returns all reports joined left-outer with the
	// identities table, newest first, for the administrator dashboard.
	ListWithIdentity(ctx context.Context) ([]Row, error)

	// Delete removes a report by ID. Deleting a non-existent ID is a
	// no-op success.
	Delete(ctx context.Context, id string) error

	Count(ctx context.Context) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed report ledger.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Append inserts a new report. The ID and CreatedAt are always assigned
// here: callers never control the ledger timestamp, which keeps it
// non-decreasing across appends.
func (r *SQLiteRepository) Append(ctx context.Context, rep *Report) error {
	rep.ID = "rpt-" + uuid.NewString()[:8]

	now := time.Now().UTC().Format(time.RFC3339)
	rep.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (id, identity_key, kind, category, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rep.ID, rep.IdentityKey, string(rep.Kind), rep.Category, rep.Description, now,
	)
	if err != nil {
		return fmt.Errorf("appending report: %w", err)
	}

	return nil
}

// List returns reports matching the filter, oldest first. Appends within
// the same second keep their insertion order via the rowid tiebreak.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) ([]Report, error) {
	query := "SELECT id, identity_key, kind, category, description, created_at FROM reports"
	var args []any
	if filter.Kind != "" {
		query += " WHERE kind = ?"
		args = append(args, string(filter.Kind))
	}
	query += " ORDER BY created_at ASC, rowid ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}

	if reports == nil {
		reports = []Report{}
	}
	return reports, nil
}

// ListWithIdentity returns all reports with the filer's display name where
// known, newest first. The join is left-outer by design: a report whose
// identity key is unknown still appears, with an empty name.
func (r *SQLiteRepository) ListWithIdentity(ctx context.Context) ([]Row, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.identity_key, r.kind, r.category, r.description, r.created_at,
		       COALESCE(i.name, '')
		FROM reports r
		LEFT JOIN identities i ON r.identity_key = i.registration_key
		ORDER BY r.created_at DESC, r.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing reports with identity: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var row Row
		var createdAt string
		if err := rows.Scan(&row.ID, &row.IdentityKey, &row.Kind, &row.Category,
			&row.Description, &createdAt, &row.Name); err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		row.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating report rows: %w", err)
	}

	if result == nil {
		result = []Row{}
	}
	return result, nil
}

// Delete removes a report by ID. Unlike most lookups, a missing ID is not
// an error: deletion is idempotent and reports have no ownership check
// beyond the access gate the caller already passed.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	return nil
}

// Count returns the total number of ledger entries.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting reports: %w", err)
	}
	return count, nil
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanReport scans a report from any scanner.
func scanReport(s scanner) (*Report, error) {
	var rep Report
	var kind, createdAt string

	if err := s.Scan(&rep.ID, &rep.IdentityKey, &kind, &rep.Category,
		&rep.Description, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning report: %w", err)
	}

	rep.Kind = Kind(kind)
	rep.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled

	return &rep, nil
}
