package report

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the reports and
// identities schema applied. The file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "report-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE identities (
			id TEXT PRIMARY KEY,
			registration_key TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		) STRICT;

		CREATE TABLE reports (
			id TEXT PRIMARY KEY,
			identity_key TEXT NOT NULL,
			kind TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		) STRICT;
		CREATE INDEX idx_reports_kind ON reports(kind);
		CREATE INDEX idx_reports_created ON reports(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	return db
}

func addIdentity(t *testing.T, db *sql.DB, key, name string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO identities (id, registration_key, name, created_at) VALUES (?, ?, ?, ?)`,
		"idn-"+key, key, name, "2026-01-01T00:00:00Z",
	)
	if err != nil {
		t.Fatalf("inserting identity %s: %v", key, err)
	}
}

func TestAppend_AssignsIDAndTimestamp(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	rep := &Report{IdentityKey: "alice-1", Kind: KindFound, Category: "phone"}
	if err := repo.Append(ctx, rep); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if rep.ID == "" {
		t.Error("Append() should assign an ID")
	}
	if rep.CreatedAt.IsZero() {
		t.Error("Append() should assign a creation timestamp")
	}
}

func TestList_FiltersByKindInOrder(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	seed := []Report{
		{IdentityKey: "k1", Kind: KindLost, Category: "wallet"},
		{IdentityKey: "k2", Kind: KindFound, Category: "phone"},
		{IdentityKey: "k3", Kind: KindFound, Category: "umbrella"},
	}
	for i := range seed {
		if err := repo.Append(ctx, &seed[i]); err != nil {
			t.Fatalf("Append(%d) error = %v", i, err)
		}
	}

	found, err := repo.List(ctx, Filter{Kind: KindFound})
	if err != nil {
		t.Fatalf("List(found) error = %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("List(found) returned %d reports, want 2", len(found))
	}
	// Submission order is preserved (oldest first)
	if found[0].Category != "phone" || found[1].Category != "umbrella" {
		t.Errorf("List(found) order = %s, %s; want phone, umbrella", found[0].Category, found[1].Category)
	}

	lost, err := repo.List(ctx, Filter{Kind: KindLost})
	if err != nil {
		t.Fatalf("List(lost) error = %v", err)
	}
	if len(lost) != 1 || lost[0].Category != "wallet" {
		t.Errorf("List(lost) = %+v, want one wallet report", lost)
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))

	reports, err := repo.List(context.Background(), Filter{Kind: KindFound})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if reports == nil {
		t.Error("List() should return an empty slice, not nil")
	}
}

func TestListWithIdentity_JoinsNames(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	addIdentity(t, db, "alice-1", "Alice")

	known := &Report{IdentityKey: "alice-1", Kind: KindFound, Category: "phone"}
	orphan := &Report{IdentityKey: "gone-99", Kind: KindLost, Category: "wallet"}
	if err := repo.Append(ctx, known); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := repo.Append(ctx, orphan); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	rows, err := repo.ListWithIdentity(ctx)
	if err != nil {
		t.Fatalf("ListWithIdentity() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListWithIdentity() returned %d rows, want 2", len(rows))
	}

	byID := map[string]Row{}
	for _, row := range rows {
		byID[row.ID] = row
	}
	if byID[known.ID].Name != "Alice" {
		t.Errorf("known identity name = %q, want Alice", byID[known.ID].Name)
	}
	// A report whose filer is unknown still appears, with an empty name.
	if byID[orphan.ID].Name != "" {
		t.Errorf("orphan report name = %q, want empty", byID[orphan.ID].Name)
	}
}

func TestDelete_MissingIDIsNoOpSuccess(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Delete(ctx, "rpt-nothere"); err != nil {
		t.Errorf("Delete() of a missing ID should succeed, got %v", err)
	}
}

func TestDelete_RemovesReport(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	rep := &Report{IdentityKey: "k1", Kind: KindLost}
	if err := repo.Append(ctx, rep); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if err := repo.Delete(ctx, rep.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d after delete, want 0", count)
	}

	// Deleting again is still a success; the end state is the same.
	if err := repo.Delete(ctx, rep.ID); err != nil {
		t.Errorf("repeat Delete() error = %v", err)
	}
}
