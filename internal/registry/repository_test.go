package registry

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the identities schema applied.
// The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "registry-test-*.db")
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
		CREATE UNIQUE INDEX idx_identities_key ON identities(registration_key);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	return db
}

func TestCreate_AssignsID(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	identity := &Identity{Key: "alice-42", Name: "Alice"}
	if err := repo.Create(ctx, identity); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if identity.ID == "" {
		t.Error("Create() should assign an ID")
	}
	if identity.CreatedAt.IsZero() {
		t.Error("Create() should assign a creation timestamp")
	}
}

func TestCreate_DuplicateKeyIsSilentSuccess(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &Identity{Key: "bob-1", Name: "Bob"}); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	// Re-registering the same key succeeds and changes nothing.
	if err := repo.Create(ctx, &Identity{Key: "bob-1", Name: "Robert"}); err != nil {
		t.Fatalf("duplicate Create() error = %v", err)
	}

	identities, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(identities) != 1 {
		t.Fatalf("expected 1 identity after duplicate register, got %d", len(identities))
	}
	if identities[0].Name != "Bob" {
		t.Errorf("duplicate register should not overwrite name, got %q", identities[0].Name)
	}
}

func TestExists(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &Identity{Key: "carol-7"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ok, err := repo.Exists(ctx, "carol-7")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !ok {
		t.Error("Exists() = false for a registered key")
	}

	ok, err = repo.Exists(ctx, "nobody")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if ok {
		t.Error("Exists() = true for an unregistered key")
	}
}

func TestCount(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	for _, key := range []string{"k1", "k2", "k3"} {
		if err := repo.Create(ctx, &Identity{Key: key}); err != nil {
			t.Fatalf("Create(%s) error = %v", key, err)
		}
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestIsValidKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"alice-42", true},
		{"ABC123", true},
		{"a", true},
		{"", false},
		{"has space", false},
		{"under_score", false},
		{"this-key-is-far-too-long-to-be-accepted-here", false},
	}

	for _, tt := range tests {
		if got := IsValidKey(tt.key); got != tt.want {
			t.Errorf("IsValidKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
