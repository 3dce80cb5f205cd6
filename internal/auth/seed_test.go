package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeedPool_EmptyPoolSeeds(t *testing.T) {
	repo := NewCredentialRepository(testDB(t))
	ctx := context.Background()

	password, err := SeedPool(ctx, repo, PoolAdministrator, "admin", discardLogger())
	if err != nil {
		t.Fatalf("SeedPool() error = %v", err)
	}
	if password == "" {
		t.Fatal("SeedPool() should return the generated password")
	}

	cred, err := repo.GetByUsername(ctx, PoolAdministrator, "admin")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}

	ok, err := VerifyPassword(password, cred.PasswordHash)
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if !ok {
		t.Error("the seeded hash should verify against the returned password")
	}
}

func TestSeedPool_NonEmptyPoolSkips(t *testing.T) {
	repo := NewCredentialRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, PoolOperator, &Credential{Username: "existing", PasswordHash: "h"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	password, err := SeedPool(ctx, repo, PoolOperator, "operator", discardLogger())
	if err != nil {
		t.Fatalf("SeedPool() error = %v", err)
	}
	if password != "" {
		t.Error("SeedPool() should skip a non-empty pool")
	}

	count, err := repo.Count(ctx, PoolOperator)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d after skipped seed, want 1", count)
	}
}

func TestSeedPool_PoolsSeedIndependently(t *testing.T) {
	repo := NewCredentialRepository(testDB(t))
	ctx := context.Background()

	if _, err := SeedPool(ctx, repo, PoolAdministrator, "admin", discardLogger()); err != nil {
		t.Fatalf("SeedPool(admin) error = %v", err)
	}

	// Seeding the administrator pool must not suppress the operator seed.
	password, err := SeedPool(ctx, repo, PoolOperator, "operator", discardLogger())
	if err != nil {
		t.Fatalf("SeedPool(operator) error = %v", err)
	}
	if password == "" {
		t.Error("operator pool should still seed after the administrator pool did")
	}
}
