package auth

import (
	"context"
	"errors"
	"testing"
)

func TestCredentialCreate_PoolsAreSeparate(t *testing.T) {
	repo := NewCredentialRepository(testDB(t))
	ctx := context.Background()

	// The same username may exist in both pools independently.
	if err := repo.Create(ctx, PoolAdministrator, &Credential{Username: "sam", PasswordHash: "h1"}); err != nil {
		t.Fatalf("Create(admin) error = %v", err)
	}
	if err := repo.Create(ctx, PoolOperator, &Credential{Username: "sam", PasswordHash: "h2"}); err != nil {
		t.Fatalf("Create(operator) error = %v", err)
	}

	admin, err := repo.GetByUsername(ctx, PoolAdministrator, "sam")
	if err != nil {
		t.Fatalf("GetByUsername(admin) error = %v", err)
	}
	if admin.PasswordHash != "h1" {
		t.Errorf("admin hash = %q, want h1", admin.PasswordHash)
	}

	operator, err := repo.GetByUsername(ctx, PoolOperator, "sam")
	if err != nil {
		t.Fatalf("GetByUsername(operator) error = %v", err)
	}
	if operator.PasswordHash != "h2" {
		t.Errorf("operator hash = %q, want h2", operator.PasswordHash)
	}
}

func TestCredentialCreate_DuplicateUsername(t *testing.T) {
	repo := NewCredentialRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, PoolAdministrator, &Credential{Username: "sam", PasswordHash: "h"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := repo.Create(ctx, PoolAdministrator, &Credential{Username: "sam", PasswordHash: "h"})
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("duplicate Create() error = %v, want ErrUsernameExists", err)
	}
}

func TestCredentialGet_NotFound(t *testing.T) {
	repo := NewCredentialRepository(testDB(t))

	_, err := repo.GetByUsername(context.Background(), PoolOperator, "nobody")
	if !errors.Is(err, ErrCredentialNotFound) {
		t.Errorf("GetByUsername() error = %v, want ErrCredentialNotFound", err)
	}
}

func TestCredentialCount_PerPool(t *testing.T) {
	repo := NewCredentialRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, PoolAdministrator, &Credential{Username: "a1", PasswordHash: "h"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	adminCount, err := repo.Count(ctx, PoolAdministrator)
	if err != nil {
		t.Fatalf("Count(admin) error = %v", err)
	}
	if adminCount != 1 {
		t.Errorf("Count(admin) = %d, want 1", adminCount)
	}

	operatorCount, err := repo.Count(ctx, PoolOperator)
	if err != nil {
		t.Fatalf("Count(operator) error = %v", err)
	}
	if operatorCount != 0 {
		t.Errorf("Count(operator) = %d, want 0", operatorCount)
	}
}
