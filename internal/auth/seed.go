package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// seedPasswordBytes is the number of random bytes for a seeded password.
const seedPasswordBytes = 16

// SeedPool creates the initial account in a credential pool on first boot,
// if the pool is empty. The generated password is logged and must be
// changed immediately. Returns the generated password (empty string if
// seeding was skipped).
func SeedPool(ctx context.Context, repo CredentialRepository, pool Pool, username string, logger *slog.Logger) (string, error) {
	count, err := repo.Count(ctx, pool)
	if err != nil {
		return "", fmt.Errorf("checking %s count: %w", pool, err)
	}

	if count > 0 {
		logger.Info("credentials exist, skipping seed", "pool", pool.String())
		return "", nil
	}

	passwordBytes := make([]byte, seedPasswordBytes)
	if _, err := rand.Read(passwordBytes); err != nil { //nolint:govet // shadow: err re-declared in nested scope
		return "", fmt.Errorf("generating seed password: %w", err)
	}
	password := hex.EncodeToString(passwordBytes)

	hash, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing seed password: %w", err)
	}

	cred := &Credential{
		Username:     username,
		PasswordHash: hash,
	}

	if err := repo.Create(ctx, pool, cred); err != nil {
		return "", fmt.Errorf("creating seed %s credential: %w", pool, err)
	}

	logger.Warn("seed credential created",
		"pool", pool.String(),
		"username", username,
		"password", password,
		"action_required", "change this password immediately",
	)

	return password, nil
}
