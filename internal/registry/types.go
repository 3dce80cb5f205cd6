package registry

import (
	"errors"
	"regexp"
	"time"
)

// keyPattern defines the valid format for registration keys:
// alphanumeric plus hyphens, 1-32 characters.
var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9-]{1,32}$`)

// IsValidKey checks if a registration key meets format requirements.
func IsValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// Identity represents a registered individual permitted to file reports.
// Identities are created only by an administrator and are immutable
// thereafter; they are never deleted.
type Identity struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Sentinel errors for registry operations.
var (
	ErrInvalidKey = errors.New("invalid registration key")
)
