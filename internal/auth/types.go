package auth

import (
	"errors"
	"regexp"
	"time"
)

// usernamePattern defines the valid format for usernames:
// alphanumeric, dots, hyphens, underscores, 1-64 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`)

// IsValidUsername checks if a username meets format requirements.
func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// Role represents an authorisation tier in the system. The two privileged
// roles have disjoint operation sets: administrators manage registrations
// and report history, operators drive the indicator device manually.
type Role string

const (
	// RoleAdministrator can register identities, delete reports, and
	// view the dashboard.
	RoleAdministrator Role = "administrator"

	// RoleOperator can manually switch indicator channels on and off.
	RoleOperator Role = "operator"
)

// Pool identifies which credential pool a login is checked against.
// Pools are a closed enumeration dispatched to separate lookup functions;
// a pool value never reaches SQL as text.
type Pool int

const (
	// PoolAdministrator is the administrator credential pool.
	PoolAdministrator Pool = iota

	// PoolOperator is the front-desk operator credential pool.
	PoolOperator
)

// Role returns the role granted by a successful login against the pool.
func (p Pool) Role() Role {
	if p == PoolOperator {
		return RoleOperator
	}
	return RoleAdministrator
}

// String returns the pool name for logging.
func (p Pool) String() string {
	if p == PoolOperator {
		return "operator"
	}
	return "administrator"
}

// Credential is a privileged account in one of the two pools.
type Credential struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never serialised
	CreatedAt    time.Time `json:"created_at"`
}

// Session is the explicit session context passed into every privileged
// operation. Sessions are created on login, resolved from the bearer token
// on each request, and invalidated on logout or expiry.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired returns true if the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session has expired")
	ErrTokenInvalid       = errors.New("invalid token")
)
