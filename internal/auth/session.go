package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore holds live sessions server-side. A token is only honoured
// while its session exists here, so logout and expiry revoke access
// immediately instead of waiting for the JWT to lapse.
type SessionStore interface {
	Create(session *Session) error
	Get(id string) (*Session, error)
	Delete(id string) error
	DeleteExpired() int
}

// MemorySessionStore is an in-memory SessionStore. Sessions do not survive
// a restart; privileged clients simply log in again.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemorySessionStore creates an empty session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*Session)}
}

// Create stores a session by ID.
func (s *MemorySessionStore) Create(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

// Get retrieves a live session. Expired sessions are removed and reported
// as ErrSessionExpired.
func (s *MemorySessionStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Expired() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, ErrSessionExpired
	}
	return session, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *MemorySessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// DeleteExpired removes all expired sessions and returns how many were removed.
func (s *MemorySessionStore) DeleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if session.Expired() {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Service performs logins against the credential pools and manages the
// resulting sessions and tokens.
type Service struct {
	credentials CredentialRepository
	sessions    SessionStore
	secret      string
	sessionTTL  time.Duration
}

// NewService creates an auth service.
func NewService(credentials CredentialRepository, sessions SessionStore, secret string, sessionTTL time.Duration) *Service {
	return &Service{
		credentials: credentials,
		sessions:    sessions,
		secret:      secret,
		sessionTTL:  sessionTTL,
	}
}

// Login checks the username and password against the given pool and, on
// success, creates a session and returns a signed token for it. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, pool Pool, username, password string) (string, *Session, error) {
	cred, err := s.credentials.GetByUsername(ctx, pool, username)
	if err != nil {
		// Burn a hash comparison so missing users cost the same as wrong passwords.
		_, _ = VerifyPassword(password, dummyHash) //nolint:errcheck // timing equalisation only
		return "", nil, ErrInvalidCredentials
	}

	match, err := VerifyPassword(password, cred.PasswordHash)
	if err != nil || !match {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	session := &Session{
		ID:        uuid.NewString(),
		Username:  cred.Username,
		Role:      pool.Role(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(session); err != nil {
		return "", nil, err
	}

	token, err := GenerateSessionToken(session, s.secret)
	if err != nil {
		_ = s.sessions.Delete(session.ID) //nolint:errcheck // best-effort cleanup
		return "", nil, err
	}

	return token, session, nil
}

// Logout revokes the session behind a token. Invalid tokens are ignored so
// logout never fails for the client.
func (s *Service) Logout(tokenString string) {
	claims, err := ParseToken(tokenString, s.secret)
	if err != nil {
		return
	}
	_ = s.sessions.Delete(claims.SessionID) //nolint:errcheck // delete is infallible here
}

// Resolve validates a token and returns its live session. Both the JWT
// checks and the session lookup must pass.
func (s *Service) Resolve(tokenString string) (*Session, error) {
	claims, err := ParseToken(tokenString, s.secret)
	if err != nil {
		return nil, err
	}
	return s.sessions.Get(claims.SessionID)
}

// SweepLoop periodically drops expired sessions until the context is cancelled.
func (s *Service) SweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sessions.DeleteExpired()
		}
	}
}

// dummyHash is a valid Argon2id hash of a random throwaway password, used to
// keep login timing flat when the username does not exist.
const dummyHash = "$argon2id$v=19$m=65536,t=3,p=1$AAAAAAAAAAAAAAAAAAAAAA$qLml5cdwFf7aseZ6PDqMQCTjijyPtvrYRleFELtjYqY"
