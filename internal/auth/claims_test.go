package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret-key-at-least-32-characters-long"

func testSession(role Role) *Session {
	now := time.Now()
	return &Session{
		ID:        "sess-1234",
		Username:  "admin",
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestGenerateSessionToken_RoundTrip(t *testing.T) {
	session := testSession(RoleAdministrator)

	token, err := GenerateSessionToken(session, testSecret)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	if claims.Subject != "admin" {
		t.Errorf("Subject = %q, want admin", claims.Subject)
	}
	if claims.SessionID != "sess-1234" {
		t.Errorf("SessionID = %q, want sess-1234", claims.SessionID)
	}
	if claims.Role != RoleAdministrator {
		t.Errorf("Role = %q, want administrator", claims.Role)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateSessionToken(testSession(RoleOperator), testSecret)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	if _, err := ParseToken(token, "a-completely-different-32-char-secret!!"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ParseToken() with wrong secret error = %v, want ErrTokenInvalid", err)
	}
}

func TestParseToken_Expired(t *testing.T) {
	session := testSession(RoleOperator)
	session.ExpiresAt = time.Now().Add(-time.Minute)

	token, err := GenerateSessionToken(session, testSecret)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	if _, err := ParseToken(token, testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ParseToken() of expired token error = %v, want ErrTokenInvalid", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken("not.a.token", testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ParseToken() of garbage error = %v, want ErrTokenInvalid", err)
	}
}
