package report

import (
	"errors"
	"time"
)

// Kind distinguishes lost-item claims from found-item reports.
type Kind string

// Valid report kinds.
const (
	KindLost  Kind = "lost"
	KindFound Kind = "found"
)

// IsValidKind returns true for the two accepted report kinds.
func IsValidKind(k Kind) bool {
	return k == KindLost || k == KindFound
}

// Report is an immutable record of a lost or found item claim.
//
// IdentityKey references an identity by registration key, but the join is
// best-effort: deleting nothing and enforcing nothing at write time means a
// report may outlive any knowledge of its filer. Category is stored as
// submitted; the closed category enumeration is enforced only at the device
// layer (see the signal package).
type Report struct {
	ID          string    `json:"id"`
	IdentityKey string    `json:"identity_key"`
	Kind        Kind      `json:"kind"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Row is a report joined with the filer's display name for the
// administrator dashboard. Name is empty when the identity is unknown.
type Row struct {
	Report
	Name string `json:"name,omitempty"`
}

// Filter controls which reports to list.
type Filter struct {
	Kind Kind // optional: restrict to one report kind
}

// Sentinel errors for report intake.
var (
	// ErrInvalidKind means the submitted report kind is neither lost nor
	// found. Nothing is persisted.
	ErrInvalidKind = errors.New("invalid report kind")

	// ErrUnregisteredIdentity means the admission check failed: the
	// identity key is not registered. Nothing is persisted.
	ErrUnregisteredIdentity = errors.New("identity is not registered")
)
