// Package store defines the storage contracts the verification core
// assumes of its caller: credentials with an atomically committed counter,
// and single-use challenges. The in-memory implementations are suitable
// for tests and single-process servers; anything else should implement
// the interfaces over its own persistence.
package store

import (
	"time"

	"github.com/pkg/errors"

	"github.com/splitsecure/go-u2f/u2f"
)

var (
	ErrCredentialNotFound = errors.New("store: credential not found")
	// ErrChallengeNotFound covers challenges that were never issued,
	// already consumed, or expired. The cases are deliberately not
	// distinguished.
	ErrChallengeNotFound = errors.New("store: challenge not found")
	// ErrCounterConflict reports a counter commit that lost the race
	// against a concurrent ceremony for the same credential. The losing
	// ceremony must be treated as failed, or replay protection is void.
	ErrCounterConflict = errors.New("store: counter conflict")
)

// CredentialStore holds registered credentials keyed by key handle.
type CredentialStore interface {
	// Load retrieves a credential by key handle.
	Load(keyHandle string) (*u2f.Credential, error)
	// Save stores or replaces a credential.
	Save(cred *u2f.Credential) error
	// CommitCounter advances the credential's counter from previous to
	// next, failing with ErrCounterConflict unless the stored value still
	// equals previous. previous is the value the ceremony verified
	// against; next is the value Finish returned.
	CommitCounter(keyHandle string, previous, next uint32) error
}

// ChallengeStore holds outstanding challenges keyed by their nonce and
// enforces single use: Take removes atomically, so a challenge can be
// consumed by at most one ceremony attempt regardless of its outcome.
type ChallengeStore interface {
	// Put registers an outstanding challenge until expiresAt.
	Put(ch *u2f.Challenge, expiresAt time.Time) error
	// Take consumes the challenge with the given nonce.
	Take(challenge string) (*u2f.Challenge, error)
}
