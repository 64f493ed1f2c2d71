package u2f

import (
	"github.com/splitsecure/go-u2f/clientdata"
	"github.com/splitsecure/go-u2f/u2fcrypto"
)

// Challenge holds the state of one outstanding authentication ceremony.
// It is immutable after construction and safe for concurrent use; the
// fields must not be modified once NewChallenge returns.
type Challenge struct {
	// Version the responding token must speak; Version for this package.
	Version string
	// Challenge is the websafe-base64 nonce issued for this ceremony.
	Challenge string
	// AppID is the application the relying party asserts; the token
	// enforces that KeyHandle is bound to it.
	AppID string
	// KeyHandle identifies the registered credential this ceremony
	// targets, websafe-base64 as obtained at registration.
	KeyHandle string
	// AllowedOrigins is server-side policy, canonicalized once at
	// construction. It never leaves the server; see SignRequest.
	AllowedOrigins map[string]struct{}

	crypto Crypto
}

type optionsState struct {
	crypto Crypto
}

type option struct {
	apply func(*optionsState)
}

func newoption(fn func(*optionsState)) option {
	return option{
		apply: fn,
	}
}

// WithCrypto substitutes the cryptographic implementation used by Finish.
func WithCrypto(c Crypto) option {
	return newoption(func(s *optionsState) {
		s.crypto = c
	})
}

// NewChallenge builds the server-side state for one authentication
// ceremony. origins are the raw allowed origins; they are canonicalized
// here and never re-canonicalized later.
func NewChallenge(version, challenge, appID, keyHandle string, origins []string, options ...option) (*Challenge, error) {
	optionsState := optionsState{}
	for _, option := range options {
		option.apply(&optionsState)
	}
	if optionsState.crypto == nil {
		optionsState.crypto = u2fcrypto.Engine{}
	}

	allowed, err := clientdata.CanonicalizeOrigins(origins)
	if err != nil {
		return nil, err
	}

	return &Challenge{
		Version:        version,
		Challenge:      challenge,
		AppID:          appID,
		KeyHandle:      keyHandle,
		AllowedOrigins: allowed,
		crypto:         optionsState.crypto,
	}, nil
}

// Equal reports whether two challenges denote the same ceremony. Identity
// is (version, challenge, appID, keyHandle); AllowedOrigins is server
// policy, not ceremony identity, and is excluded.
func (c *Challenge) Equal(other *Challenge) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	return c.Version == other.Version &&
		c.Challenge == other.Challenge &&
		c.AppID == other.AppID &&
		c.KeyHandle == other.KeyHandle
}
