// Package u2f verifies the server side of a FIDO U2F authentication
// ceremony: given a challenge previously issued to a registered token, it
// checks the signed response the token returns and yields the counter value
// the caller must persist. Challenge issuance, credential storage and
// transport are the caller's concern; see the store package for the
// storage contracts this package assumes.
package u2f

import (
	"crypto"
	"crypto/rand"
	"encoding/base64"
)

// Version is the protocol version this package implements.
const Version = "U2F_V2"

// ChallengeLength is the number of random bytes in a generated challenge.
const ChallengeLength = 32

// Crypto is the cryptographic capability a ceremony delegates to.
// u2fcrypto.Engine is the default; tests may substitute a deterministic
// implementation.
type Crypto interface {
	// Hash digests arbitrary bytes.
	Hash(data []byte) []byte
	// DecodePublicKey decodes a credential's stored public key.
	DecodePublicKey(encoded []byte) (crypto.PublicKey, error)
	// CheckSignature verifies signature over signedBytes with key.
	CheckSignature(key crypto.PublicKey, signedBytes, signature []byte) error
}

// Credential is the server-side record of a registered token, as read at
// verification time. Counter is the last accepted value; a fresh
// registration starts it at 0. This package never mutates a Credential:
// the caller commits the counter returned by Finish.
type Credential struct {
	KeyHandle string
	PublicKey []byte
	Counter   uint32
}

// RandomChallenge generates a websafe-base64 challenge nonce.
func RandomChallenge() (string, error) {
	buf := make([]byte, ChallengeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
