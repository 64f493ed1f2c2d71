// Package clientdata validates the client data a browser reports alongside
// a U2F token response. The validated value is the literal byte sequence the
// client produced; the signature covers those bytes, so callers must hash
// the returned slice, never a re-serialized copy.
package clientdata

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const (
	// TypeAuthenticate is the "typ" value for an authentication ceremony.
	TypeAuthenticate = "navigator.id.getAssertion"
	// TypeRegister is the "typ" value for a registration ceremony. Kept
	// distinct so a registration response can never be replayed into an
	// authentication check.
	TypeRegister = "navigator.id.finishEnrollment"
)

// ErrInvalid covers every client data rejection: malformed JSON, type or
// challenge mismatch, and unrecognized origin.
var ErrInvalid = errors.New("clientdata: invalid client data")

// T is the parsed form of the clientData JSON, per the FIDO U2F JavaScript
// API specification. Unknown fields are tolerated and ignored.
type T struct {
	Typ       string `json:"typ"`
	Challenge string `json:"challenge"`
	Origin    string `json:"origin"`
}

// Check parses raw client data bytes and validates type, challenge and
// origin. On success it returns raw unchanged.
func Check(raw []byte, expectedType, expectedChallenge string, allowedOrigins map[string]struct{}) ([]byte, error) {
	cd := T{}
	if err := json.Unmarshal(raw, &cd); err != nil {
		return nil, errors.Wrapf(ErrInvalid, "unmarshalling client data: %v", err)
	}

	if cd.Typ != expectedType {
		return nil, errors.Wrapf(ErrInvalid, "unexpected typ %q", cd.Typ)
	}

	if cd.Challenge != expectedChallenge {
		return nil, errors.Wrap(ErrInvalid, "challenge mismatch")
	}

	origin, err := CanonicalizeOrigin(cd.Origin)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalid, "origin %q: %v", cd.Origin, err)
	}
	if _, ok := allowedOrigins[origin]; !ok {
		return nil, errors.Wrapf(ErrInvalid, "origin %q not recognized", cd.Origin)
	}

	return raw, nil
}

// CanonicalizeOrigin reduces an origin to scheme://host[:port] with a
// lowercased scheme and host and without default ports, so set membership
// is stable against cosmetic differences in how clients report it.
func CanonicalizeOrigin(origin string) (string, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.Errorf("missing scheme or host in %q", origin)
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()

	if port == "" || (scheme == "https" && port == "443") || (scheme == "http" && port == "80") {
		return scheme + "://" + host, nil
	}
	return scheme + "://" + host + ":" + port, nil
}

// CanonicalizeOrigins canonicalizes every origin in raw and returns the
// resulting set. Duplicates collapse.
func CanonicalizeOrigins(raw []string) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(raw))
	for _, o := range raw {
		canonical, err := CanonicalizeOrigin(o)
		if err != nil {
			return nil, err
		}
		out[canonical] = struct{}{}
	}
	return out, nil
}
