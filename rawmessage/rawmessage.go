package rawmessage

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	// UserPresentFlag is the only flag value a compliant token reports for
	// an authentication performed with explicit user consent. U2F defines
	// bit 0 and reserves the rest.
	UserPresentFlag = byte(1)

	// flag (1) + counter (4); the signature consumes everything after.
	signaturePrefixLen = 5
)

// ErrTruncated reports a signatureData blob shorter than the fixed prefix.
var ErrTruncated = errors.New("rawmessage: signature data truncated")

// SignResponse is the decoded form of the raw signatureData blob produced
// by a token during authentication, per the FIDO U2F raw message formats:
// https://fidoalliance.org/specs/fido-u2f-v1.2-ps-20170411/fido-u2f-raw-message-formats-v1.2-ps-20170411.html#authentication-response-message-success
type SignResponse struct {
	UserPresence byte
	Counter      uint32
	Signature    []byte
}

// DecodeSignResponse unmarshals the raw authentication response.
// There is no length prefix for the signature; it is the remainder.
func DecodeSignResponse(src []byte, dst *SignResponse) error {
	if len(src) < signaturePrefixLen {
		return errors.Wrapf(ErrTruncated, "got %d bytes, need at least %d", len(src), signaturePrefixLen)
	}

	cursor := src

	dst.UserPresence = cursor[0]
	cursor = cursor[1:]

	dst.Counter = binary.BigEndian.Uint32(cursor)
	cursor = cursor[4:]

	dst.Signature = cursor
	return nil
}

// SignedBytes reconstructs the exact byte sequence the token signed:
//
//	SHA-256(appId) || userPresence || counter (big-endian) || SHA-256(clientData)
//
// The two digests must already be computed by the caller; this function
// only performs the concatenation so the layout lives in one place.
func SignedBytes(appIDHash []byte, userPresence byte, counter uint32, clientDataHash []byte) []byte {
	out := make([]byte, 0, len(appIDHash)+signaturePrefixLen+len(clientDataHash))
	out = append(out, appIDHash...)
	out = append(out, userPresence)
	out = binary.BigEndian.AppendUint32(out, counter)
	out = append(out, clientDataHash...)
	return out
}
