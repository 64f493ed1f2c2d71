// Package u2fcrypto implements the cryptographic capability an
// authentication ceremony delegates to: hashing, public key decoding and
// ECDSA signature verification over P-256.
package u2fcrypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/ldclabs/cose/iana"
	cose_key "github.com/ldclabs/cose/key"
	"github.com/pkg/errors"
)

var (
	// ErrPublicKey reports a credential public key that could not be
	// decoded into a usable verification key.
	ErrPublicKey = errors.New("u2fcrypto: cannot decode public key")
	// ErrSignature reports a signature that failed verification or could
	// not be parsed.
	ErrSignature = errors.New("u2fcrypto: signature verification failed")
)

// Engine is the default crypto implementation. The zero value is usable.
type Engine struct{}

// Hash returns the SHA-256 digest of data.
func (Engine) Hash(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// DecodePublicKey decodes a credential public key. U2F registration yields
// a 65 byte X9.62 uncompressed P-256 point; credentials migrated from a
// CTAP2 authenticator carry a CBOR encoded COSE EC2 key instead. Both
// forms are accepted.
func (Engine) DecodePublicKey(encoded []byte) (crypto.PublicKey, error) {
	if len(encoded) == 0 {
		return nil, errors.Wrap(ErrPublicKey, "empty key")
	}
	if encoded[0] == 0x04 {
		return decodeX962(encoded)
	}
	return decodeCOSE(encoded)
}

// CheckSignature verifies an ASN.1/DER ECDSA signature over signedBytes.
func (Engine) CheckSignature(key crypto.PublicKey, signedBytes, signature []byte) error {
	pub, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return errors.Wrapf(ErrPublicKey, "unsupported key type %T", key)
	}

	digest := sha256.Sum256(signedBytes)
	if !ecdsa.VerifyASN1(pub, digest[:], signature) {
		return ErrSignature
	}
	return nil
}

func decodeX962(encoded []byte) (*ecdsa.PublicKey, error) {
	// X9.62 uncompressed point format: 0x04 || X || Y
	if len(encoded) != 65 {
		return nil, errors.Wrapf(ErrPublicKey, "X9.62 point must be 65 bytes, got %d", len(encoded))
	}

	pub := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(encoded[1:33]),
		Y:     new(big.Int).SetBytes(encoded[33:65]),
	}
	if !pub.Curve.IsOnCurve(pub.X, pub.Y) {
		return nil, errors.Wrap(ErrPublicKey, "point not on P-256")
	}
	return pub, nil
}

func decodeCOSE(encoded []byte) (*ecdsa.PublicKey, error) {
	k := cose_key.Key{}
	if err := cbor.Unmarshal(encoded, &k); err != nil {
		return nil, errors.Wrapf(ErrPublicKey, "unmarshalling COSE key: %v", err)
	}

	if k.Kty() != iana.KeyTypeEC2 {
		return nil, errors.Wrapf(ErrPublicKey, "unsupported COSE key type %d", k.Kty())
	}
	crv, err := k.GetInt(iana.EC2KeyParameterCrv)
	if err != nil || crv != iana.EllipticCurveP_256 {
		return nil, errors.Wrapf(ErrPublicKey, "unsupported COSE curve %d", crv)
	}

	x, err := k.GetBytes(iana.EC2KeyParameterX)
	if err != nil {
		return nil, errors.Wrapf(ErrPublicKey, "COSE key missing x: %v", err)
	}
	y, err := k.GetBytes(iana.EC2KeyParameterY)
	if err != nil {
		return nil, errors.Wrapf(ErrPublicKey, "COSE key missing y: %v", err)
	}

	pub := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(x),
		Y:     new(big.Int).SetBytes(y),
	}
	if !pub.Curve.IsOnCurve(pub.X, pub.Y) {
		return nil, errors.Wrap(ErrPublicKey, "point not on P-256")
	}
	return pub, nil
}

// EncodePublicKey returns the X9.62 uncompressed encoding of a P-256 key,
// the form a U2F token reports at registration.
func EncodePublicKey(pub *ecdsa.PublicKey) []byte {
	// X9.62 uncompressed point format: 0x04 || X || Y
	x962Bytes := make([]byte, 65)
	x962Bytes[0] = 0x04
	pub.X.FillBytes(x962Bytes[1:33])
	pub.Y.FillBytes(x962Bytes[33:65])
	return x962Bytes
}
