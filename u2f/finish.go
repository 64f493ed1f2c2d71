package u2f

import (
	"github.com/pkg/errors"

	"github.com/splitsecure/go-u2f/clientdata"
	"github.com/splitsecure/go-u2f/rawmessage"
)

// Finish verifies a sign response against the challenge and the
// credential's current state. On success it returns the counter value the
// caller must persist for the credential. The checks run cheapest first:
// client data, presence flag, counter, then the signature.
//
// Finish is pure: it never writes to the credential. Committing the
// returned counter, and doing so atomically against concurrent ceremonies
// for the same credential, is the caller's responsibility, as is enforcing
// that a challenge is consumed at most once (see store.ChallengeStore).
func (c *Challenge) Finish(resp *SignResponse, cred *Credential) (uint32, error) {
	clientDataRaw, err := websafeDecode(resp.ClientData)
	if err != nil {
		return 0, errors.Wrapf(clientdata.ErrInvalid, "decoding client data: %v", err)
	}

	// The returned bytes are the literal bytes the client hashed into the
	// signature; everything below must use them, not a re-encoding.
	clientData, err := clientdata.Check(clientDataRaw, clientdata.TypeAuthenticate, c.Challenge, c.AllowedOrigins)
	if err != nil {
		return 0, err
	}

	signatureData, err := websafeDecode(resp.SignatureData)
	if err != nil {
		return 0, errors.Wrapf(rawmessage.ErrTruncated, "decoding signature data: %v", err)
	}

	assertion := rawmessage.SignResponse{}
	if err := rawmessage.DecodeSignResponse(signatureData, &assertion); err != nil {
		return 0, err
	}

	if assertion.UserPresence != rawmessage.UserPresentFlag {
		return 0, errors.Wrapf(ErrUserPresence, "flag 0x%02x", assertion.UserPresence)
	}

	if assertion.Counter <= cred.Counter {
		return 0, errors.Wrapf(ErrReplay, "token reported %d, last accepted %d", assertion.Counter, cred.Counter)
	}

	signedBytes := rawmessage.SignedBytes(
		c.crypto.Hash([]byte(c.AppID)),
		assertion.UserPresence,
		assertion.Counter,
		c.crypto.Hash(clientData),
	)

	pub, err := c.crypto.DecodePublicKey(cred.PublicKey)
	if err != nil {
		return 0, err
	}
	if err := c.crypto.CheckSignature(pub, signedBytes, assertion.Signature); err != nil {
		return 0, err
	}

	return assertion.Counter + 1, nil
}

// FinishJSON is Finish over the raw JSON wire form of the response.
func (c *Challenge) FinishJSON(raw []byte, cred *Credential) (uint32, error) {
	resp, err := ParseSignResponse(raw)
	if err != nil {
		return 0, err
	}
	return c.Finish(resp, cred)
}
