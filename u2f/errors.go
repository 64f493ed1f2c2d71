package u2f

import "github.com/pkg/errors"

// Finish failures are terminal for the ceremony attempt; there is no
// internal retry. Client data failures surface clientdata.ErrInvalid,
// malformed blobs surface rawmessage.ErrTruncated, and key or signature
// failures surface u2fcrypto.ErrPublicKey and u2fcrypto.ErrSignature.
// Callers should not forward the distinction to clients; the error kind is
// for server-side handling and logs only.
var (
	// ErrUserPresence reports a presence flag other than the single
	// defined user-present bit.
	ErrUserPresence = errors.New("u2f: user presence not asserted")
	// ErrReplay reports a counter that is not strictly greater than the
	// stored one.
	ErrReplay = errors.New("u2f: counter did not increase")
)
