// Package mint fabricates token sign responses for tests: it plays the
// role of browser plus U2F token, producing wire responses that verify (or
// deliberately fail to verify) against a challenge.
package mint

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"

	"github.com/splitsecure/go-u2f/clientdata"
	"github.com/splitsecure/go-u2f/u2f"
)

type SignInput struct {
	PrivateKey *ecdsa.PrivateKey

	Challenge string
	AppID     string
	KeyHandle string
	Origin    string

	Counter      uint32
	UserPresence byte

	// ClientDataTyp overrides the "typ" field; empty means the
	// authentication ceremony type.
	ClientDataTyp string
}

type SignOutput struct {
	Response u2f.SignResponse
	// ClientData is the literal byte sequence the signature covers.
	ClientData []byte
}

// GenerateSignResponse builds a correctly signed wire response for the
// given inputs. Invalid inputs (a stale counter, a flag other than
// rawmessage.UserPresentFlag, a foreign origin) still sign correctly, so
// tests can exercise every non-signature check with a valid signature.
func GenerateSignResponse(in *SignInput) (SignOutput, error) {
	typ := in.ClientDataTyp
	if typ == "" {
		typ = clientdata.TypeAuthenticate
	}

	clientData, err := json.Marshal(clientdata.T{
		Typ:       typ,
		Challenge: in.Challenge,
		Origin:    in.Origin,
	})
	if err != nil {
		return SignOutput{}, err
	}

	appIDHash := sha256.Sum256([]byte(in.AppID))
	clientDataHash := sha256.Sum256(clientData)

	signedBytes := make([]byte, 0, len(appIDHash)+5+len(clientDataHash))
	signedBytes = append(signedBytes, appIDHash[:]...)
	signedBytes = append(signedBytes, in.UserPresence)
	signedBytes = binary.BigEndian.AppendUint32(signedBytes, in.Counter)
	signedBytes = append(signedBytes, clientDataHash[:]...)

	digest := sha256.Sum256(signedBytes)
	sig, err := ecdsa.SignASN1(rand.Reader, in.PrivateKey, digest[:])
	if err != nil {
		return SignOutput{}, err
	}

	signatureData := make([]byte, 0, 5+len(sig))
	signatureData = append(signatureData, in.UserPresence)
	signatureData = binary.BigEndian.AppendUint32(signatureData, in.Counter)
	signatureData = append(signatureData, sig...)

	return SignOutput{
		Response: u2f.SignResponse{
			ClientData:    base64.RawURLEncoding.EncodeToString(clientData),
			SignatureData: base64.RawURLEncoding.EncodeToString(signatureData),
			KeyHandle:     in.KeyHandle,
		},
		ClientData: clientData,
	}, nil
}
