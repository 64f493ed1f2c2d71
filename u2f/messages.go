package u2f

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// SignRequest is the wire message sent to the client to trigger a signing
// operation. It carries exactly the four fields the client needs;
// allowed origins stay on the server.
type SignRequest struct {
	Version   string `json:"version"`
	Challenge string `json:"challenge"`
	AppID     string `json:"appId"`
	KeyHandle string `json:"keyHandle"`
}

// SignRequest returns the client-facing form of the challenge.
func (c *Challenge) SignRequest() SignRequest {
	return SignRequest{
		Version:   c.Version,
		Challenge: c.Challenge,
		AppID:     c.AppID,
		KeyHandle: c.KeyHandle,
	}
}

// SignResponse is the wire message a client reports back after the token
// signed. ClientData and SignatureData are websafe-base64.
type SignResponse struct {
	ClientData    string `json:"clientData"`
	SignatureData string `json:"signatureData"`
	KeyHandle     string `json:"keyHandle"`
}

// ParseSignResponse unmarshals a raw JSON sign response.
func ParseSignResponse(raw []byte) (*SignResponse, error) {
	resp := &SignResponse{}
	if err := json.Unmarshal(raw, resp); err != nil {
		return nil, errors.Wrap(err, "unmarshalling sign response")
	}
	return resp, nil
}

// websafeDecode decodes unpadded websafe-base64, tolerating clients that
// pad anyway.
func websafeDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
