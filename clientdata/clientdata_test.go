package clientdata_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/splitsecure/go-u2f/clientdata"
)

func allowed(t *testing.T, origins ...string) map[string]struct{} {
	t.Helper()
	set, err := clientdata.CanonicalizeOrigins(origins)
	require.NoError(t, err)
	return set
}

func TestCheck(t *testing.T) {
	raw := []byte(`{"typ":"navigator.id.getAssertion","challenge":"abc123","origin":"https://example.com","extra":"ignored"}`)

	got, err := clientdata.Check(raw, clientdata.TypeAuthenticate, "abc123", allowed(t, "https://example.com"))
	require.NoError(t, err)

	// the exact input bytes come back; the signature covers them
	require.Equal(t, raw, got)
}

func TestCheckRejects(t *testing.T) {
	origins := allowed(t, "https://example.com")

	cases := map[string]string{
		"malformed":          `{"typ":`,
		"registration type":  `{"typ":"navigator.id.finishEnrollment","challenge":"abc123","origin":"https://example.com"}`,
		"unknown type":       `{"typ":"navigator.id.somethingElse","challenge":"abc123","origin":"https://example.com"}`,
		"challenge mismatch": `{"typ":"navigator.id.getAssertion","challenge":"xyz789","origin":"https://example.com"}`,
		"foreign origin":     `{"typ":"navigator.id.getAssertion","challenge":"abc123","origin":"https://evil.example"}`,
		"unparseable origin": `{"typ":"navigator.id.getAssertion","challenge":"abc123","origin":"::"}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := clientdata.Check([]byte(raw), clientdata.TypeAuthenticate, "abc123", origins)
			require.ErrorIs(t, err, clientdata.ErrInvalid)
		})
	}
}

func TestCheckCanonicalizesReportedOrigin(t *testing.T) {
	raw := []byte(`{"typ":"navigator.id.getAssertion","challenge":"abc123","origin":"HTTPS://EXAMPLE.com:443"}`)

	_, err := clientdata.Check(raw, clientdata.TypeAuthenticate, "abc123", allowed(t, "https://example.com"))
	require.NoError(t, err)
}

func TestCanonicalizeOrigin(t *testing.T) {
	cases := map[string]string{
		"https://example.com":           "https://example.com",
		"HTTPS://Example.COM":           "https://example.com",
		"https://example.com:443":       "https://example.com",
		"http://example.com:80":         "http://example.com",
		"http://example.com:8080":       "http://example.com:8080",
		"https://example.com:8443/path": "https://example.com:8443",
		"https://example.com/app/login": "https://example.com",
	}

	for in, want := range cases {
		got, err := clientdata.CanonicalizeOrigin(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "example.com", "https://"} {
		_, err := clientdata.CanonicalizeOrigin(in)
		require.Error(t, err, in)
	}
}

func TestCanonicalizeOriginsCollapsesDuplicates(t *testing.T) {
	set, err := clientdata.CanonicalizeOrigins([]string{
		"https://example.com",
		"HTTPS://example.com:443",
	})
	require.NoError(t, err)
	require.Len(t, set, 1)
}
