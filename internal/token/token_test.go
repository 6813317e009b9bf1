package token

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signToken builds a real HS256 token; the codec never checks the
// signature, so any key works.
func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}

// rawToken assembles a three-segment token from an arbitrary payload,
// bypassing the jwt library entirely.
func rawToken(payload string) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(payload))
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	return header + "." + encoded + ".sig"
}

func TestCapabilities_SpaceDelimitedScope(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{"scope": "jobs:read jobs:write admin"})

	caps := Capabilities(raw)

	assert.ElementsMatch(t, []string{"jobs:read", "jobs:write", "admin"}, caps)
}

func TestCapabilities_ScopeListField(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{"scopes": []string{"jobs:read", "admin"}})

	caps := Capabilities(raw)

	assert.ElementsMatch(t, []string{"jobs:read", "admin"}, caps)
}

func TestCapabilities_ScopeStringWinsOverList(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{
		"scope":  "a b",
		"scopes": []string{"c"},
	})

	assert.ElementsMatch(t, []string{"a", "b"}, Capabilities(raw))
}

func TestCapabilities_MalformedTokensDegradeToEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty token", raw: ""},
		{name: "single segment", raw: "garbage"},
		{name: "two segments", raw: "a.b"},
		{name: "invalid base64 payload", raw: "a.!!!not-base64!!!.c"},
		{name: "payload is not json", raw: rawToken("plain text, not json")},
		{name: "payload is a json array", raw: rawToken(`["not","an","object"]`)},
		{name: "no scope fields", raw: rawToken(`{"sub":"alice"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Empty(t, Capabilities(tt.raw))
			})
		})
	}
}

func TestCapabilities_IgnoresNonStringListEntries(t *testing.T) {
	raw := rawToken(`{"scopes":["jobs:read",42,"admin"]}`)

	assert.ElementsMatch(t, []string{"jobs:read", "admin"}, Capabilities(raw))
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		raw     string
		expired bool
	}{
		{
			name:    "future expiry",
			raw:     signToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}),
			expired: false,
		},
		{
			name:    "past expiry",
			raw:     signToken(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()}),
			expired: true,
		},
		{
			name:    "exactly now",
			raw:     signToken(t, jwt.MapClaims{"exp": now.Unix()}),
			expired: true,
		},
		{
			name:    "missing exp claim fails closed",
			raw:     signToken(t, jwt.MapClaims{"sub": "alice"}),
			expired: true,
		},
		{
			name:    "undecodable token fails closed",
			raw:     "not.a.token",
			expired: true,
		},
		{
			name:    "empty token fails closed",
			raw:     "",
			expired: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, Expired(tt.raw, now))
		})
	}
}

func TestExpiresAt_RoundTrip(t *testing.T) {
	exp := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	raw := signToken(t, jwt.MapClaims{"exp": exp.Unix()})

	got, err := ExpiresAt(raw)

	require.NoError(t, err)
	assert.True(t, got.Equal(exp))
}

func TestDecode_PreservesCustomClaims(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{"sub": "42", "scope": "admin"})

	claims, err := Decode(raw)

	require.NoError(t, err)
	assert.Equal(t, "42", claims["sub"])
	assert.Equal(t, "admin", claims["scope"])
}
