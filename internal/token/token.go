// Package token decodes bearer tokens issued by the scheduler service.
//
// The console never verifies token signatures; the server is the
// authority. Decoding only recovers the claims payload so the UI can
// derive capabilities and expiry locally.
package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var parser = jwt.NewParser()

// Decode parses a bearer token without verifying its signature and
// returns the claims payload.
func Decode(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Capabilities extracts the capability identifiers encoded in a token.
//
// The payload carries either a space-delimited "scope" string or a
// "scopes" list; the string form wins when both are present. An absent
// or undecodable token yields an empty set, never an error: capability
// gating is a UX filter, and a corrupt token must degrade to an
// unauthenticated-looking session instead of breaking the console.
func Capabilities(raw string) []string {
	if raw == "" {
		return nil
	}

	claims, err := Decode(raw)
	if err != nil {
		return nil
	}

	if scope, ok := claims["scope"].(string); ok {
		return strings.Fields(scope)
	}

	if list, ok := claims["scopes"].([]interface{}); ok {
		scopes := make([]string, 0, len(list))
		for _, v := range list {
			if s, ok := v.(string); ok {
				scopes = append(scopes, s)
			}
		}
		return scopes
	}

	return nil
}

// Expired reports whether a token's expiry instant has passed.
//
// Unlike Capabilities, this fails closed: an absent or undecodable
// token, or one without an "exp" claim, is treated as expired. A
// credential the console cannot read must never be presented as live.
func Expired(raw string, now time.Time) bool {
	exp, err := ExpiresAt(raw)
	if err != nil {
		return true
	}
	return !exp.After(now)
}

// ExpiresAt returns the expiry instant encoded in a token.
func ExpiresAt(raw string) (time.Time, error) {
	claims, err := Decode(raw)
	if err != nil {
		return time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, jwt.ErrTokenRequiredClaimMissing
	}
	return exp.Time, nil
}
