package session

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avermeer/jobdeck/internal/api"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}

func TestStore_TokenDerivesCapabilities(t *testing.T) {
	store := NewStore()
	store.setToken(signedToken(t, jwt.MapClaims{"scope": "admin jobs:read"}))

	snapshot := store.Snapshot()

	assert.True(t, snapshot.Authenticated())
	assert.ElementsMatch(t, []string{"admin", "jobs:read"}, snapshot.Capabilities)
}

func TestStore_CorruptTokenKeepsSessionPresent(t *testing.T) {
	store := NewStore()
	store.setToken("not-a-decodable-token")

	snapshot := store.Snapshot()

	// A corrupt token degrades to zero capabilities but does not force
	// the session anonymous.
	assert.True(t, snapshot.Authenticated())
	assert.Empty(t, snapshot.Capabilities)
}

func TestStore_States(t *testing.T) {
	store := NewStore()
	assert.Equal(t, StateAnonymous, store.State())

	store.setToken(signedToken(t, jwt.MapClaims{"scope": "admin"}))
	assert.Equal(t, StatePendingProfile, store.State())

	store.setProfile(&api.User{ID: 1, Username: "alice"})
	assert.Equal(t, StateAuthenticated, store.State())

	store.clear()
	assert.Equal(t, StateAnonymous, store.State())
	assert.False(t, store.Snapshot().Authenticated())
}

func TestStore_NewTokenResetsProfile(t *testing.T) {
	store := NewStore()
	store.setToken(signedToken(t, jwt.MapClaims{"scope": "admin"}))
	store.setProfile(&api.User{ID: 1, Username: "alice"})

	store.setToken(signedToken(t, jwt.MapClaims{"scope": "jobs:read"}))

	snapshot := store.Snapshot()
	assert.Nil(t, snapshot.Profile)
	assert.ElementsMatch(t, []string{"jobs:read"}, snapshot.Capabilities)
}

func TestSnapshot_HasCapability(t *testing.T) {
	snapshot := Snapshot{Capabilities: []string{"admin", "jobs:read"}}

	assert.True(t, snapshot.HasCapability("admin"))
	assert.False(t, snapshot.HasCapability("Admin")) // case-sensitive
	assert.False(t, snapshot.HasCapability("jobs:write"))
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	store := NewStore()
	store.setToken(signedToken(t, jwt.MapClaims{"scope": "admin"}))

	snapshot := store.Snapshot()
	snapshot.Capabilities[0] = "mutated"

	assert.Equal(t, []string{"admin"}, store.Snapshot().Capabilities)
}
