// Package session owns the console's authentication state: the bearer
// token, the capability set derived from it, and the fetched user
// profile.
//
// The Store is read by every component but written only by the
// Controller; the mutating methods are unexported to keep that contract
// visible in the API.
package session

import (
	"sync"

	"github.com/avermeer/jobdeck/internal/api"
	"github.com/avermeer/jobdeck/internal/token"
)

// State describes the session lifecycle
type State int

const (
	// StateAnonymous means no token is held
	StateAnonymous State = iota
	// StatePendingProfile means a token is held but the profile fetch
	// has not resolved yet
	StatePendingProfile
	// StateAuthenticated means both token and profile are present
	StateAuthenticated
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StatePendingProfile:
		return "pending-profile"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the session at one instant
type Snapshot struct {
	Token        string
	Capabilities []string
	Profile      *api.User
}

// Authenticated reports whether a token is present.
// A token that fails to decode still counts: capability gating degrades
// to an empty set instead of forcing the session anonymous.
func (s Snapshot) Authenticated() bool {
	return s.Token != ""
}

// HasCapability reports whether the session holds the given capability.
// Comparison is exact and case-sensitive; there are no wildcards.
func (s Snapshot) HasCapability(capability string) bool {
	for _, c := range s.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// Store holds the process-wide session state
type Store struct {
	mu           sync.RWMutex
	token        string
	capabilities []string
	profile      *api.User
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a copy of the current session state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	caps := make([]string, len(s.capabilities))
	copy(caps, s.capabilities)

	return Snapshot{
		Token:        s.token,
		Capabilities: caps,
		Profile:      s.profile,
	}
}

// State returns the current lifecycle state
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.token == "":
		return StateAnonymous
	case s.profile == nil:
		return StatePendingProfile
	default:
		return StateAuthenticated
	}
}

// setToken stores a token and synchronously recomputes the capability
// set. The profile is reset; it belongs to the previous token.
func (s *Store) setToken(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = raw
	s.capabilities = token.Capabilities(raw)
	s.profile = nil
}

// setProfile stores the fetched user profile
func (s *Store) setProfile(profile *api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = profile
}

// clear resets the session to anonymous
func (s *Store) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.capabilities = nil
	s.profile = nil
}
