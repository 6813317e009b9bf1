// Package gate decides whether the current session may enter a
// protected view.
//
// The decision is purely local and synchronous: it consults a session
// snapshot, never the network. It is a UX filter only; the service
// enforces authorization for real on every request.
package gate

import (
	"github.com/avermeer/jobdeck/internal/session"
)

// Decision is the outcome of an access check
type Decision int

const (
	// Allow renders the protected content
	Allow Decision = iota
	// RedirectLogin sends the user to the login view (no session)
	RedirectLogin
	// RedirectUnauthorized sends the user to the unauthorized view
	// (session present, capability missing)
	RedirectUnauthorized
)

// String returns the string representation of the decision
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectUnauthorized:
		return "redirect-unauthorized"
	default:
		return "unknown"
	}
}

// Check evaluates access to a view that requires the given capabilities.
// With no required capabilities any session passes; capability matching
// is exact string containment, case-sensitive, no wildcards.
func Check(snapshot session.Snapshot, required ...string) Decision {
	if !snapshot.Authenticated() {
		return RedirectLogin
	}

	for _, capability := range required {
		if !snapshot.HasCapability(capability) {
			return RedirectUnauthorized
		}
	}

	return Allow
}

// Missing returns the required capabilities the session does not hold
func Missing(snapshot session.Snapshot, required ...string) []string {
	var missing []string
	for _, capability := range required {
		if !snapshot.HasCapability(capability) {
			missing = append(missing, capability)
		}
	}
	return missing
}

// Route maps a decision to the session route it redirects to.
// Allow has no redirect and returns false.
func Route(d Decision) (session.Route, bool) {
	switch d {
	case RedirectLogin:
		return session.RouteLogin, true
	case RedirectUnauthorized:
		return session.RouteUnauthorized, true
	default:
		return "", false
	}
}
