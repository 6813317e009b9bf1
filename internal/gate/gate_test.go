package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avermeer/jobdeck/internal/session"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		snapshot session.Snapshot
		required []string
		want     Decision
	}{
		{
			name:     "no session redirects to login",
			snapshot: session.Snapshot{},
			required: nil,
			want:     RedirectLogin,
		},
		{
			name:     "no session with requirements still redirects to login",
			snapshot: session.Snapshot{},
			required: []string{"admin"},
			want:     RedirectLogin,
		},
		{
			name:     "session without requirements is allowed",
			snapshot: session.Snapshot{Token: "x.y.z"},
			required: nil,
			want:     Allow,
		},
		{
			name:     "missing capability redirects to unauthorized",
			snapshot: session.Snapshot{Token: "x.y.z", Capabilities: []string{"read"}},
			required: []string{"read", "write"},
			want:     RedirectUnauthorized,
		},
		{
			name:     "superset of requirements is allowed",
			snapshot: session.Snapshot{Token: "x.y.z", Capabilities: []string{"read", "write"}},
			required: []string{"read"},
			want:     Allow,
		},
		{
			name:     "capability match is case-sensitive",
			snapshot: session.Snapshot{Token: "x.y.z", Capabilities: []string{"Admin"}},
			required: []string{"admin"},
			want:     RedirectUnauthorized,
		},
		{
			name:     "corrupt token session has no capabilities",
			snapshot: session.Snapshot{Token: "garbage"},
			required: []string{"admin"},
			want:     RedirectUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.snapshot, tt.required...))
		})
	}
}

func TestMissing(t *testing.T) {
	snapshot := session.Snapshot{Token: "x.y.z", Capabilities: []string{"read"}}

	assert.Equal(t, []string{"write", "admin"}, Missing(snapshot, "read", "write", "admin"))
	assert.Empty(t, Missing(snapshot, "read"))
}

func TestRoute(t *testing.T) {
	route, ok := Route(RedirectLogin)
	assert.True(t, ok)
	assert.Equal(t, session.RouteLogin, route)

	route, ok = Route(RedirectUnauthorized)
	assert.True(t, ok)
	assert.Equal(t, session.RouteUnauthorized, route)

	_, ok = Route(Allow)
	assert.False(t, ok)
}
