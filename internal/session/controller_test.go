package session

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avermeer/jobdeck/internal/api"
)

// newTestServer starts an HTTP server bound to IPv4-only loopback so tests work
// inside restricted sandboxes that forbid IPv6 listeners.
func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("unable to start test server: %v", err)
	}

	server := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	server.Start()
	t.Cleanup(server.Close)
	return server
}

// recordingNavigator captures navigation requests in order
type recordingNavigator struct {
	routes []Route
}

func (n *recordingNavigator) NavigateTo(route Route) {
	n.routes = append(n.routes, route)
}

// authHandler is a minimal scheduler-service stub for session tests
func authHandler(t *testing.T, profileStatus int) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Username != "alice" || req.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "incorrect username or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "x.y.z"})
	})
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		var req api.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Username == "taken" {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"detail": "username already registered"})
			return
		}
		json.NewEncoder(w).Encode(api.User{ID: 2, Username: req.Username, Email: req.Email, Active: true})
	})
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer x.y.z" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if profileStatus != http.StatusOK {
			w.WriteHeader(profileStatus)
			return
		}
		json.NewEncoder(w).Encode(api.User{ID: 1, Username: "alice", Email: "alice@example.com", Active: true})
	})
	return mux
}

func newTestController(t *testing.T, profileStatus int) (*Controller, *Store, *MemoryStorage, *recordingNavigator) {
	t.Helper()

	server := newTestServer(t, authHandler(t, profileStatus))
	client := api.NewClient(server.URL)
	store := NewStore()
	storage := NewMemoryStorage()
	nav := &recordingNavigator{}
	return NewController(client, store, storage, nav, nil), store, storage, nav
}

func TestController_Login(t *testing.T) {
	controller, store, storage, nav := newTestController(t, http.StatusOK)

	err := controller.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	snapshot := store.Snapshot()
	assert.Equal(t, "x.y.z", snapshot.Token)
	require.NotNil(t, snapshot.Profile)
	assert.Equal(t, "alice", snapshot.Profile.Username)
	assert.Equal(t, StateAuthenticated, store.State())

	persisted, err := storage.Load()
	require.NoError(t, err)
	assert.Equal(t, "x.y.z", persisted)

	assert.Equal(t, []Route{RouteDashboard}, nav.routes)
}

func TestController_LoginFailureLeavesSessionUnchanged(t *testing.T) {
	controller, store, storage, nav := newTestController(t, http.StatusOK)

	err := controller.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")

	assert.Equal(t, StateAnonymous, store.State())
	persisted, _ := storage.Load()
	assert.Empty(t, persisted)
	assert.Empty(t, nav.routes)
}

func TestController_FailedProfileFetchRetainsToken(t *testing.T) {
	controller, store, _, nav := newTestController(t, http.StatusInternalServerError)

	err := controller.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	snapshot := store.Snapshot()
	assert.Equal(t, "x.y.z", snapshot.Token)
	assert.Nil(t, snapshot.Profile)
	assert.Equal(t, StatePendingProfile, store.State())
	assert.Equal(t, []Route{RouteDashboard}, nav.routes)
}

func TestController_RegisterNavigatesToLogin(t *testing.T) {
	controller, store, _, nav := newTestController(t, http.StatusOK)

	err := controller.Register(context.Background(), "bob", "bob@example.com", "pw")
	require.NoError(t, err)

	// Registration does not authenticate.
	assert.Equal(t, StateAnonymous, store.State())
	assert.Equal(t, []Route{RouteLogin}, nav.routes)
}

func TestController_RegisterConflict(t *testing.T) {
	controller, _, _, nav := newTestController(t, http.StatusOK)

	err := controller.Register(context.Background(), "taken", "taken@example.com", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username already registered")
	assert.Empty(t, nav.routes)
}

func TestController_LogoutIsIdempotent(t *testing.T) {
	controller, store, storage, nav := newTestController(t, http.StatusOK)
	require.NoError(t, controller.Login(context.Background(), "alice", "pw"))

	require.NoError(t, controller.Logout())
	require.NoError(t, controller.Logout())

	assert.Equal(t, StateAnonymous, store.State())
	persisted, _ := storage.Load()
	assert.Empty(t, persisted)
	assert.Equal(t, []Route{RouteDashboard, RouteLogin, RouteLogin}, nav.routes)
}

func TestController_RestorePersistedToken(t *testing.T) {
	server := newTestServer(t, authHandler(t, http.StatusOK))
	client := api.NewClient(server.URL)
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save("x.y.z"))

	store := NewStore()
	controller := NewController(client, store, storage, nil, nil)

	require.NoError(t, controller.Restore(context.Background()))

	snapshot := store.Snapshot()
	assert.Equal(t, "x.y.z", snapshot.Token)
	require.NotNil(t, snapshot.Profile)
	assert.Equal(t, "alice", snapshot.Profile.Username)
}

func TestController_RestoreWithoutToken(t *testing.T) {
	controller, store, _, _ := newTestController(t, http.StatusOK)

	require.NoError(t, controller.Restore(context.Background()))

	assert.Equal(t, StateAnonymous, store.State())
}

func TestController_RefreshProfileWithoutSession(t *testing.T) {
	controller, _, _, _ := newTestController(t, http.StatusOK)

	err := controller.RefreshProfile(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}
