package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestClient_RequestHeaders(t *testing.T) {
	var got http.Header
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"status":"ok"}`))
	}))

	client := NewClient(server.URL, WithToken("secret-token"))
	_, err := client.Health(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestClient_NoAuthHeaderWithoutToken(t *testing.T) {
	var got http.Header
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"status":"ok"}`))
	}))

	client := NewClient(server.URL)
	_, err := client.Health(context.Background())

	require.NoError(t, err)
	assert.Empty(t, got.Get("Authorization"))
}

func TestClient_Login(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Username != "alice" || req.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "incorrect username or password"})
			return
		}

		json.NewEncoder(w).Encode(map[string]string{"access_token": "x.y.z", "token_type": "bearer"})
	}))

	client := NewClient(server.URL)

	t.Run("success", func(t *testing.T) {
		resp, err := client.Login(context.Background(), "alice", "pw")
		require.NoError(t, err)
		assert.Equal(t, "x.y.z", resp.AccessToken)
	})

	t.Run("bad credentials", func(t *testing.T) {
		_, err := client.Login(context.Background(), "alice", "wrong")
		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
		assert.Contains(t, err.Error(), "incorrect username or password")
	})
}

func TestClient_ErrorDetailParsing(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{
			name:   "fastapi detail field",
			status: http.StatusConflict,
			body:   `{"detail":"username already registered"}`,
			want:   "username already registered",
		},
		{
			name:   "message field fallback",
			status: http.StatusBadRequest,
			body:   `{"message":"bad request"}`,
			want:   "bad request",
		},
		{
			name:   "raw body fallback",
			status: http.StatusInternalServerError,
			body:   "boom",
			want:   "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			client := NewClient(server.URL)
			_, err := client.Profile(context.Background())

			require.Error(t, err)
			assert.True(t, IsStatus(err, tt.status))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClient_GrantEndpoints(t *testing.T) {
	var paths []string
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)

		switch {
		case r.URL.Path == "/grants/":
			json.NewEncoder(w).Encode([]Grant{{ID: 1, Name: "admin"}, {ID: 2, Name: "jobs:read"}})
		case r.URL.Path == "/users/7/grants" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]Grant{{ID: 1, Name: "admin"}})
		case r.URL.Path == "/users/7/grants" && r.Method == http.MethodPost:
			var req map[string]int64
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, int64(2), req["id"])
			w.WriteHeader(http.StatusCreated)
		case r.URL.Path == "/users/7/grants/1" && r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	client := NewClient(server.URL, WithToken("tok"))
	ctx := context.Background()

	catalog, err := client.Grants(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, 2)

	assigned, err := client.UserGrants(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, assigned, 1)

	require.NoError(t, client.AssignGrant(ctx, 7, 2))
	require.NoError(t, client.RevokeGrant(ctx, 7, 1))

	assert.Equal(t, []string{
		"GET /grants/",
		"GET /users/7/grants",
		"POST /users/7/grants",
		"DELETE /users/7/grants/1",
	}, paths)
}

func TestClient_JobsPagination(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("skip"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode([]Job{{ID: 21, Name: "nightly-report", TriggerType: TriggerScheduled}})
	}))

	client := NewClient(server.URL)
	jobs, err := client.Jobs(context.Background(), 20, 10)

	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "nightly-report", jobs[0].Name)
}

func TestClient_NotFound(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "job not found"})
	}))

	client := NewClient(server.URL)
	_, err := client.JobByID(context.Background(), 999)

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
