package tui

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avermeer/jobdeck/internal/api"
	"github.com/avermeer/jobdeck/internal/session"
)

// rawToken builds an unsigned JWT carrying the given scope string.
// The console never verifies signatures, so a fake signature is enough.
func rawToken(t *testing.T, scope string) string {
	t.Helper()

	encode := func(v any) string {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		return base64.RawURLEncoding.EncodeToString(data)
	}
	header := encode(map[string]string{"alg": "HS256", "typ": "JWT"})
	payload := encode(map[string]any{"sub": "alice", "scope": scope, "exp": 4102444800})
	return header + "." + payload + ".sig"
}

// newTestModel builds a console model whose session holds the given
// token. The client points at a closed port; view loads fail fast and
// the navigation decisions under test never reach the network.
func newTestModel(t *testing.T, token string) Model {
	t.Helper()

	client := api.NewClient("http://127.0.0.1:1")
	store := session.NewStore()
	storage := session.NewMemoryStorage()
	if token != "" {
		require.NoError(t, storage.Save(token))
	}
	ctrl := session.NewController(client, store, storage, nil, nil)
	require.NoError(t, ctrl.Restore(context.Background()))

	return NewModel(client, ctrl)
}

func TestNewModel_AnonymousLandsOnLogin(t *testing.T) {
	m := newTestModel(t, "")

	assert.Equal(t, ViewLogin, m.view)
}

func TestNewModel_RestoredSessionLandsOnDashboard(t *testing.T) {
	m := newTestModel(t, rawToken(t, "jobs:read"))

	assert.Equal(t, ViewDashboard, m.view)
}

func TestNavigate_MissingCapabilityShowsUnauthorized(t *testing.T) {
	m := newTestModel(t, rawToken(t, "jobs:read"))

	m, cmd := m.navigate(ViewUsers)

	assert.Equal(t, ViewUnauthorized, m.view)
	assert.Nil(t, cmd)
	assert.False(t, m.loading)
}

func TestNavigate_AdminReachesUsers(t *testing.T) {
	m := newTestModel(t, rawToken(t, "admin users:read"))

	m, cmd := m.navigate(ViewUsers)

	assert.Equal(t, ViewUsers, m.view)
	assert.NotNil(t, cmd)
	assert.True(t, m.loading)
}

func TestNavigate_AnonymousRedirectsToLogin(t *testing.T) {
	m := newTestModel(t, "")

	m, cmd := m.navigate(ViewJobs)

	assert.Equal(t, ViewLogin, m.view)
	assert.Nil(t, cmd)
}

func TestUpdate_StaleResponseIsDropped(t *testing.T) {
	m := newTestModel(t, rawToken(t, "admin"))

	m, _ = m.navigate(ViewJobs)
	staleGen := m.gen
	m, _ = m.navigate(ViewSources)

	updated, _ := m.Update(jobsLoadedMsg{gen: staleGen, jobs: []api.Job{{ID: 1, Name: "etl"}}})
	m = updated.(Model)

	// The sources view is still loading; the jobs payload from the
	// abandoned view changed nothing.
	assert.Equal(t, ViewSources, m.view)
	assert.True(t, m.loading)
	assert.Empty(t, m.lastError)
}

func TestUpdate_CurrentResponsePopulatesTable(t *testing.T) {
	m := newTestModel(t, rawToken(t, "admin"))

	m, _ = m.navigate(ViewJobs)
	updated, _ := m.Update(jobsLoadedMsg{gen: m.gen, jobs: []api.Job{{ID: 1, Name: "etl", TriggerType: api.TriggerScheduled}}})
	m = updated.(Model)

	assert.False(t, m.loading)
	require.Len(t, m.jobsTable.Rows(), 1)
	assert.Equal(t, "etl", m.jobsTable.Rows()[0][1])
}

func TestUpdate_LoginFailureStaysOnLoginView(t *testing.T) {
	m := newTestModel(t, "")

	updated, _ := m.Update(loginDoneMsg{err: assert.AnError})
	m = updated.(Model)

	assert.Equal(t, ViewLogin, m.view)
	assert.Contains(t, m.lastError, assert.AnError.Error())
}

func TestUpdate_WindowSizeMarksReady(t *testing.T) {
	m := newTestModel(t, "")

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	assert.True(t, m.ready)
	assert.Contains(t, m.View(), "jobdeck")
}
