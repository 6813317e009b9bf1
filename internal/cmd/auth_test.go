package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand executes the root command with args and captures output
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestAuthStatus_NoSession(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := runCommand(t, "auth", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "anonymous")
}

func TestAuthLogout_NoSession(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := runCommand(t, "auth", "logout")

	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func TestUsersList_RequiresSession(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := runCommand(t, "users", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestGrantsSync_RequiresChanges(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := runCommand(t, "grants", "sync", "7")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to do")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "jobdeck")
}

func TestConfigRoundTripCommands(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := runCommand(t, "config", "set", "service.url", "http://example.com:8004")
	require.NoError(t, err)

	out, err := runCommand(t, "config", "get", "service.url")
	require.NoError(t, err)
	assert.Contains(t, out, "http://example.com:8004")
}
