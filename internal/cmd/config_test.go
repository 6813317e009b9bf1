package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGlobalConfig_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadGlobalConfig()

	require.NoError(t, err)
	assert.Empty(t, cfg.Service.URL)
	assert.Empty(t, cfg.Defaults.Format)
}

func TestSaveAndLoadGlobalConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := &GlobalConfig{}
	cfg.Service.URL = "http://scheduler.internal:8004"
	cfg.Defaults.Format = "json"
	cfg.Logging.Level = "debug"
	require.NoError(t, saveGlobalConfig(cfg))

	loaded, err := loadGlobalConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://scheduler.internal:8004", loaded.Service.URL)
	assert.Equal(t, "json", loaded.Defaults.Format)
	assert.Equal(t, "debug", loaded.Logging.Level)
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, os.MkdirAll(filepath.Join(home, ".jobdeck"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".jobdeck", "config.yaml"), []byte("{not yaml"), 0o644))

	_, err := loadGlobalConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid YAML")
}

func TestConfigValue(t *testing.T) {
	cfg := &GlobalConfig{}
	cfg.Service.URL = "http://localhost:8004"
	cfg.Defaults.Format = "yaml"
	cfg.Defaults.Verbose = true
	cfg.Logging.Level = "warn"

	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "service.url", want: "http://localhost:8004"},
		{key: "defaults.format", want: "yaml"},
		{key: "defaults.verbose", want: "true"},
		{key: "logging.level", want: "warn"},
		{key: "nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := configValue(cfg, tt.key)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetConfigValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{name: "service url", key: "service.url", value: "http://example.com"},
		{name: "valid format", key: "defaults.format", value: "json"},
		{name: "invalid format", key: "defaults.format", value: "xml", wantErr: true},
		{name: "valid bool", key: "defaults.verbose", value: "true"},
		{name: "invalid bool", key: "defaults.verbose", value: "yes please", wantErr: true},
		{name: "valid level", key: "logging.level", value: "debug"},
		{name: "invalid level", key: "logging.level", value: "trace", wantErr: true},
		{name: "unknown key", key: "nope", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := setConfigValue(&GlobalConfig{}, tt.key, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestServiceURL_Precedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("JOBDECK_API_URL", "")

	// Built-in default with no flag and no config file.
	flagAPIURL = ""
	assert.Equal(t, "http://localhost:8004", serviceURL())

	// Config file overrides the default.
	cfg := &GlobalConfig{}
	cfg.Service.URL = "http://from-config:8004"
	require.NoError(t, saveGlobalConfig(cfg))
	assert.Equal(t, "http://from-config:8004", serviceURL())

	// The environment overrides the config file.
	t.Setenv("JOBDECK_API_URL", "http://from-env:8004")
	assert.Equal(t, "http://from-env:8004", serviceURL())

	// The flag wins over everything.
	flagAPIURL = "http://from-flag:8004"
	defer func() { flagAPIURL = "" }()
	assert.Equal(t, "http://from-flag:8004", serviceURL())
}
