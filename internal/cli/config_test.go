package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.True(t, cfg.Redact)
	assert.Equal(t, 256, cfg.JournalSize)
	assert.Empty(t, cfg.BaseURL)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tendril.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://api.example.com
timeout: 5s
token_env: API_TOKEN
redact: false
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "API_TOKEN", cfg.TokenEnv)
	assert.False(t, cfg.Redact)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tendril.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://file.example.com\n"), 0o644))

	t.Setenv("TENDRIL_BASE_URL", "https://env.example.com")
	t.Setenv("TENDRIL_TIMEOUT", "2s")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestConfig_TokenSource(t *testing.T) {
	assert.Nil(t, Config{}.TokenSource())

	t.Setenv("API_TOKEN", "sekret")
	src := Config{TokenEnv: "API_TOKEN"}.TokenSource()
	require.NotNil(t, src)

	token, err := src(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sekret", token)
}

func TestNewDispatcher_ManifestSource(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "endpoints.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`
server: https://api.example.com
endpoints:
  - id: ping
    method: GET
    path: /ping
`), 0o644))

	cfg := DefaultConfig()
	cfg.Manifest = manifestPath

	d, err := NewDispatcher(cfg, NewLogger(false))
	require.NoError(t, err)

	// Base URL falls back to the manifest's server entry.
	assert.Equal(t, "https://api.example.com", d.BaseURL())
	assert.Len(t, d.Registry().List(), 1)
	assert.NotNil(t, d.Journal())
}

func TestNewDispatcher_NoBaseURL(t *testing.T) {
	_, err := NewDispatcher(DefaultConfig(), NewLogger(false))
	require.Error(t, err)
}
