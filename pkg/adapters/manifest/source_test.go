package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tendril/pkg/domain"
)

const sampleManifest = `
server: https://api.example.com
endpoints:
  - id: login
    method: post
    path: /login
    summary: Authenticate a user
  - id: fetchProfile
    method: GET
    path: /profile/{id}
    request: profile/LOAD
    success: profile/LOADED
    failure: profile/ERROR
`

func TestSource_Load(t *testing.T) {
	src, err := NewFromData([]byte(sampleManifest))
	require.NoError(t, err)

	decls, err := src.Load()
	require.NoError(t, err)
	require.Len(t, decls, 2)

	assert.Equal(t, "login", decls[0].Endpoint.ID)
	assert.Equal(t, domain.MethodPost, decls[0].Endpoint.Method)
	assert.Equal(t, "login/REQUEST", decls[0].Triplet.Request)

	// Explicit triplet labels override the derived ones.
	assert.Equal(t, "profile/LOAD", decls[1].Triplet.Request)
	assert.Equal(t, "profile/LOADED", decls[1].Triplet.Success)
	assert.Equal(t, "profile/ERROR", decls[1].Triplet.Failure)

	assert.Equal(t, "https://api.example.com", src.Server())
}

func TestSource_InvalidMethod(t *testing.T) {
	src, err := NewFromData([]byte(`
endpoints:
  - id: ping
    method: TRACE
    path: /ping
`))
	require.NoError(t, err)

	_, err = src.Load()
	require.ErrorIs(t, err, domain.ErrUnsupportedMethod)
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o644))

	src, err := NewFromFile(path)
	require.NoError(t, err)

	decls, err := src.Load()
	require.NoError(t, err)
	assert.Len(t, decls, 2)
}

func TestNewFromFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.json")
	data := `{"endpoints":[{"id":"ping","method":"GET","path":"/ping"}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	src, err := NewFromFile(path)
	require.NoError(t, err)

	decls, err := src.Load()
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "ping", decls[0].Endpoint.ID)
}

func TestNewFromFile_Missing(t *testing.T) {
	_, err := NewFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
