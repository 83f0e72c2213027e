package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
)

func newTestServer(t *testing.T) (*httptest.Server, *tendril.Dispatcher) {
	t.Helper()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pong":true}`))
	}))
	t.Cleanup(backend.Close)

	d, err := tendril.New(backend.URL, tendril.WithJournal(memory.NewJournal()))
	require.NoError(t, err)
	require.NoError(t, d.Registry().Register(domain.Declaration{
		Endpoint: domain.Endpoint{ID: "ping", Method: domain.MethodGet, Path: "/ping"},
		Triplet:  domain.DeriveTriplet("ping"),
	}))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	d.Attach(ctx)

	debug := httptest.NewServer(NewServer(d, WithVersion(tendril.Version)).Handler())
	t.Cleanup(debug.Close)
	return debug, d
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestServer_Health(t *testing.T) {
	debug, _ := newTestServer(t)

	var body map[string]string
	status := getJSON(t, debug.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_Info(t *testing.T) {
	debug, _ := newTestServer(t)

	var body map[string]string
	status := getJSON(t, debug.URL+"/info", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, tendril.Version, body["version"])
}

func TestServer_ListEndpoints(t *testing.T) {
	debug, _ := newTestServer(t)

	var decls []domain.Declaration
	status := getJSON(t, debug.URL+"/endpoints", &decls)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, decls, 1)
	assert.Equal(t, "ping", decls[0].Endpoint.ID)
}

func TestServer_GetEndpoint(t *testing.T) {
	debug, _ := newTestServer(t)

	var decl domain.Declaration
	status := getJSON(t, debug.URL+"/endpoints/ping", &decl)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ping/SUCCESS", decl.Triplet.Success)

	status = getJSON(t, debug.URL+"/endpoints/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestServer_DispatchWait(t *testing.T) {
	debug, _ := newTestServer(t)

	reqBody, _ := json.Marshal(DispatchRequest{Endpoint: "ping", Wait: true})
	resp, err := http.Post(debug.URL+"/dispatch", "application/json", bytes.NewReader(reqBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out DispatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.CorrelationID)
	require.NotNil(t, out.Action)
	assert.Equal(t, "ping/SUCCESS", out.Action.Type)
}

func TestServer_DispatchFireAndForget(t *testing.T) {
	debug, _ := newTestServer(t)

	reqBody, _ := json.Marshal(DispatchRequest{Endpoint: "ping"})
	resp, err := http.Post(debug.URL+"/dispatch", "application/json", bytes.NewReader(reqBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var out DispatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.CorrelationID)
	assert.Nil(t, out.Action)
}

func TestServer_DispatchUnknownEndpoint(t *testing.T) {
	debug, _ := newTestServer(t)

	reqBody, _ := json.Marshal(DispatchRequest{Endpoint: "missing"})
	resp, err := http.Post(debug.URL+"/dispatch", "application/json", bytes.NewReader(reqBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Actions(t *testing.T) {
	debug, _ := newTestServer(t)

	// A synchronous dispatch guarantees the journal entries are present.
	reqBody, _ := json.Marshal(DispatchRequest{Endpoint: "ping", Wait: true})
	resp, err := http.Post(debug.URL+"/dispatch", "application/json", bytes.NewReader(reqBody))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []ports.JournalEntry
	status := getJSON(t, debug.URL+"/actions", &entries)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, entries, 2)
	assert.Equal(t, "ping/SUCCESS", entries[0].ActionType)
	assert.Equal(t, "ping/REQUEST", entries[1].ActionType)

	status = getJSON(t, debug.URL+"/actions?limit=1", &entries)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, entries, 1)

	req, _ := http.NewRequest(http.MethodDelete, debug.URL+"/actions", nil)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	status = getJSON(t, debug.URL+"/actions", &entries)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, entries)
}
