package tendril_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Score int `json:"score"`
}

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		if req.Username != "a" || req.Password != "b" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{}`))
			return
		}
		w.Write([]byte(`{"score":5}`))
	})
	mux.HandleFunc("GET /profile/42", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"score":7}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestDispatcher_ExecuteSuccess(t *testing.T) {
	srv := newBackend(t)

	journal := memory.NewJournal()
	d, err := tendril.New(srv.URL, tendril.WithJournal(journal))
	require.NoError(t, err)

	login, err := registry.Post[loginReq, loginResp](d.Registry(), "login", "/login")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Attach(ctx)

	act, err := d.Execute(ctx, login.Call(loginReq{Username: "a", Password: "b"}))
	require.NoError(t, err)

	resp, ok, err := login.Success(act)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, resp.Score)

	entries, err := journal.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, login.Triplet().Success, entries[0].ActionType)
	assert.Equal(t, login.Triplet().Request, entries[1].ActionType)
}

func TestDispatcher_ExecuteFailure(t *testing.T) {
	srv := newBackend(t)

	d, err := tendril.New(srv.URL)
	require.NoError(t, err)

	login, err := registry.Post[loginReq, loginResp](d.Registry(), "login", "/login")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Attach(ctx)

	act, err := d.Execute(ctx, login.Call(loginReq{Username: "a", Password: "wrong"}))
	require.NoError(t, err)

	assert.True(t, login.Failure(act))
	assert.Equal(t, map[string]any{}, act.Payload)
}

func TestDispatcher_FireAndForgetCall(t *testing.T) {
	srv := newBackend(t)

	d, err := tendril.New(srv.URL)
	require.NoError(t, err)

	profile, err := registry.Get[loginResp](d.Registry(), "profile", "/profile/{id}")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Attach(ctx)

	ch, unsub := d.Bus().Subscribe(profile.Triplet().Success)
	defer unsub()

	corrID, err := d.Call(ctx, "profile", registry.WithPathParams(map[string]any{"id": 42}))
	require.NoError(t, err)
	require.NotEmpty(t, corrID)

	awaitCtx, awaitCancel := context.WithTimeout(ctx, time.Second)
	defer awaitCancel()
	act, err := d.Await(awaitCtx, profile.Triplet(), corrID)
	require.NoError(t, err)
	assert.Equal(t, corrID, act.CorrelationID())

	// The direct subscription observed it too.
	direct := <-ch
	assert.Equal(t, profile.Triplet().Success, direct.Type)
}

func TestDispatcher_AwaitWithoutTerminal(t *testing.T) {
	srv := newBackend(t)

	d, err := tendril.New(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = d.Await(ctx, domain.DeriveTriplet("never"), "nobody")
	assert.ErrorIs(t, err, domain.ErrNoTerminal)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := tendril.New("")
	assert.Error(t, err)
}
