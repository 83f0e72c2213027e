package registry

import (
	"testing"
	"time"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginDecl() domain.Declaration {
	return domain.Declaration{
		Endpoint: domain.Endpoint{ID: "login", Method: domain.MethodPost, Path: "/login"},
		Triplet:  domain.DeriveTriplet("login"),
	}
}

func TestRegistry_Register(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(loginDecl()))

	t.Run("duplicate endpoint rejected", func(t *testing.T) {
		err := r.Register(loginDecl())
		assert.ErrorIs(t, err, domain.ErrDuplicateEndpoint)
	})

	t.Run("duplicate label rejected", func(t *testing.T) {
		err := r.Register(domain.Declaration{
			Endpoint: domain.Endpoint{ID: "login2", Method: domain.MethodPost, Path: "/login2"},
			Triplet:  domain.Triplet{Request: "login/REQUEST", Success: "x/S", Failure: "x/F"},
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateLabel)
	})

	t.Run("invalid declaration rejected", func(t *testing.T) {
		err := r.Register(domain.Declaration{
			Endpoint: domain.Endpoint{ID: "bad", Method: "FETCH", Path: "/x"},
			Triplet:  domain.DeriveTriplet("bad"),
		})
		assert.ErrorIs(t, err, domain.ErrUnsupportedMethod)
	})
}

func TestRegistry_Call(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(loginDecl()))

	act, err := r.Call("login",
		WithBody(map[string]any{"username": "a", "password": "b"}),
		WithDelay(50*time.Millisecond),
		WithMeta(domain.Meta{"screen": "signin"}),
	)
	require.NoError(t, err)

	assert.Equal(t, domain.ActionDispatchCall, act.Type)

	inv, ok := act.Payload.(domain.Invocation)
	require.True(t, ok, "payload should be an Invocation")
	assert.Equal(t, domain.MethodPost, inv.Method)
	assert.Equal(t, "/login", inv.Path)
	assert.Equal(t, "login/REQUEST", inv.Labels.Request)
	assert.Equal(t, 50*time.Millisecond, inv.Delay)
	assert.Equal(t, "signin", inv.Meta["screen"])
	assert.NotEmpty(t, inv.CorrelationID(), "correlation ID is auto-generated")
	assert.Equal(t, inv.Meta, act.Meta)

	_, err = r.Call("missing")
	assert.ErrorIs(t, err, domain.ErrEndpointNotFound)
}

func TestRegistry_TypedDeclare(t *testing.T) {
	type loginReq struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	type loginResp struct {
		Score int `json:"score"`
	}

	r := New()
	login, err := Post[loginReq, loginResp](r, "login", "/login", WithSummary("Sign a user in"))
	require.NoError(t, err)

	act := login.Call(loginReq{Username: "a", Password: "b"})
	inv := act.Payload.(domain.Invocation)
	body, ok := inv.Body.(loginReq)
	require.True(t, ok)
	assert.Equal(t, "a", body.Username)

	t.Run("success decode", func(t *testing.T) {
		resp, matched, err := login.Success(domain.Action{
			Type:    "login/SUCCESS",
			Payload: map[string]any{"score": 5},
		})
		require.NoError(t, err)
		assert.True(t, matched)
		assert.Equal(t, 5, resp.Score)
	})

	t.Run("non-matching action", func(t *testing.T) {
		_, matched, err := login.Success(domain.Action{Type: "login/FAILURE"})
		require.NoError(t, err)
		assert.False(t, matched)
		assert.True(t, login.Failure(domain.Action{Type: "login/FAILURE"}))
	})

	t.Run("body-less GET", func(t *testing.T) {
		profile, err := Get[loginResp](r, "profile", "/profile/{id}")
		require.NoError(t, err)

		act := profile.Call(None, WithPathParams(map[string]any{"id": 42}))
		inv := act.Payload.(domain.Invocation)
		assert.Nil(t, inv.Body)
		assert.Equal(t, domain.MethodGet, inv.Method)
	})
}
