package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Do(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, `{"username":"a"}`, string(body))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	c := New()
	resp, err := c.Do(context.Background(), ports.Request{
		Method: domain.MethodPost,
		URL:    srv.URL + "/users",
		Header: header,
		Body:   []byte(`{"username":"a"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, `{"id":1}`, string(resp.Body))
}

func TestClient_Do_ConnectionError(t *testing.T) {
	c := New()
	_, err := c.Do(context.Background(), ports.Request{
		Method: domain.MethodGet,
		URL:    "http://127.0.0.1:1/nothing-listens-here",
	})
	assert.Error(t, err)
}
