/*
Package httpclient provides the default ports.Transport implementation over
net/http.
*/
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aretw0/tendril/pkg/ports"
)

// Client implements ports.Transport using an http.Client.
//
// It deliberately sets no client-level timeout: the dispatch worker races the
// call against its own timeout and discards the loser.
type Client struct {
	hc *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client (proxies, TLS config, ...).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// New creates a transport backed by http.DefaultTransport.
func New(opts ...Option) *Client {
	c := &Client{hc: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs the HTTP request and reads the full response body.
func (c *Client) Do(ctx context.Context, req ports.Request) (*ports.Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	hreq, err := http.NewRequestWithContext(ctx, string(req.Method), req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, vals := range req.Header {
		for _, v := range vals {
			hreq.Header.Add(k, v)
		}
	}

	res, err := c.hc.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &ports.Response{Status: res.StatusCode, Body: data}, nil
}
