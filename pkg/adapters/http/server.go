// Package http exposes a dispatcher over HTTP for debugging and tooling:
// endpoint listing, journal inspection and manual call dispatch.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/aretw0/tendril/pkg/registry"
)

// Dispatcher defines the slice of the dispatch core the server needs.
type Dispatcher interface {
	Registry() *registry.Registry
	Journal() ports.Journal
	Call(ctx context.Context, endpointID string, opts ...registry.CallOption) (string, error)
	Execute(ctx context.Context, call domain.Action) (domain.Action, error)
}

// Server serves the debug API for a dispatcher.
type Server struct {
	dispatcher Dispatcher
	version    string
	logger     *slog.Logger
	metrics    bool
	waitLimit  time.Duration
}

// Option configures the Server.
type Option func(*Server)

// WithVersion reports the given version on GET /info.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts the Prometheus handler at /metrics.
func WithMetrics(enabled bool) Option {
	return func(s *Server) {
		s.metrics = enabled
	}
}

// WithWaitLimit caps how long a synchronous dispatch (wait=true) may block.
func WithWaitLimit(limit time.Duration) Option {
	return func(s *Server) {
		s.waitLimit = limit
	}
}

// NewServer creates the debug server for a dispatcher.
func NewServer(d Dispatcher, opts ...Option) *Server {
	s := &Server{
		dispatcher: d,
		version:    "unknown",
		logger:     slog.New(slog.DiscardHandler),
		waitLimit:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router for the debug API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/endpoints", s.listEndpoints)
	r.Get("/endpoints/{id}", s.getEndpoint)
	r.Get("/actions", s.listActions)
	r.Delete("/actions", s.clearActions)
	r.Post("/dispatch", s.dispatch)
	if s.metrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	return r
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "tendril-http",
		"version": s.version,
	})
}

func (s *Server) listEndpoints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dispatcher.Registry().List())
}

func (s *Server) getEndpoint(w http.ResponseWriter, r *http.Request) {
	decl, err := s.dispatcher.Registry().Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrEndpointNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, decl)
}

func (s *Server) listActions(w http.ResponseWriter, r *http.Request) {
	journal := s.dispatcher.Journal()
	if journal == nil {
		http.Error(w, "no journal configured", http.StatusNotFound)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := journal.List(r.Context(), limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("journal error: %v", err), http.StatusInternalServerError)
		s.logger.Error("journal list failed", "err", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) clearActions(w http.ResponseWriter, r *http.Request) {
	journal := s.dispatcher.Journal()
	if journal == nil {
		http.Error(w, "no journal configured", http.StatusNotFound)
		return
	}
	if err := journal.Clear(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("journal error: %v", err), http.StatusInternalServerError)
		s.logger.Error("journal clear failed", "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DispatchRequest is the body of POST /dispatch.
type DispatchRequest struct {
	Endpoint   string            `json:"endpoint"`
	Body       any               `json:"body,omitempty"`
	PathParams map[string]any    `json:"path_params,omitempty"`
	Query      map[string]string `json:"query,omitempty"`
	Server     string            `json:"server,omitempty"`
	DelayMs    int64             `json:"delay_ms,omitempty"`
	Meta       domain.Meta       `json:"meta,omitempty"`

	// Wait makes the dispatch synchronous: the response carries the terminal
	// action instead of just the correlation ID.
	Wait bool `json:"wait,omitempty"`
}

// DispatchResponse is the body returned by POST /dispatch.
type DispatchResponse struct {
	CorrelationID string         `json:"correlation_id"`
	Action        *domain.Action `json:"action,omitempty"`
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	var body DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Endpoint == "" {
		http.Error(w, "endpoint is required", http.StatusBadRequest)
		return
	}

	var opts []registry.CallOption
	if body.Body != nil {
		opts = append(opts, registry.WithBody(body.Body))
	}
	if len(body.PathParams) > 0 {
		opts = append(opts, registry.WithPathParams(body.PathParams))
	}
	if len(body.Query) > 0 {
		opts = append(opts, registry.WithQuery(body.Query))
	}
	if body.Server != "" {
		opts = append(opts, registry.WithServer(body.Server))
	}
	if body.DelayMs > 0 {
		opts = append(opts, registry.WithDelay(time.Duration(body.DelayMs)*time.Millisecond))
	}
	if len(body.Meta) > 0 {
		opts = append(opts, registry.WithMeta(body.Meta))
	}

	if !body.Wait {
		correlationID, err := s.dispatcher.Call(r.Context(), body.Endpoint, opts...)
		if err != nil {
			s.writeCallError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, DispatchResponse{CorrelationID: correlationID})
		return
	}

	call, err := s.dispatcher.Registry().Call(body.Endpoint, opts...)
	if err != nil {
		s.writeCallError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.waitLimit)
	defer cancel()

	act, err := s.dispatcher.Execute(ctx, call)
	if err != nil {
		if errors.Is(err, domain.ErrNoTerminal) {
			// The invocation timed out and was dropped.
			http.Error(w, err.Error(), http.StatusGatewayTimeout)
			return
		}
		http.Error(w, fmt.Sprintf("dispatch error: %v", err), http.StatusInternalServerError)
		s.logger.Error("dispatch failed", "endpoint", body.Endpoint, "err", err)
		return
	}
	writeJSON(w, http.StatusOK, DispatchResponse{
		CorrelationID: act.CorrelationID(),
		Action:        &act,
	})
}

func (s *Server) writeCallError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrEndpointNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
