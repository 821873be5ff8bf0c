// Package api exposes the speaking-test orchestrator over HTTP.
//
// It provides RESTful endpoints for starting sessions, submitting candidate
// turns, advancing test parts, and retrieving the final assessment. Every
// response uses the models.APIResponse envelope; transient failures are
// reported with the retry status so clients know resubmitting the same turn
// is safe.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/WWPCA/ieltsprep/internal/conversation"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// DefaultRequestTimeout bounds a single request end to end, including the
// provider call and its one fallback.
const DefaultRequestTimeout = 60 * time.Second

// Opts holds configuration options for the API server.
type Opts struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// RequestTimeout overrides DefaultRequestTimeout when positive.
	RequestTimeout time.Duration
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr sets the server listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithRequestTimeout sets the per-request timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *Opts) { o.RequestTimeout = d }
}

// Server wires HTTP routes to the conversation orchestrator.
type Server struct {
	orch       *conversation.Orchestrator
	addr       string
	reqTimeout time.Duration
	httpServer *http.Server
}

// NewServer creates an API server over the given orchestrator.
func NewServer(orch *conversation.Orchestrator, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	slog.Debug("api.NewServer: creating server", "addr", cfg.Addr, "requestTimeout", cfg.RequestTimeout)
	return &Server{orch: orch, addr: cfg.Addr, reqTimeout: cfg.RequestTimeout}
}

// Handler builds the route table. Exposed separately from Run so tests can
// drive the server through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", s.createSessionHandler)
	mux.HandleFunc("POST /sessions/{id}/turns", s.turnHandler)
	mux.HandleFunc("POST /sessions/{id}/transition", s.transitionHandler)
	mux.HandleFunc("POST /sessions/{id}/finalize", s.finalizeHandler)
	mux.HandleFunc("GET /health", s.healthHandler)
	return mux
}

// Run starts the HTTP server and blocks until it exits.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.reqTimeout,
		WriteTimeout: s.reqTimeout,
	}
	slog.Info("Server.Run: API server listening", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	slog.Info("Server.Shutdown: stopping API server")
	return s.httpServer.Shutdown(ctx)
}
