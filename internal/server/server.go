// Package server exposes the documentation pipeline over HTTP.
//
// Clients POST a shader library (JSON by default, YAML or TOML via the
// format query parameter or Content-Type) and receive the text report or the
// node-link diagram of one material:
//
//	POST /v1/document?material=Wood          text/plain report
//	POST /v1/graph?material=Wood&format=svg  SVG or DOT diagram
//	POST /v1/materials                       JSON material listing
//	GET  /healthz                            liveness and build version
//	GET  /metrics                            Prometheus exposition
//
// Errors are JSON objects {"error": CODE, "message": text} with the status
// chosen by [StatusFor].
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/shaderdoc/pkg/pipeline"
)

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = ":8090"

// DefaultMaxBodyBytes bounds the size of an uploaded library.
const DefaultMaxBodyBytes = 8 << 20

// Config controls the HTTP server.
type Config struct {
	Addr         string
	MaxBodyBytes int64
	// Gatherer backs /metrics. Nil uses the default Prometheus registry.
	Gatherer prometheus.Gatherer
}

// Server serves the pipeline over HTTP.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
	router  chi.Router
	http    *http.Server
}

// New creates a server that renders with runner.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{runner: runner, logger: logger, maxBody: cfg.MaxBodyBytes}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Inline so the route pattern is resolved when instrument runs.
	in := r.With(s.instrument)
	in.Get("/healthz", s.handleHealth)
	in.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	in.Post("/v1/document", s.handleDocument)
	in.Post("/v1/graph", s.handleGraph)
	in.Post("/v1/materials", s.handleMaterials)
	s.router = r

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.http.Addr }

// Start runs the HTTP server until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("server stopping")
	return s.http.Shutdown(ctx)
}
