// Package api serves crossing detection over HTTP.
//
// The server wraps a [pipeline.Runner] and an optional [store.Store]:
//
//	GET    /healthz            liveness and build information
//	POST   /v1/crossings       detect crossings, optionally saving a report
//	POST   /v1/metrics         count, density, angular resolution and angles
//	POST   /v1/planarize       replace crossings with crossing nodes
//	POST   /v1/render          draw the drawing with crossings highlighted
//	GET    /v1/reports         list saved reports
//	GET    /v1/reports/{id}    fetch a saved report
//	DELETE /v1/reports/{id}    delete a saved report
//
// Requests carry the drawing in the JSON serialization of package graph and
// the options in the JSON form of [pipeline.Options]. Failures are answered
// with {"code": ..., "message": ...}; the HTTP status follows the error code.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gdcross/pkg/observability"
	"github.com/matzehuels/gdcross/pkg/pipeline"
	"github.com/matzehuels/gdcross/pkg/store"
)

const (
	// DefaultTimeout bounds the handling time of one request.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodyBytes bounds the size of a request body.
	DefaultMaxBodyBytes = 10 << 20
)

// Config tunes the server.
type Config struct {
	Timeout      time.Duration
	MaxBodyBytes int64
}

// Server is the HTTP front end of the pipeline.
type Server struct {
	runner  *pipeline.Runner
	store   store.Store // nil disables report persistence
	logger  *log.Logger
	timeout time.Duration
	maxBody int64
}

// New creates a server. st may be nil; the report endpoints then answer
// with UNSUPPORTED.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, cfg Config) *Server {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:  runner,
		store:   st,
		logger:  logger,
		timeout: cfg.Timeout,
		maxBody: cfg.MaxBodyBytes,
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/crossings", s.handleCrossings)
		r.Post("/metrics", s.handleMetrics)
		r.Post("/planarize", s.handlePlanarize)
		r.Post("/render", s.handleRender)
		r.Route("/reports", func(r chi.Router) {
			r.Get("/", s.handleListReports)
			r.Get("/{id}", s.handleGetReport)
			r.Delete("/{id}", s.handleDeleteReport)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// observe reports every request to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// HTTPServer returns an http.Server for addr using [Server.Handler].
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
