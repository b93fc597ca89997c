// Package web provides the HTTP front end for the glucose export converter.
//
// A client picks a start date and asks for a report; the server runs the
// report cycle against the export loaded at startup.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/SugarParser/internal/config"
	"github.com/JonMunkholm/SugarParser/internal/core"
	weblog "github.com/JonMunkholm/SugarParser/internal/web/middleware"
)

// Server is the HTTP server for one loaded export.
type Server struct {
	service  *core.Service
	stats    core.LoadStats
	input    string
	output   string
	cfg      config.ServerConfig
	validate *validator.Validate
	router   *chi.Mux
	server   *http.Server
}

// Options describes the export a Server operates on.
type Options struct {
	// Input is the path of the loaded export, reported by /api/dataset.
	Input string
	// Output is the path reports are written to.
	Output string
	// Stats are the load statistics of the export.
	Stats core.LoadStats
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, cfg config.ServerConfig, opts Options) *Server {
	s := &Server{
		service:  service,
		stats:    opts.Stats,
		input:    opts.Input,
		output:   opts.Output,
		cfg:      cfg,
		validate: newValidator(),
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(weblog.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(weblog.APIKeyAuth(s.cfg.APIKeys))

		r.Get("/dataset", s.handleDataset)

		r.Post("/report", s.handleGenerateReport)
		r.Get("/report/preview", s.handlePreviewReport)

		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{reportID}", s.handleGetReport)
	})
}

// Start begins listening for HTTP requests on the configured address.
// It returns http.ErrServerClosed after Shutdown, even when Shutdown ran first.
func (s *Server) Start() error {
	slog.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
