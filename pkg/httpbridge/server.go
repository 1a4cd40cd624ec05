// Package httpbridge serves the blog over HTTP: the server-rendered web UI,
// its websocket state push and the JSON posts API.
package httpbridge

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xeipuuv/gojsonschema"

	"github.com/soypete/pedroblog/pkg/ui"
)

//go:embed templates/*.html static/*
var assets embed.FS

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	// Author is the label shown on every post.
	Author string
	Logger *slog.Logger
}

// Server represents the HTTP server
type Server struct {
	controller *ui.Controller
	service    ui.PostService
	author     string
	logger     *slog.Logger
	templates  *template.Template
	postSchema *gojsonschema.Schema
	router     chi.Router
}

// NewServer wires the web UI to controller and the JSON API to service.
// Both normally share the same PostService.
func NewServer(controller *ui.Controller, service ui.PostService, opts Options) (*Server, error) {
	if controller == nil || service == nil {
		return nil, errors.New("httpbridge: controller and service are required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templates, err := template.ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	postSchema, err := compilePostSchema()
	if err != nil {
		return nil, err
	}

	s := &Server{
		controller: controller,
		service:    service,
		author:     opts.Author,
		logger:     logger.With(slog.String("component", "httpbridge")),
		templates:  templates,
		postSchema: postSchema,
	}
	s.setupRoutes()

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(s.logger))
	r.Use(MetricsMiddleware())

	static, _ := fs.Sub(assets, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// Web UI
	r.Get("/", s.handleIndex)
	r.Post("/toggle", s.handleToggle)
	r.Post("/draft", s.handleDraft)
	r.Post("/submit", s.handleSubmit)
	r.Get("/ws", s.handleWebSocket)

	// API
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/posts", s.handleListPosts)
		r.Post("/posts", s.handleCreatePost)
	})

	r.Handle("/metrics", promhttp.Handler())

	s.router = r
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	// Let submissions that were already accepted reach storage
	s.controller.Wait()
	s.logger.Info("HTTP server stopped")
	return nil
}
