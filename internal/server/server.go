// Package server exposes the dashboard over HTTP with a chi router.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/KaramelBytes/sheetloom/internal/charts"
	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

// Config holds the server settings and the page defaults.
type Config struct {
	Addr        string
	Schema      workbook.Schema
	Charts      charts.Options
	PreviewRows int
	// MaxUploadBytes caps the multipart body of POST /upload.
	MaxUploadBytes int64
}

// Server serves the dashboard for the sample workbook and uploaded ones.
type Server struct {
	cfg    Config
	cache  *workbook.Cache
	sample *workbook.Workbook
	log    *zap.Logger
	router chi.Router
}

// New wires the routes. A nil cache gets a fresh one; a nil logger is a no-op.
func New(cfg Config, cache *workbook.Cache, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cache == nil {
		cache = workbook.NewCache(log)
	}
	if cfg.Schema.ID == "" {
		cfg.Schema = workbook.English
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	s := &Server{
		cfg:    cfg,
		cache:  cache,
		sample: workbook.Sample(cfg.Schema),
		log:    log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleDashboard)
	r.Post("/upload", s.handleUpload)
	r.Get("/charts/{kind}.svg", s.handleChart)
	r.Get("/api/metrics", s.handleMetrics)
	r.Get("/healthz", s.handleHealth)
	s.router = r
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully,
// giving in-flight requests up to grace to finish.
func (s *Server) ListenAndServe(ctx context.Context, grace time.Duration) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln, grace)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, grace time.Duration) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", ln.Addr().String()))
		errc <- srv.Serve(ln)
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	s.log.Info("shutting down", zap.Duration("grace", grace))
	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
