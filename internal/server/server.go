package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sozercan/log-doctor/internal/analyzer"
	"github.com/sozercan/log-doctor/internal/config"
	"github.com/sozercan/log-doctor/internal/logging"
)

const (
	// shutdownGrace is added on top of llm.timeout so an analysis started just
	// before the signal can still be answered.
	shutdownGrace = 5 * time.Second

	// Used when no llm.timeout is configured.
	defaultShutdownTimeout = 30 * time.Second
)

type Server struct {
	cfg      config.Config
	server   *http.Server
	router   *chi.Mux
	analyzer *analyzer.Analyzer
	pages    *pages
	logger   *slog.Logger
}

func New(cfg config.Config, analyzer *analyzer.Analyzer) *Server {
	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		analyzer: analyzer,
		pages:    mustLoadPages(),
		logger:   logging.New("server"),
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.requestTimeout()))

	s.router.Get("/", s.handleIndex)
	s.router.Post("/", s.handleFormAnalyze)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/health", s.handleHealth)
	})

	s.router.Handle("/metrics", promhttp.Handler())
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestTimeout bounds a whole request. It follows server.write_timeout so the
// handler gives up before the connection is cut, and falls back to llm.timeout
// plus a grace period when no write timeout is set.
func (s *Server) requestTimeout() time.Duration {
	if s.cfg.Server.WriteTimeout > 0 {
		return s.cfg.Server.WriteTimeout
	}
	return s.shutdownTimeout()
}

// shutdownTimeout is how long in-flight analyses may run after a stop signal.
func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.LLM.Timeout <= 0 {
		return defaultShutdownTimeout
	}
	return s.cfg.LLM.Timeout + shutdownGrace
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info("HTTP request completed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then drains
// in-flight analyses for at most shutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "address", s.server.Addr, "provider", s.analyzer.Provider().Name())
		serverErrors <- s.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	timeout := s.shutdownTimeout()
	s.logger.Info("Starting shutdown", "cause", context.Cause(ctx), "timeout", timeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	if err := <-serverErrors; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
