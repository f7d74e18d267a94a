// Package server exposes validation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sqlidator/sqlidator/pkg/dialect"
	"github.com/sqlidator/sqlidator/pkg/validator"
	"golang.org/x/sync/errgroup"
)

// DefaultShutdownTimeout bounds graceful shutdown when Config leaves it unset.
const DefaultShutdownTimeout = 10 * time.Second

// Server is the HTTP API server.
type Server struct {
	addr            string
	dialect         string
	shutdownTimeout time.Duration
	validator       *validator.Validator
	logger          *slog.Logger
	onListen        func(net.Addr)
}

// Config holds configuration for the HTTP server.
type Config struct {
	Addr            string
	Dialect         string // used when a request names none
	ShutdownTimeout time.Duration
	Validator       *validator.Validator
	Logger          *slog.Logger
	// OnListen, if set, is called with the bound address once the
	// listener is open.
	OnListen func(net.Addr)
}

// New creates a new server instance.
func New(cfg Config) *Server {
	s := &Server{
		addr:            cfg.Addr,
		dialect:         cfg.Dialect,
		shutdownTimeout: cfg.ShutdownTimeout,
		validator:       cfg.Validator,
		logger:          cfg.Logger,
		onListen:        cfg.OnListen,
	}
	if s.dialect == "" {
		s.dialect = dialect.DefaultName
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = DefaultShutdownTimeout
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.validator == nil {
		s.validator = validator.New(validator.WithLogger(s.logger))
	}
	return s
}

// Handler returns the router with all routes and middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		s.requestLogger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.setupRoutes(r)
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.logger.Info("starting API server", "addr", ln.Addr().String())
	if s.onListen != nil {
		s.onListen(ln.Addr())
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// requestLogger logs each request through the server's slog logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
