package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"golang.org/x/net/netutil"
)

// Server runs the HTTP API until its context is cancelled.
type Server struct {
	cfg     *Config
	version string
	handler http.Handler
	logger  *slog.Logger
	out     io.Writer
}

// New creates a new Server. out receives the startup banner and may be nil.
func New(cfg *Config, version string, handler http.Handler, logger *slog.Logger, out io.Writer) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if out == nil {
		out = io.Discard
	}
	return &Server{
		cfg:     cfg,
		version: version,
		handler: handler,
		logger:  logger,
		out:     out,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully within
// the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConnections)
	}

	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	s.printStartupInfo(ln.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if s.cfg.TLSEnabled() {
			errChan <- srv.ServeTLS(ln, s.cfg.TLSCert, s.cfg.TLSKey)
		} else {
			errChan <- srv.Serve(ln)
		}
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down", "reason", context.Cause(ctx))
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.logger.Info("server stopped gracefully")
	return nil
}

// printStartupInfo prints server startup information.
func (s *Server) printStartupInfo(addr string) {
	scheme := "http"
	if s.cfg.TLSEnabled() {
		scheme = "https"
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "qsign API Server")
	fmt.Fprintln(s.out, "================")
	fmt.Fprintf(s.out, "  Version:  %s\n", s.version)
	fmt.Fprintf(s.out, "  Address:  %s://%s\n", scheme, addr)
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Endpoints:")
	fmt.Fprintln(s.out, "  GET  /health              - Health check")
	fmt.Fprintln(s.out, "  GET  /ready               - Readiness check")
	fmt.Fprintln(s.out, "  GET  /metrics             - Prometheus metrics")
	fmt.Fprintln(s.out, "  POST /api/v1/keys/generate")
	fmt.Fprintln(s.out, "  POST /api/v1/keys/info")
	fmt.Fprintln(s.out, "  POST /api/v1/sign")
	fmt.Fprintln(s.out, "  POST /api/v1/verify")
	fmt.Fprintln(s.out, "  POST /api/v1/digest")
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Use Ctrl+C to stop")
	fmt.Fprintln(s.out)
}
