// internal/common/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"committee-matcher/internal/common/config"
	"committee-matcher/internal/common/logger"
)

type Server struct {
	http            *http.Server
	logger          logger.Logger
	shutdownTimeout time.Duration
}

func New(cfg config.ServerConfig, handler http.Handler, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Server{
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadTimeout:       config.GetDuration(cfg.ReadTimeout),
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      config.GetDuration(cfg.WriteTimeout),
		},
		logger:          log,
		shutdownTimeout: config.GetDuration(cfg.ShutdownTimeout),
	}
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is cancelled, then drains in-flight requests
// for up to the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", map[string]interface{}{"addr": ln.Addr().String()})
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server", map[string]interface{}{
		"timeoutMs": s.shutdownTimeout.Milliseconds(),
	})

	shutdownCtx := context.Background()
	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, s.shutdownTimeout)
		defer cancel()
	}
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
