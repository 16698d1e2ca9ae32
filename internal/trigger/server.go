package trigger

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/agentic-research/microcopy/internal/writeback"
)

// ServerConfig configures a Server.
type ServerConfig struct {
	// Address is the TCP listen address (e.g. ":7071"). Required.
	Address string
	// Handler serves every request, usually Routes. Required.
	Handler http.Handler
	// Dispatcher is drained on shutdown so in-flight write-backs finish.
	Dispatcher *writeback.Dispatcher
	// ShutdownTimeout bounds how long in-flight requests may run after
	// shutdown begins. Defaults to 10 seconds.
	ShutdownTimeout time.Duration
	// WriteTimeout bounds a single response. Defaults to 90 seconds.
	WriteTimeout time.Duration
	// Logger is used for structured logging. If nil, logging is disabled.
	Logger *zap.Logger
}

// Server serves the trigger until its context is cancelled.
type Server struct {
	config ServerConfig
	logger *zap.Logger
	ready  chan struct{}
	addr   net.Addr
}

// NewServer creates a server. Call Serve to start accepting connections.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Address == "" {
		return nil, errors.New("trigger: address is required")
	}
	if config.Handler == nil {
		return nil, errors.New("trigger: handler is required")
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 90 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{config: config, logger: logger, ready: make(chan struct{})}, nil
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address. Only valid after Ready is closed.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Serve blocks until ctx is cancelled, then stops accepting connections,
// waits for in-flight requests and finally for pending write-backs.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.Address, err)
	}
	s.addr = listener.Addr()
	close(s.ready)

	server := &http.Server{
		Handler:           s.config.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("http server listening", zap.String("address", s.addr.String()))

	serveDone := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("http server shutting down")
	case err := <-serveDone:
		if err != nil {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	shutdownErr := server.Shutdown(shutdownCtx)
	if s.config.Dispatcher != nil {
		s.logger.Info("waiting for pending write-backs")
		s.config.Dispatcher.Wait()
	}
	if shutdownErr != nil {
		s.logger.Error("http server shutdown error", zap.Error(shutdownErr))
		return fmt.Errorf("http server shutdown: %w", shutdownErr)
	}

	s.logger.Info("http server stopped")
	return nil
}
