// Package server runs the HTTP API with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/shipnotes/shipnotes/internal/config"
)

// Server owns the echo instance and its lifecycle
type Server struct {
	echo         *echo.Echo
	cfg          config.ServerConfig
	metrics      *Metrics
	hub          *Hub
	log          log.FieldLogger
	shutdownOnce sync.Once
	started      chan struct{}
}

// New creates a server. Routes are registered on Echo() before Start.
func New(cfg config.ServerConfig, logger log.FieldLogger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	logger = logger.WithField("component", "server")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	// Change streams stay open; per-write deadlines would cut them off.
	e.Server.WriteTimeout = 0
	if cfg.Pprof {
		pprof.Register(e)
	}

	metrics := NewMetrics()
	return &Server{
		echo:    e,
		cfg:     cfg,
		metrics: metrics,
		hub:     NewHub(0, metrics, logger),
		log:     logger,
		started: make(chan struct{}),
	}
}

// Echo returns the underlying echo instance
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Metrics returns the server metrics
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Hub returns the live change hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Started is closed once the listener is bound
func (s *Server) Started() <-chan struct{} {
	return s.started
}

// Addr returns the bound listener address, or nil before Start
func (s *Server) Addr() net.Addr {
	return s.echo.ListenerAddr()
}

// Start listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	s.echo.Listener = ln
	s.log.WithField("addr", ln.Addr().String()).Info("server starting")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.echo.Start("")
	}()
	close(s.started)

	select {
	case <-ctx.Done():
		s.log.Info("context cancelled, shutting down")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = s.Shutdown(context.Background())
			return fmt.Errorf("server failed: %w", err)
		}
	}

	return s.Shutdown(context.Background())
}

// Shutdown disconnects change-stream clients and drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.hub.Close()

		timeout := s.cfg.ShutdownTimeout
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if shutdownErr := s.echo.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
		}
		s.log.Info("server stopped")
	})
	return err
}
