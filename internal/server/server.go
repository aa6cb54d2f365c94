// Package server exposes the path-discovery engine over HTTP.
//
// The API is a thin hosting layer: datasets are uploaded as node-link JSON
// and addressed by ID, and route queries preserve the engine's semantics -
// an empty route list is a successful response, not an error.
//
// # Endpoints
//
//	POST   /v1/graphs                      upload a dataset, returns its ID
//	GET    /v1/graphs                      list datasets
//	GET    /v1/graphs/{id}                 dataset metadata
//	DELETE /v1/graphs/{id}                 remove a dataset
//	GET    /v1/graphs/{id}/routes          ?source=&target=&max=&refresh=
//	GET    /v1/graphs/{id}/shortest        ?source=&target=
//	GET    /healthz                        liveness + store probe
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pathscout/pathscout/internal/config"
)

// Server wraps the HTTP listener lifecycle.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	shutdown   time.Duration
}

// New constructs a Server from configuration and a handler.
func New(cfg config.Config, handler http.Handler, logger *log.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadTimeout:       cfg.Server.ReadTimeout.Duration,
			WriteTimeout:      cfg.Server.WriteTimeout.Duration,
			IdleTimeout:       cfg.Server.IdleTimeout.Duration,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger:   logger,
		shutdown: cfg.Server.ShutdownTimeout.Duration,
	}
}

// Run starts the listener and blocks until ctx is cancelled, then shuts
// down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
