// Package server provides the HTTP API for ledgerd
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/parkside-eng/ledgerd/internal/common"
	"github.com/parkside-eng/ledgerd/internal/interfaces"
)

// Server hosts the ledgerd HTTP API.
type Server struct {
	config  *common.Config
	logger  *common.Logger
	ledger  interfaces.LedgerService
	httpSrv *http.Server
}

// NewServer creates an HTTP server wired to the ledger service.
func NewServer(config *common.Config, logger *common.Logger, ledger interfaces.LedgerService) *Server {
	s := &Server{
		config: config,
		logger: logger,
		ledger: ledger,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      applyMiddleware(mux, logger, config),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.httpSrv.Addr
}

// Start begins serving HTTP requests. Blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpSrv.Addr).Msg("HTTP server starting")
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("HTTP server shutting down")
	return s.httpSrv.Shutdown(ctx)
}
