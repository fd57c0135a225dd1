// Package httpserver runs the API server with graceful shutdown.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appcfg "github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/config"
	apperrors "github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/errors"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/server/handlers"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/server/middleware"
)

// Server hosts the chat API, health and metrics endpoints on one listener.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
	addr   string
}

// New builds the server around the given handler set. registry may be nil,
// in which case /metrics is not exposed.
func New(cfg appcfg.ServerConfig, h *handlers.Handlers, registry *prom.Registry, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	adapter := apperrors.NewHTTPErrorAdapter(logger)
	wrapped := middleware.Chain(logger, adapter)(mux)

	return &Server{
		srv: &http.Server{
			Addr:         cfg.Addr,
			Handler:      wrapped,
			ReadTimeout:  cfg.ReadTimeoutDuration(),
			WriteTimeout: cfg.WriteTimeoutDuration(),
		},
		logger: logger,
	}
}

// Start binds the listener and serves until Stop is called. Binding happens
// here rather than in the serve goroutine so startup failures surface as a
// return value instead of a background log line.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.srv.Addr, err)
	}

	s.addr = ln.Addr().String()

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	s.logger.Info("HTTP server started", slog.String("addr", s.addr))
	return nil
}

// Addr returns the bound listen address once Start has succeeded.
func (s *Server) Addr() string {
	return s.addr
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
