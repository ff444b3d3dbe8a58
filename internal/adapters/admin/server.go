// Package admin serves the operational HTTP endpoints: health and metrics.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// QueueStats is the read-only view of the delivery queue shown on /healthz.
type QueueStats interface {
	ActiveSenders() int
}

type healthResponse struct {
	Status        string `json:"status"`
	ActiveSenders int    `json:"active_senders"`
	Uptime        string `json:"uptime"`
}

// Server is the admin HTTP server.
type Server struct {
	port    int
	stats   QueueStats
	started time.Time
	log     zerolog.Logger
}

// NewServer creates the admin server. It does not listen until Start.
func NewServer(port int, stats QueueStats, baseLogger *zerolog.Logger) *Server {
	return &Server{
		port:    port,
		stats:   stats,
		started: time.Now(),
		log:     baseLogger.With().Str("component", "admin_server").Logger(),
	}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", httpServer.Addr).Msg("Admin HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("admin server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error().Err(err).Msg("Admin HTTP server shutdown error")
		return err
	}
	s.log.Info().Msg("Admin HTTP server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status: "ok",
		Uptime: time.Since(s.started).Truncate(time.Second).String(),
	}
	if s.stats != nil {
		resp.ActiveSenders = s.stats.ActiveSenders()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Warn().Err(err).Msg("Failed to write health response")
	}
}
