package app

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/lightdash/internal/config"
)

// HealthService provides HTTP health check endpoints.
type HealthService struct {
	cfg     *config.Config
	gateway *GatewayService
	ui      *UIService
	server  *http.Server
}

// NewHealthService creates a new HealthService.
func NewHealthService(cfg *config.Config, gw *GatewayService, ui *UIService) *HealthService {
	return &HealthService{
		cfg:     cfg,
		gateway: gw,
		ui:      ui,
	}
}

// Start begins the health check server if enabled.
func (s *HealthService) Start(ctx context.Context) {
	if !s.cfg.Healthcheck.Enabled {
		return
	}

	go s.run(ctx)
}

// Handler returns the health check routes.
func (s *HealthService) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Ready once the loop answers; display-only mode is still ready
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := s.ui.Report(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"not ready"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready","mode":"` + s.gateway.Mode() + `"}`))
	})

	// Dashboard summary
	mux.HandleFunc("/cards", func(w http.ResponseWriter, r *http.Request) {
		snap, err := s.ui.Snapshot(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		snap.Mode = s.gateway.Mode()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			log.Warn().Err(err).Msg("Failed to write cards response")
		}
	})

	return mux
}

func (s *HealthService) run(ctx context.Context) {
	addr := s.cfg.Healthcheck.Addr()

	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	log.Info().Str("addr", addr).Msg("Starting health check server")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout.Duration())
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Health check server shutdown error")
		}
	}()

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("Health check server error")
	}
}
