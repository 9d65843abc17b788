package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/lightdash/internal/config"
	"github.com/dokzlo13/lightdash/internal/gateway"
)

// RefreshService periodically pulls remote state for every card and applies
// it on the UI loop.
type RefreshService struct {
	cfg     *config.Config
	gateway *GatewayService
	ui      *UIService
}

// NewRefreshService creates a new RefreshService.
func NewRefreshService(cfg *config.Config, gw *GatewayService, ui *UIService) *RefreshService {
	return &RefreshService{cfg: cfg, gateway: gw, ui: ui}
}

// Start begins periodic refresh if it is enabled and the gateway is online.
func (s *RefreshService) Start(ctx context.Context) {
	if !s.cfg.Refresh.Enabled() {
		log.Info().Msg("Periodic refresh is disabled")
		return
	}
	if s.gateway.Dispatcher.Offline() {
		log.Info().Msg("Periodic refresh skipped in display-only mode")
		return
	}

	go s.run(ctx)
}

func (s *RefreshService) run(ctx context.Context) {
	interval := s.cfg.Refresh.Interval.Duration()
	log.Info().Dur("interval", interval).Msg("Starting periodic refresh")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RefreshOnce(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("Refresh failed")
			}
		}
	}
}

// RefreshOnce fetches state off the loop, then applies it on the loop.
func (s *RefreshService) RefreshOnce(ctx context.Context) error {
	ids, err := s.ui.BoundIDs(ctx)
	if err != nil {
		return err
	}

	passCtx, cancel := context.WithTimeout(ctx, s.cfg.Refresh.Timeout.Duration())
	defer cancel()
	snapshots := gateway.FetchStates(passCtx, s.gateway.Gateway, ids, s.cfg.Gateway.Timeout.Duration())

	log.Debug().
		Int("requested", len(ids)).
		Int("fetched", len(snapshots)).
		Msg("Fetched light states")

	return s.ui.Refresh(ctx, snapshots)
}
