package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/lightdash/internal/config"
	"github.com/dokzlo13/lightdash/internal/gateway"
	"github.com/dokzlo13/lightdash/internal/light"
)

// GatewayService wraps the Home Assistant gateway and the command dispatcher
// in front of it.
type GatewayService struct {
	cfg *config.Config

	Gateway    gateway.Gateway
	Dispatcher *gateway.Dispatcher
}

// NewGatewayService creates the gateway and starts the dispatcher workers.
// onResult receives every command outcome from a worker goroutine.
func NewGatewayService(cfg *config.Config, onResult func(gateway.Result)) *GatewayService {
	// The stub's remote side starts out agreeing with the configured lights
	entities, _ := cfg.Entities()
	seed := make([]light.Entity, 0, len(entities))
	for _, e := range entities {
		if e != nil {
			seed = append(seed, *e)
		}
	}

	gw := gateway.NewStub(cfg.Gateway.Connection(), seed)
	return newGatewayService(cfg, gw, onResult)
}

func newGatewayService(cfg *config.Config, gw gateway.Gateway, onResult func(gateway.Result)) *GatewayService {
	return &GatewayService{
		cfg:        cfg,
		Gateway:    gw,
		Dispatcher: gateway.NewDispatcher(gw, cfg.Gateway.Dispatcher(), onResult),
	}
}

// Start initializes the gateway. A failure is not fatal: the dispatcher goes
// offline and the dashboard keeps running in display-only mode.
func (s *GatewayService) Start(ctx context.Context) {
	initCtx, cancel := context.WithTimeout(ctx, s.cfg.Gateway.Timeout.Duration())
	defer cancel()

	err := gateway.CallWithTimeout(initCtx, s.Gateway.Initialize)
	if err != nil {
		s.Dispatcher.SetOffline(err)
		return
	}
	log.Info().Msg("Gateway ready")
}

// Mode returns "online" or "display-only".
func (s *GatewayService) Mode() string {
	if s.Dispatcher.Offline() {
		return "display-only"
	}
	return "online"
}

// Close drains queued commands within the shutdown timeout.
func (s *GatewayService) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout.Duration())
	defer cancel()
	s.Dispatcher.Close(ctx)
}
