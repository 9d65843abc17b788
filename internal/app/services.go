package app

import (
	"context"
	"io"

	"github.com/dokzlo13/lightdash/internal/config"
	"github.com/dokzlo13/lightdash/internal/gateway"
)

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	Gateway *GatewayService
	UI      *UIService
	Script  *ScriptService
	Refresh *RefreshService
	Health  *HealthService
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config) *Services {
	s := &Services{cfg: cfg}

	// Results only arrive after a submit, and submits only come from the UI
	s.Gateway = NewGatewayService(cfg, func(r gateway.Result) { s.UI.OnCommandResult(r) })
	s.wire()
	return s
}

// newServicesWithGateway is NewServices with a caller-supplied gateway.
func newServicesWithGateway(cfg *config.Config, gw gateway.Gateway) *Services {
	s := &Services{cfg: cfg}
	s.Gateway = newGatewayService(cfg, gw, func(r gateway.Result) { s.UI.OnCommandResult(r) })
	s.wire()
	return s
}

func (s *Services) wire() {
	s.UI = NewUIService(s.cfg, s.Gateway.Dispatcher)
	s.Script = NewScriptService(s.cfg, s.UI)
	s.Refresh = NewRefreshService(s.cfg, s.Gateway, s.UI)
	s.Health = NewHealthService(s.cfg, s.Gateway, s.UI)
}

// StartCore initializes the gateway, renders the dashboard and runs the
// interaction script.
func (s *Services) StartCore(ctx context.Context) error {
	s.Gateway.Start(ctx)

	if err := s.UI.Start(ctx); err != nil {
		return err
	}

	return s.Script.Run(ctx)
}

// Start starts all services in the correct order.
func (s *Services) Start(ctx context.Context) error {
	if err := s.StartCore(ctx); err != nil {
		return err
	}

	// Start all background services
	s.Refresh.Start(ctx)
	s.Health.Start(ctx)

	return nil
}

// Dump writes the widget tree to w.
func (s *Services) Dump(ctx context.Context, w io.Writer) error {
	return s.UI.Dump(ctx, w)
}

// Stop gracefully stops all services.
func (s *Services) Stop() error {
	s.Close()
	return nil
}

// Close releases all resources. Queued commands drain first so their results
// still reach the loop.
func (s *Services) Close() {
	if s.Gateway != nil {
		s.Gateway.Close()
	}
	if s.UI != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout.Duration())
		defer cancel()
		s.UI.Close(ctx)
	}
	if s.Script != nil {
		s.Script.Close()
	}
}
