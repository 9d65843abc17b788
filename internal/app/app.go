package app

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/lightdash/internal/config"
)

// App is the main application container that manages all services and their lifecycle.
type App struct {
	cfg      *config.Config
	services *Services
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a new App instance with all services initialized but not started.
func New(cfg *config.Config) *App {
	return &App{
		cfg:      cfg,
		services: NewServices(cfg),
	}
}

// Start initializes and starts all services.
// The provided context is used for cancellation.
func (a *App) Start(ctx context.Context) error {
	a.ctx, a.cancel = context.WithCancel(ctx)

	if err := a.services.Start(a.ctx); err != nil {
		return err
	}

	log.Info().Str("mode", a.services.Gateway.Mode()).Msg("Light dashboard started")
	return nil
}

// Once renders the dashboard, runs the script, writes the widget tree to w
// and returns. Periodic refresh and the health server are not started.
func (a *App) Once(ctx context.Context, w io.Writer) error {
	a.ctx, a.cancel = context.WithCancel(ctx)

	if err := a.services.StartCore(a.ctx); err != nil {
		return err
	}

	report, err := a.services.UI.Report(a.ctx)
	if err != nil {
		return err
	}
	log.Info().
		Int("rendered", report.Succeeded).
		Int("failed", report.Failed).
		Str("mode", a.services.Gateway.Mode()).
		Msg("Dashboard ready")

	return a.services.Dump(a.ctx, w)
}

// Stop gracefully shuts down all services.
func (a *App) Stop() error {
	log.Info().Msg("Shutting down...")

	if a.services != nil {
		if err := a.services.Stop(); err != nil {
			return err
		}
	}

	if a.cancel != nil {
		a.cancel()
	}

	return nil
}

// Wait blocks until the application context is cancelled.
func (a *App) Wait() {
	if a.ctx != nil {
		<-a.ctx.Done()
	}
}

// SignalContext creates a context that is cancelled when SIGINT or SIGTERM is received.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	return ctx
}
