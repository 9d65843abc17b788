package app

import (
	"context"
	"os"

	"github.com/dokzlo13/lightdash/internal/config"
	"github.com/dokzlo13/lightdash/internal/script"
)

// ScriptService runs the configured Lua interaction script on the UI loop.
type ScriptService struct {
	cfg     *config.Config
	ui      *UIService
	Runtime *script.Runtime
}

// NewScriptService creates a new ScriptService.
func NewScriptService(cfg *config.Config, ui *UIService) *ScriptService {
	return &ScriptService{
		cfg:     cfg,
		ui:      ui,
		Runtime: script.NewRuntime(ui.Dashboard, ui.Toolkit),
	}
}

// Run executes the script, if one is configured. The Lua state is only ever
// touched from the loop.
func (s *ScriptService) Run(ctx context.Context) error {
	if s.cfg.Script == "" {
		return nil
	}
	if _, err := os.Stat(s.cfg.Script); err != nil {
		return err
	}

	return s.ui.Loop.DoSyncWithResult(ctx, func(workCtx context.Context) error {
		return s.Runtime.RunFile(workCtx, s.cfg.Script)
	})
}

// Close closes the Lua runtime. Call after the loop has stopped.
func (s *ScriptService) Close() {
	if s.Runtime != nil {
		s.Runtime.Close()
	}
}
