// Package script runs Lua interaction scripts against the dashboard.
package script

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/lightdash/internal/dashboard"
)

// Runtime owns one Lua state. It has no queue of its own: it shares the
// dashboard's thread and must only be used from work running on the UI loop.
type Runtime struct {
	L *lua.LState
}

// NewRuntime creates a runtime with the panel and log modules preloaded.
func NewRuntime(dash *dashboard.Dashboard, input Input) *Runtime {
	L := lua.NewState()

	L.PreloadModule("log", NewLogModule().Loader)
	L.PreloadModule("panel", NewPanelModule(dash, input).Loader)

	return &Runtime{L: L}
}

// RunFile executes a script file.
func (r *Runtime) RunFile(ctx context.Context, path string) error {
	log.Info().Str("path", path).Msg("Running Lua script")

	r.L.SetContext(ctx)
	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("failed to execute Lua script: %w", err)
	}

	log.Info().Msg("Lua script finished")
	return nil
}

// RunString executes a chunk of Lua source.
func (r *Runtime) RunString(ctx context.Context, src string) error {
	r.L.SetContext(ctx)
	if err := r.L.DoString(src); err != nil {
		return fmt.Errorf("failed to execute Lua chunk: %w", err)
	}
	return nil
}

// Close closes the Lua state.
func (r *Runtime) Close() {
	r.L.Close()
}
