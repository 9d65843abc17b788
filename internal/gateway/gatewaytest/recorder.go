// Package gatewaytest provides a recording gateway for tests.
package gatewaytest

import (
	"context"
	"sync"

	"github.com/dokzlo13/lightdash/internal/gateway"
	"github.com/dokzlo13/lightdash/internal/light"
)

// Recorder records every command it receives, either as a gateway.Gateway
// or as a gateway.Sink. Errors can be injected per op.
type Recorder struct {
	mu       sync.Mutex
	commands []gateway.Command
	errs     map[gateway.Op]error
	states   map[string]light.Entity

	// Block, when non-nil, is received from before every gateway call returns.
	Block chan struct{}
	// InitErr is returned by Initialize.
	InitErr error
}

var (
	_ gateway.Gateway = (*Recorder)(nil)
	_ gateway.Sink    = (*Recorder)(nil)
)

// New creates an empty recorder.
func New() *Recorder {
	return &Recorder{
		errs:   make(map[gateway.Op]error),
		states: make(map[string]light.Entity),
	}
}

// FailOp makes every later command with op return err.
func (r *Recorder) FailOp(op gateway.Op, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[op] = err
}

// SetRemote sets the state GetState returns for e.EntityID.
func (r *Recorder) SetRemote(e light.Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[e.EntityID] = e
}

// Commands returns a copy of the recorded commands.
func (r *Recorder) Commands() []gateway.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]gateway.Command(nil), r.commands...)
}

// Reset forgets recorded commands.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = nil
}

// Submit implements gateway.Sink.
func (r *Recorder) Submit(cmd gateway.Command) error {
	return r.record(cmd)
}

func (r *Recorder) record(cmd gateway.Command) error {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	err := r.errs[cmd.Op]
	r.mu.Unlock()
	return err
}

func (r *Recorder) call(ctx context.Context, cmd gateway.Command) error {
	if r.Block != nil {
		select {
		case <-r.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return r.record(cmd)
}

func (r *Recorder) Initialize(ctx context.Context) error {
	return r.InitErr
}

func (r *Recorder) GetState(ctx context.Context, entityID string) (light.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.states[entityID]
	if !ok {
		return light.Entity{}, gateway.ErrNotFound
	}
	return e, nil
}

func (r *Recorder) SetState(ctx context.Context, entityID string, e light.Entity) error {
	return r.call(ctx, gateway.State(e))
}

func (r *Recorder) SetPower(ctx context.Context, entityID string, on bool) error {
	return r.call(ctx, gateway.Power(entityID, on))
}

func (r *Recorder) SetBrightness(ctx context.Context, entityID string, brightness uint8) error {
	return r.call(ctx, gateway.Brightness(entityID, brightness))
}

func (r *Recorder) SetColor(ctx context.Context, entityID string, red, green, blue uint8) error {
	return r.call(ctx, gateway.Color(entityID, light.RGB{R: red, G: green, B: blue}))
}

func (r *Recorder) SetColorTemp(ctx context.Context, entityID string, kelvin int) error {
	return r.call(ctx, gateway.ColorTemp(entityID, kelvin))
}
