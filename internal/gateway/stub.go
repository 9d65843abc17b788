package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/lightdash/internal/light"
)

// Stub is a Home Assistant gateway that logs the service calls it would make
// instead of sending them. It keeps its own copy of remote state so GetState
// reflects every accepted command.
type Stub struct {
	cfg Config

	mu          sync.Mutex
	initialized bool
	remote      map[string]light.Entity
}

var _ Gateway = (*Stub)(nil)

// NewStub creates a stub gateway whose remote side starts with seed.
func NewStub(cfg Config, seed []light.Entity) *Stub {
	remote := make(map[string]light.Entity, len(seed))
	for _, e := range seed {
		remote[e.EntityID] = e
	}
	return &Stub{
		cfg:    cfg.Normalized(),
		remote: remote,
	}
}

// Initialize validates the connection parameters.
func (s *Stub) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.cfg.BaseURL == "" || s.cfg.Token == "" {
		return fmt.Errorf("%w: base url and token are required", ErrAuth)
	}

	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()

	log.Info().Str("url", s.cfg.BaseURL).Msg("Home Assistant API initialized")
	return nil
}

// GetState returns the last known remote state of an entity.
func (s *Stub) GetState(ctx context.Context, entityID string) (light.Entity, error) {
	if err := ctx.Err(); err != nil {
		return light.Entity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return light.Entity{}, ErrNotInitialized
	}

	log.Debug().
		Str("entity_id", entityID).
		Str("url", s.cfg.BaseURL+StatePath(entityID)).
		Msg("Getting light state")

	e, ok := s.remote[entityID]
	if !ok {
		return light.Entity{}, fmt.Errorf("%w: %s", ErrNotFound, entityID)
	}
	return e, nil
}

// SetState pushes a full entity.
func (s *Stub) SetState(ctx context.Context, entityID string, e light.Entity) error {
	e.EntityID = entityID
	cmd := State(e)
	return s.issue(ctx, cmd)
}

// SetPower turns a light on or off.
func (s *Stub) SetPower(ctx context.Context, entityID string, on bool) error {
	return s.issue(ctx, Power(entityID, on))
}

// SetBrightness sets brightness on the 0-255 scale.
func (s *Stub) SetBrightness(ctx context.Context, entityID string, brightness uint8) error {
	return s.issue(ctx, Brightness(entityID, brightness))
}

// SetColor sets an RGB colour.
func (s *Stub) SetColor(ctx context.Context, entityID string, r, g, b uint8) error {
	return s.issue(ctx, Color(entityID, light.RGB{R: r, G: g, B: b}))
}

// SetColorTemp sets colour temperature in Kelvin.
func (s *Stub) SetColorTemp(ctx context.Context, entityID string, kelvin int) error {
	return s.issue(ctx, ColorTemp(entityID, kelvin))
}

func (s *Stub) issue(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cmd.EntityID == "" {
		return fmt.Errorf("%s: empty entity id", cmd.Op)
	}

	call, err := ServiceFor(cmd)
	if err != nil {
		return err
	}
	body, err := call.Body()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}

	log.Info().
		Str("entity_id", cmd.EntityID).
		Str("op", string(cmd.Op)).
		Str("url", s.cfg.BaseURL+call.Path()).
		RawJSON("body", body).
		Msg("Calling light service")

	if e, ok := s.remote[cmd.EntityID]; ok {
		cmd.applyTo(&e)
		s.remote[cmd.EntityID] = e
	}
	return nil
}
