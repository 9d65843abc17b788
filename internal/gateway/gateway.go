// Package gateway defines the command gateway used to reach the remote light
// service, along with the fire-and-forget dispatcher the dashboard uses to
// issue commands without blocking the UI loop.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dokzlo13/lightdash/internal/light"
)

var (
	// ErrAuth is returned by Initialize when the credentials are rejected.
	ErrAuth = errors.New("gateway authentication failed")
	// ErrNotFound is returned by GetState for entities the remote does not know.
	ErrNotFound = errors.New("remote entity not found")
	// ErrNotInitialized is returned by every operation before Initialize succeeds.
	ErrNotInitialized = errors.New("gateway not initialized")
	// ErrOffline is returned for commands issued in display-only mode.
	ErrOffline = errors.New("gateway offline, display-only mode")
	// ErrQueueFull is returned when the dispatcher cannot accept more work.
	ErrQueueFull = errors.New("command queue full")
	// ErrClosed is returned for commands submitted after the dispatcher closed.
	ErrClosed = errors.New("dispatcher closed")
	// ErrTimeout is returned when a gateway call does not finish in time.
	ErrTimeout = errors.New("gateway call timed out")
	// ErrUnsupported is returned for commands the entity's domain cannot carry.
	ErrUnsupported = errors.New("command not supported by entity domain")
)

// Config holds the connection parameters of a gateway. Both values are
// opaque to the dashboard.
type Config struct {
	BaseURL string
	Token   string
}

// Normalized returns c with surrounding whitespace and a trailing slash removed
// from the base URL.
func (c Config) Normalized() Config {
	c.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")
	c.Token = strings.TrimSpace(c.Token)
	return c
}

// Gateway issues state changes to, and reads state from, the remote service.
// Calls may block; callers on the UI loop must go through a Dispatcher.
type Gateway interface {
	Initialize(ctx context.Context) error
	GetState(ctx context.Context, entityID string) (light.Entity, error)
	SetState(ctx context.Context, entityID string, e light.Entity) error
	SetPower(ctx context.Context, entityID string, on bool) error
	SetBrightness(ctx context.Context, entityID string, brightness uint8) error
	SetColor(ctx context.Context, entityID string, r, g, b uint8) error
	SetColorTemp(ctx context.Context, entityID string, kelvin int) error
}

// Sink accepts commands without blocking. Submit errors are informational:
// the sink has already logged them.
type Sink interface {
	Submit(cmd Command) error
}

// Error is a failed gateway command.
type Error struct {
	Op       Op
	EntityID string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway %s %s: %v", e.Op, e.EntityID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
