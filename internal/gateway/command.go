package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dokzlo13/lightdash/internal/light"
)

// Op names a gateway command.
type Op string

const (
	OpSetPower      Op = "set_power"
	OpSetBrightness Op = "set_brightness"
	OpSetColor      Op = "set_color"
	OpSetColorTemp  Op = "set_color_temp"
	OpSetState      Op = "set_state"
)

// Command is one outbound state change. Only the fields relevant to Op are set.
type Command struct {
	ID         uuid.UUID
	Op         Op
	EntityID   string
	On         bool
	Brightness uint8
	Color      light.RGB
	Kelvin     int
	State      light.Entity
}

// Power builds a set_power command.
func Power(entityID string, on bool) Command {
	return Command{ID: uuid.New(), Op: OpSetPower, EntityID: entityID, On: on}
}

// Brightness builds a set_brightness command.
func Brightness(entityID string, brightness uint8) Command {
	return Command{ID: uuid.New(), Op: OpSetBrightness, EntityID: entityID, Brightness: brightness}
}

// Color builds a set_color command.
func Color(entityID string, c light.RGB) Command {
	return Command{ID: uuid.New(), Op: OpSetColor, EntityID: entityID, Color: c}
}

// ColorTemp builds a set_color_temp command.
func ColorTemp(entityID string, kelvin int) Command {
	return Command{ID: uuid.New(), Op: OpSetColorTemp, EntityID: entityID, Kelvin: kelvin}
}

// State builds a set_state command carrying a full entity.
func State(e light.Entity) Command {
	return Command{ID: uuid.New(), Op: OpSetState, EntityID: e.EntityID, State: e}
}

// Execute issues the command against gw.
func (c Command) Execute(ctx context.Context, gw Gateway) error {
	switch c.Op {
	case OpSetPower:
		return gw.SetPower(ctx, c.EntityID, c.On)
	case OpSetBrightness:
		return gw.SetBrightness(ctx, c.EntityID, c.Brightness)
	case OpSetColor:
		return gw.SetColor(ctx, c.EntityID, c.Color.R, c.Color.G, c.Color.B)
	case OpSetColorTemp:
		return gw.SetColorTemp(ctx, c.EntityID, c.Kelvin)
	case OpSetState:
		return gw.SetState(ctx, c.EntityID, c.State)
	default:
		return fmt.Errorf("unknown command op %q", c.Op)
	}
}

// applyTo mutates e the way the remote would after accepting the command.
func (c Command) applyTo(e *light.Entity) {
	switch c.Op {
	case OpSetPower:
		e.IsOn = c.On
	case OpSetBrightness:
		e.Brightness = c.Brightness
	case OpSetColor:
		e.Color = c.Color
	case OpSetColorTemp:
		e.ColorTemp = c.Kelvin
	case OpSetState:
		*e = c.State
	}
}

// Result reports the outcome of a dispatched command.
type Result struct {
	Command Command
	Err     error
}
