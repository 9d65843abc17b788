// Package ui defines the widget toolkit surface the dashboard renders into.
// The toolkit itself (display, layout, drawing) lives outside this module;
// internal/ui/headless provides an in-memory implementation.
package ui

import (
	"errors"

	"github.com/lucasb-eyer/go-colorful"
)

// Handle identifies a control created by a Toolkit. The zero Handle is never
// returned for a live control.
type Handle uint64

// ErrUnknownHandle is returned for operations on destroyed or foreign handles.
var ErrUnknownHandle = errors.New("unknown control handle")

// ErrWrongControl is returned when an operation does not apply to the control type.
var ErrWrongControl = errors.New("operation not supported by control")

// ControlType is the kind of control behind a Handle.
type ControlType string

const (
	ControlContainer ControlType = "container"
	ControlLabel     ControlType = "label"
	ControlToggle    ControlType = "toggle"
	ControlRange     ControlType = "range"
	ControlColor     ControlType = "color"
)

// Event is delivered to subscribers when a control's value changes through
// user interaction. Only the field matching the control type is set.
type Event struct {
	Control Handle
	Checked bool           // toggle
	Value   int            // range
	Color   colorful.Color // color
}

// Handler receives value-changed events.
type Handler func(Event)

// Toolkit is the widget surface consumed by card bindings.
//
// Implementations run every call on the UI loop and deliver events on it too.
// Programmatic setters never fire value-changed handlers.
type Toolkit interface {
	CreateContainer(parent Handle) (Handle, error)
	CreateLabel(parent Handle, text string) (Handle, error)
	CreateToggle(parent Handle) (Handle, error)
	CreateRange(parent Handle, min, max int) (Handle, error)
	CreateColor(parent Handle) (Handle, error)

	// OnValueChanged subscribes fn to user-driven value changes of control.
	OnValueChanged(control Handle, fn Handler) error

	SetText(label Handle, text string) error
	SetChecked(toggle Handle, checked bool) error
	// SetValue sets a range control; the toolkit clamps into [min,max].
	SetValue(rng Handle, value int) error
	SetColor(picker Handle, c colorful.Color) error
	// SetTextColor styles a label.
	SetTextColor(label Handle, c colorful.Color) error

	// Destroy removes a control and all of its descendants.
	Destroy(h Handle) error
	// Exists reports whether h is a live control.
	Exists(h Handle) bool
	// OnDestroy registers fn to run once h is destroyed, directly or along
	// with an ancestor.
	OnDestroy(h Handle, fn func()) error
}

// Status colours used for the ON/OFF label.
var (
	Affirmative = colorful.Color{R: 0, G: 1, B: 0}
	Negative    = colorful.Color{R: 1, G: 0, B: 0}
)
