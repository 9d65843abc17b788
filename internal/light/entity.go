// Package light holds the domain model for controllable lights and the
// in-memory store that is the ground truth for the dashboard.
package light

import (
	"errors"
	"fmt"
)

// Kind is the capability variant of a light.
type Kind int

const (
	// KindUnknown is the zero value and is never valid.
	KindUnknown Kind = iota
	// KindSwitch lights expose on/off and brightness.
	KindSwitch
	// KindColorCCT lights additionally expose RGB colour and colour temperature.
	KindColorCCT
)

// Display domain of the colour temperature control, in Kelvin.
const (
	MinDisplayKelvin = 2000
	MaxDisplayKelvin = 6500
)

// MaxBrightness is the top of the brightness scale.
const MaxBrightness = 255

// ErrInvalidEntity is returned for entities missing required fields.
var ErrInvalidEntity = errors.New("invalid light entity")

func (k Kind) String() string {
	switch k {
	case KindSwitch:
		return "switch"
	case KindColorCCT:
		return "color_cct"
	default:
		return "unknown"
	}
}

// ParseKind parses the config spelling of a kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "switch":
		return KindSwitch, nil
	case "color_cct", "color":
		return KindColorCCT, nil
	default:
		return KindUnknown, fmt.Errorf("unknown light kind %q", s)
	}
}

// Valid reports whether k is one of the declared variants.
func (k Kind) Valid() bool {
	return k == KindSwitch || k == KindColorCCT
}

// HasColor reports whether lights of this kind expose colour and temperature.
func (k Kind) HasColor() bool {
	return k == KindColorCCT
}

// RGB is an 8-bit colour triple.
type RGB struct {
	R, G, B uint8
}

func (c RGB) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

// Hex returns the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Entity is the domain record for one controllable light.
// Color and ColorTemp are only meaningful for KindColorCCT but are always
// carried so that a round-trip never loses data.
type Entity struct {
	Name       string
	EntityID   string
	Kind       Kind
	IsOn       bool
	Brightness uint8
	Color      RGB
	ColorTemp  int // Kelvin, stored as supplied
}

// Validate checks the fields every entity must carry.
func (e *Entity) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: nil entity", ErrInvalidEntity)
	}
	if e.EntityID == "" {
		return fmt.Errorf("%w: empty entity id", ErrInvalidEntity)
	}
	if e.Name == "" {
		return fmt.Errorf("%w: %s has empty name", ErrInvalidEntity, e.EntityID)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: %s has kind %s", ErrInvalidEntity, e.EntityID, e.Kind)
	}
	return nil
}

// BrightnessPercent returns the brightness as a whole percentage, rounded down.
func BrightnessPercent(brightness uint8) int {
	return int(brightness) * 100 / MaxBrightness
}

// ClampKelvin clamps k into the display domain of the temperature control.
func ClampKelvin(k int) int {
	if k < MinDisplayKelvin {
		return MinDisplayKelvin
	}
	if k > MaxDisplayKelvin {
		return MaxDisplayKelvin
	}
	return k
}

// ClampBrightness clamps a raw control value into 0-255.
func ClampBrightness(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > MaxBrightness {
		return MaxBrightness
	}
	return uint8(v)
}
