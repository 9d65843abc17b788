// Package card binds one light entity to the controls that display and
// change it.
package card

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dokzlo13/lightdash/internal/light"
	"github.com/dokzlo13/lightdash/internal/ui"
)

var (
	// ErrKindMismatch is returned by Apply for an entity of another kind.
	ErrKindMismatch = errors.New("entity kind differs from bound kind")
	// ErrEntityMismatch is returned by Apply for an entity with another id.
	ErrEntityMismatch = errors.New("entity id differs from bound id")
)

// ConstructionError reports an entity that could not be turned into a card.
type ConstructionError struct {
	EntityID string
	Err      error
}

func (e *ConstructionError) Error() string {
	if e.EntityID == "" {
		return fmt.Sprintf("card construction failed: %v", e.Err)
	}
	return fmt.Sprintf("card construction failed for %s: %v", e.EntityID, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// Controls are the handles a binding owns. Color and Temperature are zero
// on switch cards.
type Controls struct {
	Container       ui.Handle
	Title           ui.Handle
	Status          ui.Handle
	Power           ui.Handle
	Brightness      ui.Handle
	BrightnessLabel ui.Handle
	Color           ui.Handle
	Temperature     ui.Handle
}

// HasColor reports whether the card carries colour controls.
func (c Controls) HasColor() bool {
	return c.Color != 0 && c.Temperature != 0
}

// Binding couples one stored entity to its card controls. It owns the
// controls and only refers to the entity by id; the entity belongs to the store.
type Binding struct {
	entityID string
	kind     light.Kind

	tk       ui.Toolkit
	store    *light.Store
	router   *Router
	controls Controls
}

// New builds a card for the stored entity entityID inside parent.
// On failure every control created so far is destroyed.
func New(tk ui.Toolkit, parent ui.Handle, store *light.Store, router *Router, entityID string) (*Binding, error) {
	e, err := store.Get(entityID)
	if err != nil {
		return nil, &ConstructionError{EntityID: entityID, Err: err}
	}
	if err := e.Validate(); err != nil {
		return nil, &ConstructionError{EntityID: entityID, Err: err}
	}

	b := &Binding{
		entityID: entityID,
		kind:     e.Kind,
		tk:       tk,
		store:    store,
		router:   router,
	}

	container, err := tk.CreateContainer(parent)
	if err != nil {
		return nil, &ConstructionError{EntityID: entityID, Err: err}
	}
	b.controls.Container = container

	if err := b.build(e); err != nil {
		_ = tk.Destroy(container)
		return nil, &ConstructionError{EntityID: entityID, Err: err}
	}
	return b, nil
}

func (b *Binding) build(e light.Entity) error {
	if err := b.buildCommon(e); err != nil {
		return err
	}

	switch e.Kind {
	case light.KindSwitch:
	case light.KindColorCCT:
		if err := b.buildColor(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: kind %s", light.ErrInvalidEntity, e.Kind)
	}

	return b.push(e)
}

func (b *Binding) buildCommon(e light.Entity) error {
	c := &b.controls
	tk := b.tk
	var err error

	if c.Title, err = tk.CreateLabel(c.Container, e.Name); err != nil {
		return err
	}
	if c.Status, err = tk.CreateLabel(c.Container, ""); err != nil {
		return err
	}

	if c.Power, err = tk.CreateToggle(c.Container); err != nil {
		return err
	}
	if err := tk.OnValueChanged(c.Power, func(ev ui.Event) {
		b.router.power(b, ev.Checked)
	}); err != nil {
		return err
	}

	if _, err := tk.CreateLabel(c.Container, "Brightness:"); err != nil {
		return err
	}
	if c.Brightness, err = tk.CreateRange(c.Container, 0, light.MaxBrightness); err != nil {
		return err
	}
	if err := tk.OnValueChanged(c.Brightness, func(ev ui.Event) {
		b.router.brightness(b, ev.Value)
	}); err != nil {
		return err
	}
	if c.BrightnessLabel, err = tk.CreateLabel(c.Container, ""); err != nil {
		return err
	}

	return nil
}

func (b *Binding) buildColor() error {
	c := &b.controls
	tk := b.tk
	var err error

	if _, err := tk.CreateLabel(c.Container, "Color:"); err != nil {
		return err
	}
	if c.Color, err = tk.CreateColor(c.Container); err != nil {
		return err
	}
	if err := tk.OnValueChanged(c.Color, func(ev ui.Event) {
		b.router.color(b, ev.Color)
	}); err != nil {
		return err
	}

	if _, err := tk.CreateLabel(c.Container, "Temperature (K):"); err != nil {
		return err
	}
	if c.Temperature, err = tk.CreateRange(c.Container, light.MinDisplayKelvin, light.MaxDisplayKelvin); err != nil {
		return err
	}
	if err := tk.OnValueChanged(c.Temperature, func(ev ui.Event) {
		b.router.colorTemp(b, ev.Value)
	}); err != nil {
		return err
	}

	return nil
}

// Apply pushes a new snapshot into the existing controls and then replaces
// the stored entity. Controls are updated in place, never recreated.
func (b *Binding) Apply(e light.Entity) error {
	if e.EntityID != b.entityID {
		return fmt.Errorf("%w: bound %s, got %s", ErrEntityMismatch, b.entityID, e.EntityID)
	}
	if e.Kind != b.kind {
		return fmt.Errorf("%w: bound %s, got %s", ErrKindMismatch, b.kind, e.Kind)
	}
	if err := e.Validate(); err != nil {
		return err
	}
	// Nothing is written unless every control can take the update.
	if err := b.checkControls(); err != nil {
		return err
	}

	if err := b.push(e); err != nil {
		return err
	}
	return b.store.Replace(b.entityID, e)
}

func (b *Binding) checkControls() error {
	c := b.controls
	handles := []ui.Handle{c.Container, c.Title, c.Status, c.Power, c.Brightness, c.BrightnessLabel}
	if b.kind.HasColor() {
		handles = append(handles, c.Color, c.Temperature)
	}
	for _, h := range handles {
		if !b.tk.Exists(h) {
			return fmt.Errorf("%s: %w: %d", b.entityID, ui.ErrUnknownHandle, h)
		}
	}
	return nil
}

// push writes every displayed field of e into the controls.
func (b *Binding) push(e light.Entity) error {
	c := b.controls

	if err := b.tk.SetText(c.Title, e.Name); err != nil {
		return err
	}
	if err := b.tk.SetChecked(c.Power, e.IsOn); err != nil {
		return err
	}
	if err := b.showPower(e.IsOn); err != nil {
		return err
	}
	if err := b.tk.SetValue(c.Brightness, int(e.Brightness)); err != nil {
		return err
	}
	if err := b.showBrightness(e.Brightness); err != nil {
		return err
	}

	if b.kind.HasColor() {
		if err := b.tk.SetColor(c.Color, toColorful(e.Color)); err != nil {
			return err
		}
		// Display only; the stored value keeps whatever was supplied.
		if err := b.tk.SetValue(c.Temperature, light.ClampKelvin(e.ColorTemp)); err != nil {
			return err
		}
	}
	return nil
}

// showPower updates the ON/OFF status label.
func (b *Binding) showPower(on bool) error {
	text, style := "OFF", ui.Negative
	if on {
		text, style = "ON", ui.Affirmative
	}
	if err := b.tk.SetText(b.controls.Status, text); err != nil {
		return err
	}
	return b.tk.SetTextColor(b.controls.Status, style)
}

// showBrightness updates the percentage label.
func (b *Binding) showBrightness(brightness uint8) error {
	return b.tk.SetText(b.controls.BrightnessLabel, fmt.Sprintf("%d%%", light.BrightnessPercent(brightness)))
}

// Destroy removes the card's controls.
func (b *Binding) Destroy() error {
	return b.tk.Destroy(b.controls.Container)
}

// EntityID returns the id of the bound entity.
func (b *Binding) EntityID() string {
	return b.entityID
}

// Kind returns the kind the card was built for.
func (b *Binding) Kind() light.Kind {
	return b.kind
}

// Controls returns the handles owned by the card.
func (b *Binding) Controls() Controls {
	return b.controls
}

// Entity returns the current stored copy of the bound entity.
func (b *Binding) Entity() (light.Entity, error) {
	return b.store.Get(b.entityID)
}

func toColorful(c light.RGB) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

func fromColorful(c colorful.Color) light.RGB {
	r, g, b := c.Clamped().RGB255()
	return light.RGB{R: r, G: g, B: b}
}
