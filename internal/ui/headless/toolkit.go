// Package headless is an in-memory ui.Toolkit. It keeps the widget tree,
// clamps range values the way an on-screen slider would, and can simulate
// user input so value-changed handlers run as they would under a real
// display. It is used by the binary in place of a screen and by tests.
package headless

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dokzlo13/lightdash/internal/ui"
)

type widget struct {
	id       ui.Handle
	typ      ui.ControlType
	parent   ui.Handle
	children []ui.Handle

	text      string
	textColor colorful.Color
	checked   bool
	value     int
	min, max  int
	color     colorful.Color

	handlers  []ui.Handler
	destroyed []func()
}

// Toolkit is the headless widget tree. Like any UI toolkit it is not safe
// for concurrent use; drive it from one goroutine.
type Toolkit struct {
	next    ui.Handle
	widgets map[ui.Handle]*widget
	roots   []ui.Handle

	failOn map[ui.ControlType]error
}

var _ ui.Toolkit = (*Toolkit)(nil)

// New creates an empty toolkit.
func New() *Toolkit {
	return &Toolkit{
		widgets: make(map[ui.Handle]*widget),
		failOn:  make(map[ui.ControlType]error),
	}
}

// FailCreate makes every subsequent creation of typ fail with err.
// A nil err clears the failure.
func (t *Toolkit) FailCreate(typ ui.ControlType, err error) {
	if err == nil {
		delete(t.failOn, typ)
		return
	}
	t.failOn[typ] = err
}

func (t *Toolkit) create(parent ui.Handle, typ ui.ControlType) (*widget, error) {
	if err, ok := t.failOn[typ]; ok {
		return nil, err
	}
	if parent != 0 {
		p, ok := t.widgets[parent]
		if !ok {
			return nil, fmt.Errorf("%w: parent %d", ui.ErrUnknownHandle, parent)
		}
		if p.typ != ui.ControlContainer {
			return nil, fmt.Errorf("%w: %s cannot hold children", ui.ErrWrongControl, p.typ)
		}
	}

	t.next++
	w := &widget{id: t.next, typ: typ, parent: parent}
	t.widgets[w.id] = w
	if parent == 0 {
		t.roots = append(t.roots, w.id)
	} else {
		p := t.widgets[parent]
		p.children = append(p.children, w.id)
	}
	return w, nil
}

// CreateContainer creates a container. A zero parent creates a top-level screen.
func (t *Toolkit) CreateContainer(parent ui.Handle) (ui.Handle, error) {
	w, err := t.create(parent, ui.ControlContainer)
	if err != nil {
		return 0, err
	}
	return w.id, nil
}

// CreateLabel creates a text label.
func (t *Toolkit) CreateLabel(parent ui.Handle, text string) (ui.Handle, error) {
	w, err := t.create(parent, ui.ControlLabel)
	if err != nil {
		return 0, err
	}
	w.text = text
	w.textColor = colorful.Color{R: 1, G: 1, B: 1}
	return w.id, nil
}

// CreateToggle creates an unchecked switch.
func (t *Toolkit) CreateToggle(parent ui.Handle) (ui.Handle, error) {
	w, err := t.create(parent, ui.ControlToggle)
	if err != nil {
		return 0, err
	}
	return w.id, nil
}

// CreateRange creates a slider over [min,max] positioned at min.
func (t *Toolkit) CreateRange(parent ui.Handle, min, max int) (ui.Handle, error) {
	if min > max {
		return 0, fmt.Errorf("invalid range [%d,%d]", min, max)
	}
	w, err := t.create(parent, ui.ControlRange)
	if err != nil {
		return 0, err
	}
	w.min, w.max, w.value = min, max, min
	return w.id, nil
}

// CreateColor creates a colour picker set to black.
func (t *Toolkit) CreateColor(parent ui.Handle) (ui.Handle, error) {
	w, err := t.create(parent, ui.ControlColor)
	if err != nil {
		return 0, err
	}
	return w.id, nil
}

func (t *Toolkit) lookup(h ui.Handle, typ ui.ControlType) (*widget, error) {
	w, ok := t.widgets[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ui.ErrUnknownHandle, h)
	}
	if typ != "" && w.typ != typ {
		return nil, fmt.Errorf("%w: %s on %s", ui.ErrWrongControl, typ, w.typ)
	}
	return w, nil
}

// OnValueChanged subscribes fn to simulated input on control.
func (t *Toolkit) OnValueChanged(control ui.Handle, fn ui.Handler) error {
	w, err := t.lookup(control, "")
	if err != nil {
		return err
	}
	switch w.typ {
	case ui.ControlToggle, ui.ControlRange, ui.ControlColor:
	default:
		return fmt.Errorf("%w: %s has no value", ui.ErrWrongControl, w.typ)
	}
	w.handlers = append(w.handlers, fn)
	return nil
}

// SetText sets a label's text.
func (t *Toolkit) SetText(label ui.Handle, text string) error {
	w, err := t.lookup(label, ui.ControlLabel)
	if err != nil {
		return err
	}
	w.text = text
	return nil
}

// SetChecked sets a toggle's state.
func (t *Toolkit) SetChecked(toggle ui.Handle, checked bool) error {
	w, err := t.lookup(toggle, ui.ControlToggle)
	if err != nil {
		return err
	}
	w.checked = checked
	return nil
}

// SetValue sets a range control, clamped into its bounds.
func (t *Toolkit) SetValue(rng ui.Handle, value int) error {
	w, err := t.lookup(rng, ui.ControlRange)
	if err != nil {
		return err
	}
	w.value = clamp(value, w.min, w.max)
	return nil
}

// SetColor sets a colour picker.
func (t *Toolkit) SetColor(picker ui.Handle, c colorful.Color) error {
	w, err := t.lookup(picker, ui.ControlColor)
	if err != nil {
		return err
	}
	w.color = c.Clamped()
	return nil
}

// SetTextColor styles a label.
func (t *Toolkit) SetTextColor(label ui.Handle, c colorful.Color) error {
	w, err := t.lookup(label, ui.ControlLabel)
	if err != nil {
		return err
	}
	w.textColor = c
	return nil
}

// Destroy removes h and its descendants.
func (t *Toolkit) Destroy(h ui.Handle) error {
	w, err := t.lookup(h, "")
	if err != nil {
		return err
	}

	if w.parent == 0 {
		t.roots = without(t.roots, h)
	} else if p, ok := t.widgets[w.parent]; ok {
		p.children = without(p.children, h)
	}
	// Hooks run after the whole subtree is gone.
	var hooks []func()
	t.destroyTree(w, &hooks)
	for _, fn := range hooks {
		fn()
	}
	return nil
}

// OnDestroy registers fn to run when h or one of its ancestors is destroyed.
func (t *Toolkit) OnDestroy(h ui.Handle, fn func()) error {
	w, err := t.lookup(h, "")
	if err != nil {
		return err
	}
	w.destroyed = append(w.destroyed, fn)
	return nil
}

func (t *Toolkit) destroyTree(w *widget, hooks *[]func()) {
	for _, c := range w.children {
		if child, ok := t.widgets[c]; ok {
			t.destroyTree(child, hooks)
		}
	}
	delete(t.widgets, w.id)
	*hooks = append(*hooks, w.destroyed...)
}

func without(hs []ui.Handle, h ui.Handle) []ui.Handle {
	out := hs[:0]
	for _, x := range hs {
		if x != h {
			out = append(out, x)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
