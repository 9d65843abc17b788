package headless

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dokzlo13/lightdash/internal/ui"
)

// Toggle simulates the user flipping a switch.
func (t *Toolkit) Toggle(toggle ui.Handle, checked bool) error {
	w, err := t.lookup(toggle, ui.ControlToggle)
	if err != nil {
		return err
	}
	w.checked = checked
	t.fire(w, ui.Event{Control: w.id, Checked: checked})
	return nil
}

// Slide simulates the user dragging a slider. The value is clamped into the
// slider's bounds before handlers see it.
func (t *Toolkit) Slide(rng ui.Handle, value int) error {
	w, err := t.lookup(rng, ui.ControlRange)
	if err != nil {
		return err
	}
	w.value = clamp(value, w.min, w.max)
	t.fire(w, ui.Event{Control: w.id, Value: w.value})
	return nil
}

// Pick simulates the user choosing a colour.
func (t *Toolkit) Pick(picker ui.Handle, c colorful.Color) error {
	w, err := t.lookup(picker, ui.ControlColor)
	if err != nil {
		return err
	}
	w.color = c.Clamped()
	t.fire(w, ui.Event{Control: w.id, Color: w.color})
	return nil
}

func (t *Toolkit) fire(w *widget, ev ui.Event) {
	// Handlers may destroy the widget; iterate over a snapshot.
	handlers := append([]ui.Handler(nil), w.handlers...)
	for _, h := range handlers {
		h(ev)
	}
}
