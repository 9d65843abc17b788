package headless

import (
	"fmt"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dokzlo13/lightdash/internal/ui"
)

// Exists reports whether h is a live control.
func (t *Toolkit) Exists(h ui.Handle) bool {
	_, ok := t.widgets[h]
	return ok
}

// Len returns the number of live controls.
func (t *Toolkit) Len() int {
	return len(t.widgets)
}

// Type returns the control type of h, or "" when h is not live.
func (t *Toolkit) Type(h ui.Handle) ui.ControlType {
	if w, ok := t.widgets[h]; ok {
		return w.typ
	}
	return ""
}

// Text returns a label's text.
func (t *Toolkit) Text(h ui.Handle) string {
	if w, ok := t.widgets[h]; ok {
		return w.text
	}
	return ""
}

// TextColor returns a label's text colour.
func (t *Toolkit) TextColor(h ui.Handle) colorful.Color {
	if w, ok := t.widgets[h]; ok {
		return w.textColor
	}
	return colorful.Color{}
}

// Checked returns a toggle's state.
func (t *Toolkit) Checked(h ui.Handle) bool {
	if w, ok := t.widgets[h]; ok {
		return w.checked
	}
	return false
}

// Value returns a range control's position.
func (t *Toolkit) Value(h ui.Handle) int {
	if w, ok := t.widgets[h]; ok {
		return w.value
	}
	return 0
}

// Bounds returns a range control's domain.
func (t *Toolkit) Bounds(h ui.Handle) (min, max int) {
	if w, ok := t.widgets[h]; ok {
		return w.min, w.max
	}
	return 0, 0
}

// Color returns a colour picker's colour.
func (t *Toolkit) Color(h ui.Handle) colorful.Color {
	if w, ok := t.widgets[h]; ok {
		return w.color
	}
	return colorful.Color{}
}

// Children returns the direct children of h in creation order.
func (t *Toolkit) Children(h ui.Handle) []ui.Handle {
	if w, ok := t.widgets[h]; ok {
		return append([]ui.Handle(nil), w.children...)
	}
	return nil
}

// Dump writes an indented rendering of every top-level tree.
func (t *Toolkit) Dump(out io.Writer) error {
	for _, r := range t.roots {
		if err := t.dump(out, r, 0); err != nil {
			return err
		}
	}
	return nil
}

func (t *Toolkit) dump(out io.Writer, h ui.Handle, depth int) error {
	w := t.widgets[h]
	indent := strings.Repeat("  ", depth)

	var line string
	switch w.typ {
	case ui.ControlContainer:
		line = fmt.Sprintf("%s[container #%d]", indent, w.id)
	case ui.ControlLabel:
		line = fmt.Sprintf("%s%q %s", indent, w.text, w.textColor.Hex())
	case ui.ControlToggle:
		state := "off"
		if w.checked {
			state = "on"
		}
		line = fmt.Sprintf("%s(toggle %s)", indent, state)
	case ui.ControlRange:
		line = fmt.Sprintf("%s(range %d in [%d,%d])", indent, w.value, w.min, w.max)
	case ui.ControlColor:
		line = fmt.Sprintf("%s(color %s)", indent, w.color.Hex())
	}
	if _, err := fmt.Fprintln(out, line); err != nil {
		return err
	}

	for _, c := range w.children {
		if err := t.dump(out, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
