package card

import (
	"errors"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dokzlo13/lightdash/internal/gateway"
	"github.com/dokzlo13/lightdash/internal/light"
	"github.com/dokzlo13/lightdash/internal/ui"
)

func TestRouter_PowerToggleOnSwitchCard(t *testing.T) {
	e := bedroom()
	e.IsOn = false
	f := newFixture(t, e)
	b := f.bind(t, e.EntityID)
	c := b.Controls()

	if err := f.tk.Toggle(c.Power, true); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}

	got, _ := b.Entity()
	if !got.IsOn {
		t.Error("IsOn not set after toggle")
	}
	want := e
	want.IsOn = true
	if got != want {
		t.Errorf("toggle touched other fields: got %+v, want %+v", got, want)
	}

	cmds := f.rec.Commands()
	if len(cmds) != 1 {
		t.Fatalf("issued %d commands, want 1: %+v", len(cmds), cmds)
	}
	if cmds[0].Op != gateway.OpSetPower || cmds[0].EntityID != e.EntityID || !cmds[0].On {
		t.Errorf("command = %+v, want set_power(%s, true)", cmds[0], e.EntityID)
	}

	if got := f.tk.Text(c.Status); got != "ON" {
		t.Errorf("status = %q, want ON", got)
	}
	if f.tk.TextColor(c.Status) != ui.Affirmative {
		t.Error("status colour not updated on toggle")
	}
}

func TestRouter_Brightness(t *testing.T) {
	f := newFixture(t, bedroom())
	b := f.bind(t, "light.bedroom")
	c := b.Controls()

	tests := []struct {
		slide     int
		wantBri   uint8
		wantLabel string
	}{
		{0, 0, "0%"},
		{128, 128, "50%"},
		{255, 255, "100%"},
		{400, 255, "100%"},
	}

	for _, tt := range tests {
		f.rec.Reset()
		f.tk.Slide(c.Brightness, tt.slide)

		got, _ := b.Entity()
		if got.Brightness != tt.wantBri {
			t.Errorf("slide %d: brightness = %d, want %d", tt.slide, got.Brightness, tt.wantBri)
		}
		if label := f.tk.Text(c.BrightnessLabel); label != tt.wantLabel {
			t.Errorf("slide %d: label = %q, want %q", tt.slide, label, tt.wantLabel)
		}
		cmds := f.rec.Commands()
		if len(cmds) != 1 || cmds[0].Op != gateway.OpSetBrightness || cmds[0].Brightness != tt.wantBri {
			t.Errorf("slide %d: commands = %+v, want one set_brightness(%d)", tt.slide, cmds, tt.wantBri)
		}
	}
}

func TestRouter_ColorAndTemperature(t *testing.T) {
	f := newFixture(t, kitchenRGB())
	b := f.bind(t, "light.kitchen_rgb")
	c := b.Controls()

	f.tk.Pick(c.Color, colorful.Color{R: 0, G: 1, B: 0})
	f.tk.Slide(c.Temperature, 2700)

	got, _ := b.Entity()
	if got.Color != (light.RGB{R: 0, G: 255, B: 0}) {
		t.Errorf("colour = %v, want (0,255,0)", got.Color)
	}
	if got.ColorTemp != 2700 {
		t.Errorf("colour temperature = %d, want 2700", got.ColorTemp)
	}
	if !got.IsOn || got.Brightness != 255 || got.Name != "Kitchen RGB" {
		t.Errorf("unrelated fields changed: %+v", got)
	}

	cmds := f.rec.Commands()
	if len(cmds) != 2 {
		t.Fatalf("issued %d commands, want 2: %+v", len(cmds), cmds)
	}
	if cmds[0].Op != gateway.OpSetColor || cmds[0].Color != (light.RGB{G: 255}) {
		t.Errorf("first command = %+v, want set_color(0,255,0)", cmds[0])
	}
	if cmds[1].Op != gateway.OpSetColorTemp || cmds[1].Kelvin != 2700 {
		t.Errorf("second command = %+v, want set_color_temp(2700)", cmds[1])
	}
}

func TestRouter_TemperatureSliderStaysInDomain(t *testing.T) {
	f := newFixture(t, kitchenRGB())
	b := f.bind(t, "light.kitchen_rgb")

	f.tk.Slide(b.Controls().Temperature, 100)

	got, _ := b.Entity()
	if got.ColorTemp != 2000 {
		t.Errorf("colour temperature = %d, want slider minimum 2000", got.ColorTemp)
	}
}

func TestRouter_NoRollbackOnCommandFailure(t *testing.T) {
	f := newFixture(t, bedroom())
	f.rec.FailOp(gateway.OpSetPower, gateway.ErrOffline)
	b := f.bind(t, "light.bedroom")

	f.tk.Toggle(b.Controls().Power, false)

	got, _ := b.Entity()
	if got.IsOn {
		t.Error("failed command rolled back the local mutation")
	}
	if n := len(f.rec.Commands()); n != 1 {
		t.Errorf("issued %d commands, want 1 (no retry)", n)
	}
}

func TestRouter_CardsAreIndependent(t *testing.T) {
	f := newFixture(t, bedroom(), kitchenRGB())
	a := f.bind(t, "light.bedroom")
	k := f.bind(t, "light.kitchen_rgb")

	f.tk.Slide(a.Controls().Brightness, 10)

	kitchen, _ := k.Entity()
	if kitchen.Brightness != 255 {
		t.Errorf("sliding one card changed another: %d", kitchen.Brightness)
	}
	if label := f.tk.Text(k.Controls().BrightnessLabel); label != "100%" {
		t.Errorf("other card label = %q", label)
	}
	cmds := f.rec.Commands()
	if len(cmds) != 1 || cmds[0].EntityID != "light.bedroom" {
		t.Errorf("commands = %+v, want one for light.bedroom", cmds)
	}
}

func TestConstructionError_Message(t *testing.T) {
	err := &ConstructionError{EntityID: "light.x", Err: light.ErrNotFound}
	if !errors.Is(err, light.ErrNotFound) {
		t.Error("ConstructionError does not unwrap")
	}
	if err.Error() == "" {
		t.Error("empty message")
	}
}
