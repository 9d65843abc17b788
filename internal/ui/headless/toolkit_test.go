package headless

import (
	"errors"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dokzlo13/lightdash/internal/ui"
)

func TestRangeClampsSetAndSlide(t *testing.T) {
	tk := New()
	root, _ := tk.CreateContainer(0)
	rng, err := tk.CreateRange(root, 2000, 6500)
	if err != nil {
		t.Fatalf("CreateRange() error = %v", err)
	}

	tk.SetValue(rng, 9000)
	if got := tk.Value(rng); got != 6500 {
		t.Errorf("Value() after SetValue(9000) = %d, want 6500", got)
	}

	var seen []int
	tk.OnValueChanged(rng, func(ev ui.Event) { seen = append(seen, ev.Value) })

	tk.Slide(rng, 100)
	if len(seen) != 1 || seen[0] != 2000 {
		t.Errorf("handler saw %v, want [2000]", seen)
	}
}

func TestSettersDoNotFireHandlers(t *testing.T) {
	tk := New()
	root, _ := tk.CreateContainer(0)
	sw, _ := tk.CreateToggle(root)

	calls := 0
	tk.OnValueChanged(sw, func(ui.Event) { calls++ })

	tk.SetChecked(sw, true)
	if calls != 0 {
		t.Errorf("SetChecked fired %d handlers, want 0", calls)
	}

	tk.Toggle(sw, false)
	if calls != 1 {
		t.Errorf("Toggle fired %d handlers, want 1", calls)
	}
	if tk.Checked(sw) {
		t.Error("Checked() = true after Toggle(false)")
	}
}

func TestDestroyCascades(t *testing.T) {
	tk := New()
	root, _ := tk.CreateContainer(0)
	card, _ := tk.CreateContainer(root)
	label, _ := tk.CreateLabel(card, "x")
	picker, _ := tk.CreateColor(card)

	if err := tk.Destroy(card); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	for _, h := range []ui.Handle{card, label, picker} {
		if tk.Exists(h) {
			t.Errorf("handle %d survived parent destruction", h)
		}
	}
	if !tk.Exists(root) {
		t.Error("root destroyed with child")
	}
	if len(tk.Children(root)) != 0 {
		t.Errorf("root still lists children %v", tk.Children(root))
	}
	if err := tk.SetText(label, "y"); !errors.Is(err, ui.ErrUnknownHandle) {
		t.Errorf("SetText on destroyed label error = %v, want ErrUnknownHandle", err)
	}
}

func TestOnDestroyRunsForAncestorDestroy(t *testing.T) {
	tk := New()
	root, _ := tk.CreateContainer(0)
	card, _ := tk.CreateContainer(root)
	label, _ := tk.CreateLabel(card, "x")

	var fired []string
	tk.OnDestroy(card, func() {
		if tk.Exists(label) {
			t.Error("hook ran before the subtree was removed")
		}
		fired = append(fired, "card")
	})
	tk.OnDestroy(label, func() { fired = append(fired, "label") })

	if err := tk.Destroy(root); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if len(fired) != 2 || fired[0] != "label" || fired[1] != "card" {
		t.Errorf("hooks fired %v, want [label card]", fired)
	}
	if err := tk.OnDestroy(card, func() {}); !errors.Is(err, ui.ErrUnknownHandle) {
		t.Errorf("OnDestroy on destroyed handle error = %v, want ErrUnknownHandle", err)
	}
}

func TestWrongControl(t *testing.T) {
	tk := New()
	root, _ := tk.CreateContainer(0)
	label, _ := tk.CreateLabel(root, "x")

	if err := tk.SetValue(label, 1); !errors.Is(err, ui.ErrWrongControl) {
		t.Errorf("SetValue on label error = %v, want ErrWrongControl", err)
	}
	if err := tk.OnValueChanged(label, func(ui.Event) {}); !errors.Is(err, ui.ErrWrongControl) {
		t.Errorf("OnValueChanged on label error = %v, want ErrWrongControl", err)
	}
	if _, err := tk.CreateLabel(label, "child"); !errors.Is(err, ui.ErrWrongControl) {
		t.Errorf("CreateLabel under label error = %v, want ErrWrongControl", err)
	}
}

func TestFailCreate(t *testing.T) {
	tk := New()
	root, _ := tk.CreateContainer(0)
	boom := errors.New("out of widgets")

	tk.FailCreate(ui.ControlColor, boom)
	if _, err := tk.CreateColor(root); !errors.Is(err, boom) {
		t.Errorf("CreateColor() error = %v, want %v", err, boom)
	}

	tk.FailCreate(ui.ControlColor, nil)
	if _, err := tk.CreateColor(root); err != nil {
		t.Errorf("CreateColor() after clearing error = %v", err)
	}
}

func TestDump(t *testing.T) {
	tk := New()
	root, _ := tk.CreateContainer(0)
	tk.CreateLabel(root, "Kitchen RGB")
	picker, _ := tk.CreateColor(root)
	tk.SetColor(picker, colorful.Color{R: 1, G: 0, B: 0})

	var sb strings.Builder
	if err := tk.Dump(&sb); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	out := sb.String()
	for _, want := range []string{"[container", `"Kitchen RGB"`, "(color #ff0000)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump() missing %q in:\n%s", want, out)
		}
	}
}
