package script

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/lightdash/internal/card"
	"github.com/dokzlo13/lightdash/internal/dashboard"
	"github.com/dokzlo13/lightdash/internal/light"
	"github.com/dokzlo13/lightdash/internal/ui"
)

// Input simulates user interaction with controls.
type Input interface {
	Toggle(toggle ui.Handle, checked bool) error
	Slide(rng ui.Handle, value int) error
	Pick(picker ui.Handle, c colorful.Color) error
}

// PanelModule exposes the dashboard to Lua. Interactions go through Input so
// the card handlers run exactly as they do for a person at the controls.
type PanelModule struct {
	dash  *dashboard.Dashboard
	input Input
}

// NewPanelModule creates a new panel module
func NewPanelModule(dash *dashboard.Dashboard, input Input) *PanelModule {
	return &PanelModule{dash: dash, input: input}
}

// Loader is the module loader for Lua
func (m *PanelModule) Loader(L *lua.LState) int {
	mod := L.NewTable()

	L.SetField(mod, "cards", L.NewFunction(m.cards))
	L.SetField(mod, "state", L.NewFunction(m.state))
	L.SetField(mod, "toggle", L.NewFunction(m.toggle))
	L.SetField(mod, "brightness", L.NewFunction(m.brightness))
	L.SetField(mod, "color", L.NewFunction(m.color))
	L.SetField(mod, "temp", L.NewFunction(m.temp))
	L.SetField(mod, "refresh", L.NewFunction(m.refresh))

	L.Push(mod)
	return 1
}

// cards() -> array of entity tables in render order
func (m *PanelModule) cards(L *lua.LState) int {
	tbl := L.NewTable()
	for _, b := range m.dash.Cards() {
		e, err := b.Entity()
		if err != nil {
			continue
		}
		tbl.Append(entityToTable(L, e))
	}
	L.Push(tbl)
	return 1
}

// state(id) -> entity table, or nil and an error message
func (m *PanelModule) state(L *lua.LState) int {
	b, err := m.lookup(L.CheckString(1))
	if err == nil {
		var e light.Entity
		if e, err = b.Entity(); err == nil {
			L.Push(entityToTable(L, e))
			return 1
		}
	}
	L.Push(lua.LNil)
	L.Push(lua.LString(err.Error()))
	return 2
}

// toggle(id, on)
func (m *PanelModule) toggle(L *lua.LState) int {
	b := m.check(L)
	on := L.CheckBool(2)
	m.raise(L, m.input.Toggle(b.Controls().Power, on))
	return 0
}

// brightness(id, value) - value is clamped by the slider to 0-255
func (m *PanelModule) brightness(L *lua.LState) int {
	b := m.check(L)
	value := L.CheckInt(2)
	m.raise(L, m.input.Slide(b.Controls().Brightness, value))
	return 0
}

// color(id, r, g, b) - components are 0-255
func (m *PanelModule) color(L *lua.LState) int {
	b := m.checkColor(L)
	c := colorful.Color{
		R: float64(L.CheckInt(2)) / 255.0,
		G: float64(L.CheckInt(3)) / 255.0,
		B: float64(L.CheckInt(4)) / 255.0,
	}
	m.raise(L, m.input.Pick(b.Controls().Color, c))
	return 0
}

// temp(id, kelvin) - clamped by the slider to its display range
func (m *PanelModule) temp(L *lua.LState) int {
	b := m.checkColor(L)
	kelvin := L.CheckInt(2)
	m.raise(L, m.input.Slide(b.Controls().Temperature, kelvin))
	return 0
}

// refresh(snapshots) -> applied, skipped, failed
//
// snapshots is one entity table or an array of them. Fields missing from a
// snapshot keep the stored value, so {entity_id = "light.x", on = false} is
// a valid snapshot.
func (m *PanelModule) refresh(L *lua.LState) int {
	arg := L.CheckTable(1)

	var tables []*lua.LTable
	if arg.RawGetString("entity_id") != lua.LNil {
		tables = append(tables, arg)
	} else {
		for i := 1; i <= arg.Len(); i++ {
			tbl, ok := arg.RawGetInt(i).(*lua.LTable)
			if !ok {
				L.ArgError(1, fmt.Sprintf("element %d is not a table", i))
			}
			tables = append(tables, tbl)
		}
	}

	snapshots := make([]light.Entity, 0, len(tables))
	for i, tbl := range tables {
		id, ok := tbl.RawGetString("entity_id").(lua.LString)
		if !ok {
			L.ArgError(1, fmt.Sprintf("snapshot %d has no entity_id", i+1))
		}
		var base light.Entity
		if b := m.dash.CardFor(string(id)); b != nil {
			base, _ = b.Entity()
		}
		e, err := overlayEntity(base, tbl)
		if err != nil {
			L.ArgError(1, fmt.Sprintf("snapshot %s: %v", id, err))
		}
		snapshots = append(snapshots, e)
	}

	report := m.dash.RefreshAll(snapshots)
	L.Push(lua.LNumber(report.Applied))
	L.Push(lua.LNumber(report.Skipped))
	L.Push(lua.LNumber(report.Failed))
	return 3
}

func (m *PanelModule) lookup(entityID string) (*card.Binding, error) {
	b := m.dash.CardFor(entityID)
	if b == nil {
		return nil, fmt.Errorf("%w: no card for %s", light.ErrNotFound, entityID)
	}
	return b, nil
}

func (m *PanelModule) check(L *lua.LState) *card.Binding {
	b, err := m.lookup(L.CheckString(1))
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	return b
}

func (m *PanelModule) checkColor(L *lua.LState) *card.Binding {
	b := m.check(L)
	if !b.Controls().HasColor() {
		L.RaiseError("%s has no colour controls", b.EntityID())
	}
	return b
}

func (m *PanelModule) raise(L *lua.LState, err error) {
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
}
