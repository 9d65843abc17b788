package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/lightdash/internal/light"
)

// luaToGo converts a Lua value to a Go value
func luaToGo(v lua.LValue) interface{} {
	switch val := v.(type) {
	case lua.LString:
		return string(val)
	case lua.LNumber:
		return float64(val)
	case lua.LBool:
		return bool(val)
	case *lua.LTable:
		// Sequences become slices, everything else a map
		if n := val.Len(); n > 0 {
			arr := make([]interface{}, 0, n)
			for i := 1; i <= n; i++ {
				arr = append(arr, luaToGo(val.RawGetInt(i)))
			}
			return arr
		}
		obj := make(map[string]interface{})
		val.ForEach(func(k, v lua.LValue) {
			obj[lua.LVAsString(k)] = luaToGo(v)
		})
		return obj
	case *lua.LNilType:
		return nil
	default:
		return v.String()
	}
}

// entityToTable renders an entity the way scripts see it
func entityToTable(L *lua.LState, e light.Entity) *lua.LTable {
	tbl := L.NewTable()
	L.SetField(tbl, "name", lua.LString(e.Name))
	L.SetField(tbl, "entity_id", lua.LString(e.EntityID))
	L.SetField(tbl, "kind", lua.LString(e.Kind.String()))
	L.SetField(tbl, "on", lua.LBool(e.IsOn))
	L.SetField(tbl, "brightness", lua.LNumber(e.Brightness))
	L.SetField(tbl, "percent", lua.LNumber(light.BrightnessPercent(e.Brightness)))

	color := L.NewTable()
	color.Append(lua.LNumber(e.Color.R))
	color.Append(lua.LNumber(e.Color.G))
	color.Append(lua.LNumber(e.Color.B))
	L.SetField(tbl, "color", color)

	L.SetField(tbl, "color_temp", lua.LNumber(e.ColorTemp))
	return tbl
}

// overlayEntity copies every field present in tbl onto base
func overlayEntity(base light.Entity, tbl *lua.LTable) (light.Entity, error) {
	e := base

	if v, ok := tbl.RawGetString("name").(lua.LString); ok {
		e.Name = string(v)
	}
	if v, ok := tbl.RawGetString("entity_id").(lua.LString); ok {
		e.EntityID = string(v)
	}
	if v, ok := tbl.RawGetString("kind").(lua.LString); ok {
		kind, err := light.ParseKind(string(v))
		if err != nil {
			return e, err
		}
		e.Kind = kind
	}
	if v, ok := tbl.RawGetString("on").(lua.LBool); ok {
		e.IsOn = bool(v)
	}
	if v, ok := tbl.RawGetString("brightness").(lua.LNumber); ok {
		if v < 0 || v > light.MaxBrightness {
			return e, fmt.Errorf("brightness %v out of range 0-%d", v, light.MaxBrightness)
		}
		e.Brightness = uint8(v)
	}
	if v, ok := tbl.RawGetString("color").(*lua.LTable); ok {
		if v.Len() != 3 {
			return e, fmt.Errorf("color needs 3 components, got %d", v.Len())
		}
		var c [3]uint8
		for i := range c {
			n, ok := v.RawGetInt(i + 1).(lua.LNumber)
			if !ok || n < 0 || n > 255 {
				return e, fmt.Errorf("color component %d must be a number in 0-255", i+1)
			}
			c[i] = uint8(n)
		}
		e.Color = light.RGB{R: c[0], G: c[1], B: c[2]}
	}
	if v, ok := tbl.RawGetString("color_temp").(lua.LNumber); ok {
		e.ColorTemp = int(v)
	}

	return e, nil
}
