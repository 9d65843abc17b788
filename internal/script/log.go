package script

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

// LogModule provides logging functions to Lua
type LogModule struct{}

// NewLogModule creates a new log module
func NewLogModule() *LogModule {
	return &LogModule{}
}

// Loader is the module loader for Lua
func (m *LogModule) Loader(L *lua.LState) int {
	mod := L.NewTable()

	L.SetField(mod, "debug", L.NewFunction(m.at(zerolog.DebugLevel)))
	L.SetField(mod, "info", L.NewFunction(m.at(zerolog.InfoLevel)))
	L.SetField(mod, "warn", L.NewFunction(m.at(zerolog.WarnLevel)))
	L.SetField(mod, "error", L.NewFunction(m.at(zerolog.ErrorLevel)))

	L.Push(mod)
	return 1
}

// at returns log.<level>(msg, fields)
func (m *LogModule) at(level zerolog.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)
		fields := m.parseFields(L, 2)

		event := log.WithLevel(level).Str("source", "lua")
		for k, v := range fields {
			event = event.Interface(k, v)
		}
		event.Msg(msg)

		return 0
	}
}

func (m *LogModule) parseFields(L *lua.LState, argIndex int) map[string]interface{} {
	fields := make(map[string]interface{})

	if tbl, ok := L.Get(argIndex).(*lua.LTable); ok {
		tbl.ForEach(func(key, value lua.LValue) {
			fields[lua.LVAsString(key)] = luaToGo(value)
		})
	}

	return fields
}
