package component

import (
	"github.com/ove/engine/internal/scripting"
	lua "github.com/yuin/gopher-lua"
)

// ScriptBindings exposes the demo components to Lua systems.
func ScriptBindings() []scripting.Binding {
	return []scripting.Binding{
		scripting.Bind("position",
			func(p *Position, t *lua.LTable) {
				t.RawSetString("x", lua.LNumber(p.X))
				t.RawSetString("y", lua.LNumber(p.Y))
			},
			func(t *lua.LTable, p *Position) {
				p.X = float32(scripting.Num(t, "x"))
				p.Y = float32(scripting.Num(t, "y"))
			},
		),
		scripting.Bind("velocity",
			func(v *Velocity, t *lua.LTable) {
				t.RawSetString("x", lua.LNumber(v.X))
				t.RawSetString("y", lua.LNumber(v.Y))
			},
			func(t *lua.LTable, v *Velocity) {
				v.X = float32(scripting.Num(t, "x"))
				v.Y = float32(scripting.Num(t, "y"))
			},
		),
		scripting.Bind("lifetime",
			func(l *Lifetime, t *lua.LTable) {
				t.RawSetString("remaining", lua.LNumber(l.Remaining))
			},
			func(t *lua.LTable, l *Lifetime) {
				l.Remaining = float32(scripting.Num(t, "remaining"))
			},
		),
		scripting.Bind("name",
			func(n *Name, t *lua.LTable) {
				t.RawSetString("value", lua.LString(n.Value))
			},
			func(t *lua.LTable, n *Name) {
				n.Value = scripting.Str(t, "value")
			},
		),
	}
}
