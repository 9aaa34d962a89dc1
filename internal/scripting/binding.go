package scripting

import (
	"github.com/ove/engine/internal/core/ecs"
	lua "github.com/yuin/gopher-lua"
)

// Binding exposes one component type to scripts under a name.
type Binding interface {
	Name() string
	has(em *ecs.Manager, e ecs.Entity) bool
	get(vm *lua.LState, em *ecs.Manager, e ecs.Entity) (*lua.LTable, bool)
	set(em *ecs.Manager, e ecs.Entity, t *lua.LTable)
	remove(em *ecs.Manager, e ecs.Entity) int
}

type binding[C any] struct {
	name string
	push func(c *C, t *lua.LTable)
	pull func(t *lua.LTable, c *C)
}

// Bind exposes C as name. push copies a component into a table handed to
// the script; pull copies a script table back into a component.
func Bind[C any](name string, push func(c *C, t *lua.LTable), pull func(t *lua.LTable, c *C)) Binding {
	return &binding[C]{name: name, push: push, pull: pull}
}

func (b *binding[C]) Name() string { return b.name }

func (b *binding[C]) has(em *ecs.Manager, e ecs.Entity) bool {
	return ecs.HasComponent[C](em, e)
}

func (b *binding[C]) get(vm *lua.LState, em *ecs.Manager, e ecs.Entity) (*lua.LTable, bool) {
	c, ok := ecs.LookupComponent[C](em, e)
	if !ok {
		return nil, false
	}
	t := vm.NewTable()
	b.push(c, t)
	return t, true
}

// set updates e's C in place, or adds a new one built from t.
func (b *binding[C]) set(em *ecs.Manager, e ecs.Entity, t *lua.LTable) {
	if c, ok := ecs.LookupComponent[C](em, e); ok {
		b.pull(t, c)
		return
	}
	var c C
	b.pull(t, &c)
	ecs.AddComponent(em, e, c)
}

func (b *binding[C]) remove(em *ecs.Manager, e ecs.Entity) int {
	return ecs.RemoveComponent[C](em, e)
}

// Num reads a numeric field from a Lua table.
func Num(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// Str reads a string field from a Lua table.
func Str(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}
