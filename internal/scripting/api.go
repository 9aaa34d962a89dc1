package scripting

import (
	"github.com/ove/engine/internal/core/ecs"
	"github.com/ove/engine/internal/core/event"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// installAPI registers the global "ecs" table.
func (e *Engine) installAPI() {
	api := e.vm.NewTable()
	fns := map[string]lua.LGFunction{
		"entities": e.luaEntities,
		"spawn":    e.luaSpawn,
		"remove":   e.luaRemove,
		"has":      e.luaHas,
		"get":      e.luaGet,
		"set":      e.luaSet,
		"detach":   e.luaDetach,
		"emit":     e.luaEmit,
		"log":      e.luaLog,
	}
	for name, fn := range fns {
		e.vm.SetField(api, name, e.vm.NewFunction(fn))
	}
	e.vm.SetGlobal("ecs", api)
}

func (e *Engine) manager(L *lua.LState) *ecs.Manager {
	if e.em == nil {
		L.RaiseError("ecs api used outside a lifecycle call")
	}
	return e.em
}

func (e *Engine) entityArg(L *lua.LState, n int) ecs.Entity {
	return e.manager(L).Entity(ecs.EntityID(L.CheckNumber(n)))
}

func (e *Engine) bindingArg(L *lua.LState, n int) Binding {
	b, err := e.Binding(L.CheckString(n))
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	return b
}

// ecs.entities() -> {id, ...}
func (e *Engine) luaEntities(L *lua.LState) int {
	t := L.NewTable()
	for i, ent := range e.manager(L).Entities() {
		t.RawSetInt(i+1, lua.LNumber(ent.ID()))
	}
	L.Push(t)
	return 1
}

// ecs.spawn() -> id
func (e *Engine) luaSpawn(L *lua.LState) int {
	L.Push(lua.LNumber(e.manager(L).Spawn().ID()))
	return 1
}

// ecs.remove(id) -> bool
func (e *Engine) luaRemove(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	L.Push(lua.LBool(e.em.RemoveEntity(ent)))
	return 1
}

// ecs.has(id, name) -> bool
func (e *Engine) luaHas(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	b := e.bindingArg(L, 2)
	L.Push(lua.LBool(b.has(e.em, ent)))
	return 1
}

// ecs.get(id, name) -> table | nil
func (e *Engine) luaGet(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	b := e.bindingArg(L, 2)
	t, ok := b.get(L, e.em, ent)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(t)
	return 1
}

// ecs.set(id, name, table)
func (e *Engine) luaSet(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	b := e.bindingArg(L, 2)
	b.set(e.em, ent, L.CheckTable(3))
	return 0
}

// ecs.detach(id, name) -> removed count
func (e *Engine) luaDetach(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	b := e.bindingArg(L, 2)
	L.Push(lua.LNumber(b.remove(e.em, ent)))
	return 1
}

// ecs.emit(topic, fields)
func (e *Engine) luaEmit(L *lua.LState) int {
	topic := L.CheckString(1)
	var fields map[string]any
	if t, ok := L.Get(2).(*lua.LTable); ok {
		fields = toMap(t)
	}
	if e.bus == nil {
		e.log.Warn("lua emit without event bus", zap.String("topic", topic))
		return 0
	}
	event.Publish(e.bus, Message{Topic: topic, Fields: fields})
	return 0
}

// ecs.log(msg)
func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}

func toMap(t *lua.LTable) map[string]any {
	out := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		out[k.String()] = toGo(v)
	})
	return out
}

func toGo(v lua.LValue) any {
	switch lv := v.(type) {
	case lua.LBool:
		return bool(lv)
	case lua.LNumber:
		return float64(lv)
	case lua.LString:
		return string(lv)
	case *lua.LTable:
		return toMap(lv)
	default:
		return v.String()
	}
}
