package ecs

import (
	"reflect"
	"sync"
)

// TypeID identifies a component (or system) type within one TypeRegistry.
type TypeID uint32

// TypeRegistry hands out TypeIDs. The first lookup of a type allocates the
// next identifier; later lookups return the same one. Identifiers are never
// reused. A registry may be shared by several managers.
type TypeRegistry struct {
	mu   sync.RWMutex
	ids  map[reflect.Type]TypeID
	next TypeID
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		ids: make(map[reflect.Type]TypeID, 16),
	}
}

// TypeOf returns the identifier assigned to T in r.
func TypeOf[T any](r *TypeRegistry) TypeID {
	return r.idFor(reflect.TypeFor[T]())
}

// TypeOfValue returns the identifier assigned to the dynamic type of v.
func (r *TypeRegistry) TypeOfValue(v any) TypeID {
	return r.idFor(reflect.TypeOf(v))
}

func (r *TypeRegistry) idFor(t reflect.Type) TypeID {
	r.mu.RLock()
	id, ok := r.ids[t]
	r.mu.RUnlock()
	if ok {
		return id
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.ids[t]; ok {
		return id
	}
	id = r.next
	r.next++
	r.ids[t] = id
	return id
}

// Len returns how many identifiers have been handed out.
func (r *TypeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}
