package ecs

import (
	"reflect"

	"github.com/ove/engine/internal/core/container"
)

// pool is the type-erased view of a ComponentPool kept in the manager's map,
// so the manager can cascade entity removal and compaction across every
// component type without knowing C.
type pool interface {
	componentType() reflect.Type
	removeEntity(id EntityID) int
	compact()
	len() int
	reset()
}

// entry holds C behind a pointer so pointers handed out by lookups stay
// valid when the slot slice grows or is compacted.
type entry[C any] struct {
	entity EntityID
	value  *C
}

// ComponentPool stores every (entity, C) pair in insertion order. Removed
// pairs are tombstoned, not compacted, until Compact runs.
//
// The pool does not reject a second C for the same entity: both entries are
// kept, lookups return the first valid one and removal tombstones all.
type ComponentPool[C any] struct {
	slots *container.Pool[entry[C]]
}

func newComponentPool[C any](capacity int) *ComponentPool[C] {
	return &ComponentPool[C]{
		slots: container.NewPool[entry[C]](capacity),
	}
}

func (p *ComponentPool[C]) add(id EntityID, c C) {
	p.slots.Add(entry[C]{entity: id, value: &c})
}

// find returns the first valid entry owned by id.
func (p *ComponentPool[C]) find(id EntityID) (*C, bool) {
	var found *C
	p.slots.Scan(func(_ int, valid bool, e *entry[C]) bool {
		if valid && e.entity == id {
			found = e.value
			return false
		}
		return true
	})
	return found, found != nil
}

// removeEntity tombstones every valid entry owned by id.
func (p *ComponentPool[C]) removeEntity(id EntityID) int {
	var hits []int
	p.slots.Scan(func(i int, valid bool, e *entry[C]) bool {
		if valid && e.entity == id {
			hits = append(hits, i)
		}
		return true
	})
	for _, i := range hits {
		p.slots.Remove(i)
	}
	return len(hits)
}

func (p *ComponentPool[C]) componentType() reflect.Type {
	return reflect.TypeFor[C]()
}

func (p *ComponentPool[C]) compact() { p.slots.Compact() }

func (p *ComponentPool[C]) len() int { return p.slots.Len() }

func (p *ComponentPool[C]) reset() { p.slots.Reset() }

// Len returns the number of live entries.
func (p *ComponentPool[C]) Len() int { return p.slots.Len() }

// Each calls fn for every live entry in insertion order.
func (p *ComponentPool[C]) Each(fn func(EntityID, *C)) {
	for _, e := range p.slots.All() {
		fn(e.entity, e.value)
	}
}
