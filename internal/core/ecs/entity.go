package ecs

import (
	"strconv"
	"sync/atomic"
)

// EntityID is a process-unique entity identifier. Identifiers are never
// reused; NilEntity is never handed out.
type EntityID uint64

// NilEntity is the zero value. No allocated entity has this ID.
const NilEntity EntityID = 0

// IDGenerator allocates entity identifiers.
type IDGenerator interface {
	Next() EntityID
}

// Sequence is the default IDGenerator: 1, 2, 3, ...
// It is safe to share between managers.
type Sequence struct {
	n atomic.Uint64
}

func (s *Sequence) Next() EntityID {
	return EntityID(s.n.Add(1))
}

// Entity is a handle: an ID bound to the Manager that allocated it. It owns
// no component data, and two handles with the same ID are interchangeable.
type Entity struct {
	id  EntityID
	mgr *Manager
}

func (e Entity) ID() EntityID      { return e.id }
func (e Entity) Manager() *Manager { return e.mgr }
func (e Entity) IsNil() bool       { return e.id == NilEntity }

func (e Entity) String() string {
	return "Entity(" + strconv.FormatUint(uint64(e.id), 10) + ")"
}

// Add attaches c to e.
func Add[C any](e Entity, c C) {
	AddComponent(e.mgr, e, c)
}

// Has reports whether e has a C.
func Has[C any](e Entity) bool {
	return HasComponent[C](e.mgr, e)
}

// Get returns e's C. It panics if e has none; guard with Has or use Lookup.
func Get[C any](e Entity) *C {
	return GetComponent[C](e.mgr, e)
}

// Lookup returns e's C and whether it exists.
func Lookup[C any](e Entity) (*C, bool) {
	return LookupComponent[C](e.mgr, e)
}

// Remove detaches every C from e and returns how many were removed.
func Remove[C any](e Entity) int {
	return RemoveComponent[C](e.mgr, e)
}
