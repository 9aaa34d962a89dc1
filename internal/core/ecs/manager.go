package ecs

import (
	"reflect"

	"github.com/ove/engine/internal/core/assert"
	"go.uber.org/zap"
)

// Manager owns the component pools and the live entity list.
//
// Creating an entity and making it live are separate steps: CreateEntity
// only allocates an ID, AddEntity registers it. Spawn does both. Pools are
// keyed by raw ID, so components can be attached to an entity that was
// never registered; it just does not show up in Entities.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	types    *TypeRegistry
	ids      IDGenerator
	pools    map[TypeID]pool
	entities []Entity
	capacity int
	log      *zap.Logger
}

type Option func(*Manager)

// WithTypeRegistry shares a component type registry between managers.
func WithTypeRegistry(r *TypeRegistry) Option {
	return func(m *Manager) { m.types = r }
}

// WithIDGenerator replaces the default entity ID sequence.
func WithIDGenerator(g IDGenerator) Option {
	return func(m *Manager) { m.ids = g }
}

// WithCapacity sets the initial capacity of the live list and of each pool.
func WithCapacity(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.capacity = n
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) { m.log = log }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		capacity: 64,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.types == nil {
		m.types = NewTypeRegistry()
	}
	if m.ids == nil {
		m.ids = &Sequence{}
	}
	m.pools = make(map[TypeID]pool, 16)
	m.entities = make([]Entity, 0, m.capacity)
	return m
}

// Types returns the registry used to identify component types.
func (m *Manager) Types() *TypeRegistry { return m.types }

// CreateEntity allocates a new ID and returns its handle. The entity is not
// live until passed to AddEntity.
func (m *Manager) CreateEntity() Entity {
	return Entity{id: m.ids.Next(), mgr: m}
}

// AddEntity makes e live. It reports false if e is already live.
func (m *Manager) AddEntity(e Entity) bool {
	assert.That(e.mgr == m, "%s belongs to another manager", e)
	if m.IsLive(e) {
		return false
	}
	m.entities = append(m.entities, e)
	return true
}

// Spawn creates an entity and makes it live.
func (m *Manager) Spawn() Entity {
	e := m.CreateEntity()
	m.entities = append(m.entities, e)
	return e
}

// RemoveEntity drops e from the live list and removes all of its components.
// Components are removed even when e was never live; the result reports
// whether e was on the live list.
func (m *Manager) RemoveEntity(e Entity) bool {
	removed := 0
	for _, p := range m.pools {
		removed += p.removeEntity(e.id)
	}

	idx := m.indexOf(e.id)
	if idx >= 0 {
		m.entities = append(m.entities[:idx:idx], m.entities[idx+1:]...)
	}
	if removed > 0 || idx >= 0 {
		m.log.Debug("entity removed",
			zap.Uint64("entity", uint64(e.id)),
			zap.Int("components", removed),
			zap.Bool("live", idx >= 0),
		)
	}
	return idx >= 0
}

// Entity returns a handle for id bound to m. The ID is not checked.
func (m *Manager) Entity(id EntityID) Entity {
	return Entity{id: id, mgr: m}
}

// Entities returns the live list in registration order. The slice is the
// manager's own; callers may reorder or overwrite it in place. RemoveEntity
// builds a new slice, so ranging over an earlier result stays safe while
// entities are being removed.
func (m *Manager) Entities() []Entity {
	return m.entities
}

// IsLive reports whether e is on the live list.
func (m *Manager) IsLive(e Entity) bool {
	return m.indexOf(e.id) >= 0
}

// Len returns the number of live entities.
func (m *Manager) Len() int { return len(m.entities) }

func (m *Manager) indexOf(id EntityID) int {
	for i := range m.entities {
		if m.entities[i].id == id {
			return i
		}
	}
	return -1
}

// Compact drops tombstoned entries from every pool. Must not be called while
// iterating a pool.
func (m *Manager) Compact() {
	for _, p := range m.pools {
		p.compact()
	}
}

// Release empties and drops every pool and the live list. Pools obtained
// earlier through Pool read as empty. IDs keep increasing afterwards.
func (m *Manager) Release() {
	n := len(m.pools)
	for _, p := range m.pools {
		p.reset()
	}
	clear(m.pools)
	clear(m.entities)
	m.entities = m.entities[:0]
	m.log.Debug("entity manager released", zap.Int("pools", n))
}

// PoolStats reports the live entry count per component type name.
func (m *Manager) PoolStats() map[string]int {
	stats := make(map[string]int, len(m.pools))
	for _, p := range m.pools {
		stats[p.componentType().String()] = p.len()
	}
	return stats
}

// Pool returns C's pool, or nil if no C was ever added.
func Pool[C any](m *Manager) *ComponentPool[C] {
	return lookupPool[C](m, false)
}

func lookupPool[C any](m *Manager, create bool) *ComponentPool[C] {
	id := TypeOf[C](m.types)
	raw, ok := m.pools[id]
	if !ok {
		if !create {
			return nil
		}
		p := newComponentPool[C](m.capacity)
		m.pools[id] = p
		m.log.Debug("component pool created",
			zap.Stringer("type", reflect.TypeFor[C]()),
			zap.Uint32("type_id", uint32(id)),
		)
		return p
	}
	p, ok := raw.(*ComponentPool[C])
	assert.That(ok, "pool %d holds %s, not %s", id, raw.componentType(), reflect.TypeFor[C]())
	return p
}

// AddComponent attaches c to e, creating C's pool on first use. A second C
// for the same entity is kept alongside the first.
func AddComponent[C any](m *Manager, e Entity, c C) {
	lookupPool[C](m, true).add(e.id, c)
}

// HasComponent reports whether e has a valid C.
func HasComponent[C any](m *Manager, e Entity) bool {
	_, ok := LookupComponent[C](m, e)
	return ok
}

// LookupComponent returns a pointer to e's first valid C.
func LookupComponent[C any](m *Manager, e Entity) (*C, bool) {
	p := lookupPool[C](m, false)
	if p == nil {
		return nil, false
	}
	return p.find(e.id)
}

// GetComponent returns a pointer to e's first valid C. A missing component
// is a programming error and panics with an assert.Violation.
func GetComponent[C any](m *Manager, e Entity) *C {
	c, ok := LookupComponent[C](m, e)
	if !ok {
		assert.Fail("%s has no %s component", e, reflect.TypeFor[C]())
	}
	return c
}

// RemoveComponent removes every C attached to e and returns how many were
// removed. Removing a component e never had is a no-op.
func RemoveComponent[C any](m *Manager, e Entity) int {
	p := lookupPool[C](m, false)
	if p == nil {
		return 0
	}
	return p.removeEntity(e.id)
}
