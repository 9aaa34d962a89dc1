package system

import (
	"fmt"
	"io"

	"github.com/ove/engine/internal/core/ecs"
	"github.com/ove/engine/internal/core/event"
	"go.uber.org/zap"
)

type state int

const (
	stateIdle state = iota
	stateRunning
	stateCleaned
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateRunning:
		return "running"
	default:
		return "cleaned"
	}
}

type entry struct {
	sys         System
	typ         ecs.TypeID
	name        string
	initialized bool
	removed     bool
}

// Manager runs its systems in registration order for each lifecycle phase.
//
// Each phase iterates a snapshot of the collection: a system added during a
// phase is first called in the next one, a system removed during a phase is
// not called again.
type Manager struct {
	bus      *event.Bus
	entities *ecs.Manager
	types    *ecs.TypeRegistry
	systems  []*entry
	state    state
	log      *zap.Logger
}

type Option func(*Manager)

func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithTypeRegistry sets the registry used to identify system types.
func WithTypeRegistry(r *ecs.TypeRegistry) Option {
	return func(m *Manager) { m.types = r }
}

// NewManager returns a manager that injects bus into every added system and
// passes entities to every lifecycle call.
//
// The manager takes ownership of entities: Close releases its pools and
// live list. Callers sharing one entity manager between several system
// managers must not Close more than the last of them.
func NewManager(bus *event.Bus, entities *ecs.Manager, opts ...Option) *Manager {
	m := &Manager{
		bus:      bus,
		entities: entities,
		systems:  make([]*entry, 0, 16),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.types == nil {
		m.types = ecs.NewTypeRegistry()
	}
	return m
}

func (m *Manager) EventBus() *event.Bus     { return m.bus }
func (m *Manager) Entities() *ecs.Manager   { return m.entities }
func (m *Manager) Len() int                 { return len(m.systems) }
func (m *Manager) Types() *ecs.TypeRegistry { return m.types }

// Systems returns the registered systems in dispatch order.
func (m *Manager) Systems() []System {
	out := make([]System, len(m.systems))
	for i, e := range m.systems {
		out[i] = e.sys
	}
	return out
}

// Add injects the event bus into s and appends it. Adding the same type
// twice yields two independent entries. A system added after Init and
// before Clean is initialized immediately.
func (m *Manager) Add(s System) System {
	if ba, ok := s.(busAware); ok {
		ba.attachBus(m.bus)
	}
	e := &entry{
		sys:  s,
		typ:  m.types.TypeOfValue(s),
		name: fmt.Sprintf("%T", s),
	}
	m.systems = append(m.systems, e)
	m.log.Debug("system added",
		zap.String("system", e.name),
		zap.Uint32("type_id", uint32(e.typ)),
		zap.Int("index", len(m.systems)-1),
	)
	if m.bus != nil {
		event.Publish(m.bus, event.SystemAdded{Name: e.name, TypeID: uint32(e.typ)})
	}
	if m.state == stateRunning {
		e.sys.Init(m.entities)
		e.initialized = true
	}
	return s
}

// Register is Add with the concrete type preserved.
func Register[S System](m *Manager, s S) S {
	m.Add(s)
	return s
}

// Remove removes every registered system of type S and returns how many were
// removed. Systems that were initialized and not yet cleaned get Clean first.
func Remove[S System](m *Manager) int {
	return m.removeWhere(func(e *entry) bool {
		_, ok := e.sys.(S)
		return ok
	})
}

// RemoveInstance removes s by identity.
func (m *Manager) RemoveInstance(s System) bool {
	return m.removeWhere(func(e *entry) bool { return e.sys == s }) > 0
}

func (m *Manager) removeWhere(match func(*entry) bool) int {
	kept := make([]*entry, 0, len(m.systems))
	var removed []*entry
	for _, e := range m.systems {
		if match(e) {
			removed = append(removed, e)
		} else {
			kept = append(kept, e)
		}
	}
	if len(removed) == 0 {
		return 0
	}
	m.systems = kept
	for _, e := range removed {
		e.removed = true
		if e.initialized {
			e.sys.Clean(m.entities)
			e.initialized = false
		}
		m.log.Debug("system removed", zap.String("system", e.name))
		if m.bus != nil {
			event.Publish(m.bus, event.SystemRemoved{Name: e.name, TypeID: uint32(e.typ)})
		}
	}
	return len(removed)
}

// Init calls Init on every system.
func (m *Manager) Init() {
	if m.state == stateRunning {
		m.log.Warn("system manager initialized twice")
	}
	m.state = stateRunning
	for _, e := range m.systems {
		if e.removed {
			continue
		}
		e.sys.Init(m.entities)
		e.initialized = true
	}
}

// Update calls Update on every system with dt.
func (m *Manager) Update(dt Delta) {
	m.checkRunning("update")
	for _, e := range m.systems {
		if !e.removed {
			e.sys.Update(m.entities, dt)
		}
	}
}

// Render calls Render on every system.
func (m *Manager) Render() {
	m.checkRunning("render")
	for _, e := range m.systems {
		if !e.removed {
			e.sys.Render(m.entities)
		}
	}
}

// Clean calls Clean on every system. Systems stay registered and can be
// initialized again.
func (m *Manager) Clean() {
	if m.state != stateRunning {
		m.log.Warn("clean called while not running", zap.Stringer("state", m.state))
	}
	m.state = stateCleaned
	for _, e := range m.systems {
		if e.removed {
			continue
		}
		e.sys.Clean(m.entities)
		e.initialized = false
	}
}

// Close cleans the systems if still running, closes those implementing
// io.Closer and drops them, then releases the owned entity manager.
func (m *Manager) Close() {
	if m.state == stateRunning {
		m.Clean()
	}
	n := len(m.systems)
	for _, e := range m.systems {
		e.removed = true
		if c, ok := e.sys.(io.Closer); ok {
			if err := c.Close(); err != nil {
				m.log.Error("close system", zap.String("system", e.name), zap.Error(err))
			}
		}
	}
	m.systems = m.systems[:0:0]
	if m.entities != nil {
		m.entities.Release()
	}
	m.state = stateIdle
	m.log.Debug("system manager closed", zap.Int("systems", n))
}

func (m *Manager) checkRunning(phase string) {
	if m.state != stateRunning {
		m.log.Warn("lifecycle phase outside init/clean",
			zap.String("phase", phase),
			zap.Stringer("state", m.state),
		)
	}
}
