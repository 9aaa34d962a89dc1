package system

import (
	"slices"

	"github.com/ove/engine/internal/component"
	"github.com/ove/engine/internal/core/ecs"
	"github.com/ove/engine/internal/core/event"
	coresys "github.com/ove/engine/internal/core/system"
)

// Expired is emitted (deferred one frame) for every entity removed by
// LifetimeSystem.
type Expired struct {
	Entity ecs.EntityID
	Name   string
}

// LifetimeSystem counts Lifetime components down and removes expired
// entities together with all their components.
type LifetimeSystem struct {
	coresys.Base
	expired []ecs.Entity
}

func NewLifetimeSystem() *LifetimeSystem {
	return &LifetimeSystem{}
}

func (s *LifetimeSystem) Update(em *ecs.Manager, dt coresys.Delta) {
	s.expired = s.expired[:0]
	ecs.Each(em, func(e ecs.Entity, l *component.Lifetime) {
		l.Remaining -= float32(dt)
		if l.Expired() && !slices.Contains(s.expired, e) {
			// An entity carrying several Lifetimes expires once.
			s.expired = append(s.expired, e)
		}
	})

	// Removal tombstones pool slots, so it runs after the pool scan.
	for _, e := range s.expired {
		ev := Expired{Entity: e.ID()}
		if n, ok := ecs.Lookup[component.Name](e); ok {
			ev.Name = n.Value
		}
		em.RemoveEntity(e)
		if bus := s.EventBus(); bus != nil {
			event.Emit(bus, ev)
		}
	}
}
