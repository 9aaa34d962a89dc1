package system

import (
	"github.com/ove/engine/internal/core/ecs"
	coresys "github.com/ove/engine/internal/core/system"
)

// EventDispatchSystem swaps the bus buffers and delivers last frame's
// emitted events. Register it first so every other system sees them.
type EventDispatchSystem struct {
	coresys.Base
}

func NewEventDispatchSystem() *EventDispatchSystem {
	return &EventDispatchSystem{}
}

func (s *EventDispatchSystem) Update(_ *ecs.Manager, _ coresys.Delta) {
	bus := s.EventBus()
	bus.SwapBuffers()
	bus.DispatchAll()
}

// Clean flushes whatever was emitted during the final frame.
func (s *EventDispatchSystem) Clean(_ *ecs.Manager) {
	bus := s.EventBus()
	bus.SwapBuffers()
	bus.DispatchAll()
}
