package system

import (
	"github.com/ove/engine/internal/component"
	"github.com/ove/engine/internal/core/ecs"
	coresys "github.com/ove/engine/internal/core/system"
)

// MovementSystem integrates Position by Velocity every frame.
type MovementSystem struct {
	coresys.Base
}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (s *MovementSystem) Update(em *ecs.Manager, dt coresys.Delta) {
	step := float32(dt)
	ecs.Each2(em, func(_ ecs.Entity, p *component.Position, v *component.Velocity) {
		p.X += v.X * step
		p.Y += v.Y * step
	})
}
