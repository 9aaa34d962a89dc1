package system

import (
	"fmt"
	"math/rand"

	"github.com/ove/engine/internal/component"
	"github.com/ove/engine/internal/core/ecs"
	coresys "github.com/ove/engine/internal/core/system"
)

// SpawnerSystem keeps the live population at a target size, spawning
// entities with a random position and heading.
type SpawnerSystem struct {
	coresys.Base
	target   int
	speed    float32
	lifetime float32
	rng      *rand.Rand
	spawned  int
}

func NewSpawnerSystem(target int, speed, lifetime float32, rng *rand.Rand) *SpawnerSystem {
	return &SpawnerSystem{target: target, speed: speed, lifetime: lifetime, rng: rng}
}

// Spawned returns how many entities the system has created so far.
func (s *SpawnerSystem) Spawned() int { return s.spawned }

func (s *SpawnerSystem) Init(em *ecs.Manager) { s.fill(em) }

func (s *SpawnerSystem) Update(em *ecs.Manager, _ coresys.Delta) { s.fill(em) }

func (s *SpawnerSystem) fill(em *ecs.Manager) {
	for em.Len() < s.target {
		e := em.Spawn()
		s.spawned++
		ecs.Add(e, component.Name{Value: fmt.Sprintf("mote-%d", s.spawned)})
		ecs.Add(e, component.Position{
			X: s.rng.Float32() * 100,
			Y: s.rng.Float32() * 100,
		})
		ecs.Add(e, component.Velocity{
			X: (s.rng.Float32()*2 - 1) * s.speed,
			Y: (s.rng.Float32()*2 - 1) * s.speed,
		})
		if s.lifetime > 0 {
			// Jitter lifetimes so entities do not all expire on one frame.
			ecs.Add(e, component.Lifetime{Remaining: s.lifetime * (0.5 + s.rng.Float32())})
		}
	}
}
