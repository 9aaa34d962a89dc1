package ecs

// Each calls fn for every live entry in A's pool, in insertion order.
// Entities that were never made live are included.
func Each[A any](m *Manager, fn func(Entity, *A)) {
	pa := Pool[A](m)
	if pa == nil {
		return
	}
	pa.Each(func(id EntityID, a *A) {
		fn(m.Entity(id), a)
	})
}

// Each2 iterates over entities that have both component A and B.
// It iterates over the smaller pool and looks up the other one.
func Each2[A, B any](m *Manager, fn func(Entity, *A, *B)) {
	pa, pb := Pool[A](m), Pool[B](m)
	if pa == nil || pb == nil {
		return
	}
	if pa.Len() <= pb.Len() {
		pa.Each(func(id EntityID, a *A) {
			if b, ok := pb.find(id); ok {
				fn(m.Entity(id), a, b)
			}
		})
	} else {
		pb.Each(func(id EntityID, b *B) {
			if a, ok := pa.find(id); ok {
				fn(m.Entity(id), a, b)
			}
		})
	}
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C any](m *Manager, fn func(Entity, *A, *B, *C)) {
	pa, pb, pc := Pool[A](m), Pool[B](m), Pool[C](m)
	if pa == nil || pb == nil || pc == nil {
		return
	}

	// Iterate the smallest pool
	smallest := pa.Len()
	which := 0
	if pb.Len() < smallest {
		smallest = pb.Len()
		which = 1
	}
	if pc.Len() < smallest {
		which = 2
	}

	switch which {
	case 0:
		pa.Each(func(id EntityID, a *A) {
			if b, ok := pb.find(id); ok {
				if c, ok := pc.find(id); ok {
					fn(m.Entity(id), a, b, c)
				}
			}
		})
	case 1:
		pb.Each(func(id EntityID, b *B) {
			if a, ok := pa.find(id); ok {
				if c, ok := pc.find(id); ok {
					fn(m.Entity(id), a, b, c)
				}
			}
		})
	case 2:
		pc.Each(func(id EntityID, c *C) {
			if a, ok := pa.find(id); ok {
				if b, ok := pb.find(id); ok {
					fn(m.Entity(id), a, b, c)
				}
			}
		})
	}
}
