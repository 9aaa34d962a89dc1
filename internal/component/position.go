package component

// Position is a 2D world-space location.
type Position struct {
	X, Y float32
}

// Velocity is world units per second.
type Velocity struct {
	X, Y float32
}
