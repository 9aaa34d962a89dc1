package component

// Lifetime counts down; the entity is removed once Remaining reaches zero.
type Lifetime struct {
	Remaining float32 // seconds
}

// Expired reports whether the countdown has run out.
func (l Lifetime) Expired() bool { return l.Remaining <= 0 }
