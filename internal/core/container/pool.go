// Package container provides the slotted storage that backs component pools.
package container

import "iter"

type slot[T any] struct {
	valid bool
	value T
}

// Pool is an append-only slice of slots with a per-slot validity flag.
// Removed slots stay in place as tombstones until Compact is called, so
// slot order is insertion order.
type Pool[T any] struct {
	slots []slot[T]
	live  int
}

func NewPool[T any](capacity int) *Pool[T] {
	return &Pool[T]{
		slots: make([]slot[T], 0, capacity),
	}
}

// Add appends v as a valid slot and returns its index.
func (p *Pool[T]) Add(v T) int {
	p.slots = append(p.slots, slot[T]{valid: true, value: v})
	p.live++
	return len(p.slots) - 1
}

// Remove tombstones slot i. It reports false if i is out of range or the
// slot is already invalid.
func (p *Pool[T]) Remove(i int) bool {
	if i < 0 || i >= len(p.slots) || !p.slots[i].valid {
		return false
	}
	p.slots[i].valid = false
	var zero T
	p.slots[i].value = zero
	p.live--
	return true
}

// Scan visits every slot, tombstones included, in slot order.
// Iteration stops when fn returns false. The pointers passed to fn point into
// the slot slice and are invalidated by a later Add or Compact.
func (p *Pool[T]) Scan(fn func(i int, valid bool, v *T) bool) {
	for i := range p.slots {
		s := &p.slots[i]
		if !fn(i, s.valid, &s.value) {
			return
		}
	}
}

// All yields the valid slots in slot order.
func (p *Pool[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range p.slots {
			if !p.slots[i].valid {
				continue
			}
			if !yield(i, &p.slots[i].value) {
				return
			}
		}
	}
}

// Len returns the number of valid slots.
func (p *Pool[T]) Len() int { return p.live }

// Cap returns the number of slots, tombstones included.
func (p *Pool[T]) Cap() int { return len(p.slots) }

// Compact drops tombstones, keeping the relative order of valid slots.
// Slot indices returned by earlier Add calls are invalidated.
func (p *Pool[T]) Compact() {
	if p.live == len(p.slots) {
		return
	}
	n := 0
	for i := range p.slots {
		if p.slots[i].valid {
			p.slots[n] = p.slots[i]
			n++
		}
	}
	clear(p.slots[n:])
	p.slots = p.slots[:n]
}

// Reset drops every slot.
func (p *Pool[T]) Reset() {
	clear(p.slots)
	p.slots = p.slots[:0]
	p.live = 0
}
