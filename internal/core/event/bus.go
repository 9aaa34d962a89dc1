package event

import (
	"reflect"
	"sync"
)

type handler func(any)

// Bus is a typed publish/subscribe bus shared by every system of a
// system.Manager.
//
// Publish delivers immediately. Emit is double-buffered: events emitted in
// frame N are delivered by DispatchAll after the SwapBuffers call that
// starts frame N+1.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	order    []reflect.Type // back-buffer types in first-emission order
	pending  []reflect.Type // front-buffer types in first-emission order
	handlers map[reflect.Type][]handler
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]handler),
	}
}

// Subscribe registers a typed handler for events of type T. Handlers run in
// subscription order.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeFor[T]()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// Publish delivers event to every handler of T right away.
func Publish[T any](b *Bus, event T) {
	b.deliver(reflect.TypeFor[T](), event)
}

// Emit queues an event into the back buffer (will be readable next frame).
func Emit[T any](b *Bus, event T) {
	t := reflect.TypeFor[T]()
	if len(b.back[t]) == 0 {
		b.order = append(b.order, t)
	}
	b.back[t] = append(b.back[t], event)
}

// SwapBuffers rotates back→front and clears the new back buffer.
// Undelivered front events are dropped.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
	b.pending, b.order = b.order, b.pending[:0]
}

// DispatchAll delivers all front-buffer events to their subscribed handlers,
// grouped by type in first-emission order, then empties the front buffer.
func (b *Bus) DispatchAll() {
	for _, t := range b.pending {
		for _, ev := range b.front[t] {
			b.deliver(t, ev)
		}
		b.front[t] = b.front[t][:0]
	}
	b.pending = b.pending[:0]
}

// Pending returns the number of events waiting in the back buffer.
func (b *Bus) Pending() int {
	n := 0
	for _, evs := range b.back {
		n += len(evs)
	}
	return n
}

func (b *Bus) deliver(t reflect.Type, event any) {
	b.mu.Lock()
	hs := b.handlers[t]
	b.mu.Unlock()
	for _, h := range hs {
		h(event)
	}
}
