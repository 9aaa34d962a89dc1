package system

import (
	"time"

	"github.com/ove/engine/internal/core/ecs"
	"github.com/ove/engine/internal/core/event"
)

// Delta is the elapsed time since the previous frame, in seconds.
type Delta float32

func DeltaOf(d time.Duration) Delta {
	return Delta(d.Seconds())
}

// System is the interface every ECS system implements.
//
// Manager calls Init once before the first Update/Render and Clean once
// after the last one. The order is not enforced.
type System interface {
	Init(em *ecs.Manager)
	Update(em *ecs.Manager, dt Delta)
	Render(em *ecs.Manager)
	Clean(em *ecs.Manager)
}

type busAware interface {
	attachBus(b *event.Bus)
}

// Base is embedded by concrete systems. It receives the event bus when the
// system is added to a Manager and provides no-op lifecycle methods, so a
// system only implements the phases it uses.
type Base struct {
	bus *event.Bus
}

func (b *Base) attachBus(bus *event.Bus) { b.bus = bus }

// EventBus returns the bus injected at registration, or nil before that.
func (b *Base) EventBus() *event.Bus { return b.bus }

func (b *Base) Init(*ecs.Manager)          {}
func (b *Base) Update(*ecs.Manager, Delta) {}
func (b *Base) Render(*ecs.Manager)        {}
func (b *Base) Clean(*ecs.Manager)         {}

// Funcs adapts plain functions to System. Nil fields are skipped.
type Funcs struct {
	Base
	OnInit   func(em *ecs.Manager)
	OnUpdate func(em *ecs.Manager, dt Delta)
	OnRender func(em *ecs.Manager)
	OnClean  func(em *ecs.Manager)
}

func (f *Funcs) Init(em *ecs.Manager) {
	if f.OnInit != nil {
		f.OnInit(em)
	}
}

func (f *Funcs) Update(em *ecs.Manager, dt Delta) {
	if f.OnUpdate != nil {
		f.OnUpdate(em, dt)
	}
}

func (f *Funcs) Render(em *ecs.Manager) {
	if f.OnRender != nil {
		f.OnRender(em)
	}
}

func (f *Funcs) Clean(em *ecs.Manager) {
	if f.OnClean != nil {
		f.OnClean(em)
	}
}
