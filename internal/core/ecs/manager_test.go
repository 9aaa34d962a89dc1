package ecs

import (
	"errors"
	"testing"

	"github.com/ove/engine/internal/core/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type position struct{ X, Y float32 }

type velocity struct{ X, Y float32 }

type tag struct{}

func expectViolation(t *testing.T, fn func()) *assert.Violation {
	t.Helper()
	var v *assert.Violation
	func() {
		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok || !errors.As(err, &v) {
				t.Fatalf("expected assert.Violation panic, got %v", r)
			}
		}()
		fn()
	}()
	return v
}

func TestFreshEntityHasNoComponents(t *testing.T) {
	m := NewManager()
	e := m.CreateEntity()
	if e.IsNil() {
		t.Fatal("expected non-nil entity ID")
	}
	if Has[position](e) {
		t.Fatal("fresh entity should not have position")
	}
	// A pool that exists for another entity must not leak either.
	Add(m.CreateEntity(), position{X: 9})
	if Has[position](e) {
		t.Fatal("fresh entity should not see another entity's position")
	}
}

func TestAddGetRoundTrip(t *testing.T) {
	m := NewManager()
	e := m.Spawn()
	Add(e, position{X: 1, Y: 2})

	if !Has[position](e) {
		t.Fatal("expected position after Add")
	}
	p := Get[position](e)
	if p.X != 1 || p.Y != 2 {
		t.Fatalf("expected {1 2}, got %+v", *p)
	}
}

func TestGetReturnsMutablePointer(t *testing.T) {
	m := NewManager()
	e := m.Spawn()
	Add(e, position{})
	Get[position](e).X = 5
	if got := Get[position](e).X; got != 5 {
		t.Fatalf("expected write through pointer, got %v", got)
	}
}

func TestRemoveClears(t *testing.T) {
	m := NewManager()
	e := m.Spawn()
	Add(e, position{X: 1})
	if n := Remove[position](e); n != 1 {
		t.Fatalf("expected 1 removed, got %d", n)
	}
	if Has[position](e) {
		t.Fatal("position should be gone after Remove")
	}
	if _, ok := Lookup[position](e); ok {
		t.Fatal("Lookup should miss after Remove")
	}
}

func TestRemoveNonexistentIsNoop(t *testing.T) {
	m := NewManager()
	e := m.Spawn()
	if n := Remove[velocity](e); n != 0 {
		t.Fatalf("expected no-op, removed %d", n)
	}
	Add(m.Spawn(), velocity{})
	if n := Remove[velocity](e); n != 0 {
		t.Fatalf("expected no-op on populated pool, removed %d", n)
	}
}

func TestRemoveOnlyTouchesTarget(t *testing.T) {
	m := NewManager()
	a, b := m.Spawn(), m.Spawn()
	Add(a, position{X: 1})
	Add(b, position{X: 2})

	Remove[position](a)
	Remove[position](a)

	if !Has[position](b) || Get[position](b).X != 2 {
		t.Fatal("removing a's position must not affect b")
	}
	if Pool[position](m).Len() != 1 {
		t.Fatalf("expected 1 live entry, got %d", Pool[position](m).Len())
	}
}

func TestEntityIsolation(t *testing.T) {
	m := NewManager()
	e1, e2 := m.Spawn(), m.Spawn()
	Add(e1, position{X: 1, Y: 1})
	if Has[position](e2) {
		t.Fatal("e2 must not see e1's position")
	}
	Add(e2, position{X: 2, Y: 2})
	if p := Get[position](e1); p.X != 1 || p.Y != 1 {
		t.Fatalf("e1 position changed to %+v", *p)
	}
	if p := Get[position](e2); p.X != 2 || p.Y != 2 {
		t.Fatalf("unexpected e2 position %+v", *p)
	}
}

func TestGetMissingComponentPanics(t *testing.T) {
	m := NewManager()
	e := m.Spawn()
	v := expectViolation(t, func() { Get[velocity](e) })
	if v.Msg == "" {
		t.Fatal("expected diagnostic message")
	}

	Add(m.Spawn(), velocity{})
	expectViolation(t, func() { Get[velocity](e) })
}

func TestDuplicateComponentsAreKept(t *testing.T) {
	m := NewManager()
	e := m.Spawn()
	Add(e, position{X: 1})
	Add(e, position{X: 2})

	if got := Get[position](e).X; got != 1 {
		t.Fatalf("Get should return the first entry, got %v", got)
	}
	if n := Remove[position](e); n != 2 {
		t.Fatalf("expected both entries removed, got %d", n)
	}
	if Has[position](e) {
		t.Fatal("no position should remain")
	}
}

func TestReAddAfterRemove(t *testing.T) {
	m := NewManager()
	e := m.Spawn()
	Add(e, position{X: 1})
	Remove[position](e)
	Add(e, position{X: 3})
	if got := Get[position](e).X; got != 3 {
		t.Fatalf("expected re-added value 3, got %v", got)
	}
}

func TestCreateDoesNotRegister(t *testing.T) {
	m := NewManager()
	e := m.CreateEntity()
	if m.IsLive(e) || m.Len() != 0 {
		t.Fatal("CreateEntity must not make the entity live")
	}

	// Components can still be attached to an unregistered entity.
	Add(e, position{X: 4})
	if !Has[position](e) {
		t.Fatal("unregistered entity should still hold components")
	}

	if !m.AddEntity(e) {
		t.Fatal("expected AddEntity to register")
	}
	if m.AddEntity(e) {
		t.Fatal("second AddEntity should report false")
	}
	if got := m.Entities(); len(got) != 1 || got[0].ID() != e.ID() {
		t.Fatalf("unexpected live list %v", got)
	}
}

func TestAddEntityFromOtherManagerPanics(t *testing.T) {
	a, b := NewManager(), NewManager()
	e := a.CreateEntity()
	expectViolation(t, func() { b.AddEntity(e) })
}

func TestEntitiesInInsertionOrder(t *testing.T) {
	m := NewManager()
	var want []EntityID
	for i := 0; i < 5; i++ {
		e := m.CreateEntity()
		want = append(want, e.ID())
		m.AddEntity(e)
	}
	got := m.Entities()
	for i := range want {
		if got[i].ID() != want[i] {
			t.Fatalf("position %d: expected %d, got %d", i, want[i], got[i].ID())
		}
	}
}

func TestRemoveEntityCascades(t *testing.T) {
	m := NewManager()
	e := m.Spawn()
	keep := m.Spawn()
	Add(e, position{})
	Add(e, velocity{})
	Add(keep, position{X: 7})

	if !m.RemoveEntity(e) {
		t.Fatal("expected live entity to be removed")
	}
	if m.IsLive(e) {
		t.Fatal("entity still live after RemoveEntity")
	}
	if Has[position](e) || Has[velocity](e) {
		t.Fatal("components should be gone after RemoveEntity")
	}
	if !Has[position](keep) || !m.IsLive(keep) {
		t.Fatal("other entity must be untouched")
	}
	if m.RemoveEntity(e) {
		t.Fatal("second RemoveEntity should report false")
	}
}

func TestRemoveEntityUnregistered(t *testing.T) {
	m := NewManager()
	e := m.CreateEntity()
	Add(e, tag{})
	if m.RemoveEntity(e) {
		t.Fatal("unregistered entity was never live")
	}
	if Has[tag](e) {
		t.Fatal("components of unregistered entity should still be removed")
	}
}

func TestRemoveEntityDuringIteration(t *testing.T) {
	m := NewManager()
	for i := 0; i < 4; i++ {
		m.Spawn()
	}
	visited := 0
	for _, e := range m.Entities() {
		visited++
		m.RemoveEntity(e)
	}
	if visited != 4 || m.Len() != 0 {
		t.Fatalf("expected 4 visits and empty list, got %d visits, %d left", visited, m.Len())
	}
}

func TestEntityIDsAreUnique(t *testing.T) {
	seq := &Sequence{}
	a := NewManager(WithIDGenerator(seq))
	b := NewManager(WithIDGenerator(seq))
	seen := make(map[EntityID]bool)
	for i := 0; i < 100; i++ {
		for _, e := range []Entity{a.CreateEntity(), b.Spawn()} {
			if seen[e.ID()] {
				t.Fatalf("duplicate entity ID %d", e.ID())
			}
			seen[e.ID()] = true
		}
	}
}

func TestEntityHandlesAreFungible(t *testing.T) {
	m := NewManager()
	e := m.Spawn()
	Add(e, position{X: 3})
	again := m.Entity(e.ID())
	if Get[position](again).X != 3 {
		t.Fatal("handle rebuilt from ID should see the same component")
	}
	if again != e {
		t.Fatal("handles with same ID and manager should compare equal")
	}
	if e.String() != "Entity(1)" {
		t.Fatalf("unexpected String() %q", e.String())
	}
}

func TestCompactKeepsLiveEntries(t *testing.T) {
	m := NewManager()
	var es []Entity
	for i := 0; i < 5; i++ {
		e := m.Spawn()
		Add(e, position{X: float32(i)})
		es = append(es, e)
	}
	Remove[position](es[1])
	Remove[position](es[3])
	m.Compact()

	for i, e := range es {
		want := i != 1 && i != 3
		if Has[position](e) != want {
			t.Fatalf("entity %d: Has=%v, want %v", i, !want, want)
		}
		if want && Get[position](e).X != float32(i) {
			t.Fatalf("entity %d: value changed by Compact", i)
		}
	}
	if got := m.PoolStats()["ecs.position"]; got != 3 {
		t.Fatalf("expected 3 live positions, got %d", got)
	}
}

func TestReleaseDropsEverything(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m := NewManager(WithLogger(zap.New(core)))
	e := m.Spawn()
	Add(e, position{})
	last := e.ID()

	m.Release()
	if m.Len() != 0 || Pool[position](m) != nil || Has[position](e) {
		t.Fatal("Release should drop entities and pools")
	}
	if next := m.Spawn(); next.ID() <= last {
		t.Fatalf("IDs must keep increasing after Release, got %d after %d", next.ID(), last)
	}
	if logs.FilterMessage("entity manager released").Len() != 1 {
		t.Fatal("expected release to be logged")
	}
	if logs.FilterMessage("component pool created").Len() != 1 {
		t.Fatal("expected pool creation to be logged once")
	}
}

func TestSharedTypeRegistry(t *testing.T) {
	reg := NewTypeRegistry()
	a := NewManager(WithTypeRegistry(reg))
	b := NewManager(WithTypeRegistry(reg))
	Add(a.Spawn(), position{})
	Add(b.Spawn(), velocity{})
	if reg.Len() != 2 {
		t.Fatalf("expected 2 registered types, got %d", reg.Len())
	}
	if a.Types() != b.Types() {
		t.Fatal("managers should share the registry")
	}
}

func TestComponentWithoutLiveEntityInEach(t *testing.T) {
	m := NewManager()
	ghost := m.CreateEntity()
	Add(ghost, position{X: 1})
	n := 0
	Each(m, func(e Entity, _ *position) {
		if e.ID() == ghost.ID() {
			n++
		}
	})
	if n != 1 {
		t.Fatalf("Each should visit components of unregistered entities, got %d", n)
	}
}

func TestHandleMatchesManager(t *testing.T) {
	m := NewManager()
	e := m.Spawn()

	AddComponent(m, e, position{X: 5})
	if !Has[position](e) || Get[position](e) != GetComponent[position](m, e) {
		t.Fatal("handle and manager should see the same component")
	}
	Add(e, velocity{X: 1})
	if !HasComponent[velocity](m, e) {
		t.Fatal("component added via handle should be visible to the manager")
	}
	if _, ok := Lookup[tag](e); ok {
		t.Fatal("lookup of an absent component should fail")
	}
	if Remove[velocity](e) != 1 || HasComponent[velocity](m, e) {
		t.Fatal("removal via handle should clear the manager's pool")
	}
	if RemoveComponent[position](m, e) != 1 || Has[position](e) {
		t.Fatal("removal via manager should be visible through the handle")
	}
}

func TestGetPointerSurvivesLaterAdd(t *testing.T) {
	m := NewManager(WithCapacity(1))
	e := m.Spawn()
	Add(e, position{X: 1})
	p := Get[position](e)

	for i := 0; i < 8; i++ {
		Add(m.Spawn(), position{X: 7})
	}
	p.X = 42
	if got := Get[position](e).X; got != 42 {
		t.Fatalf("write through an earlier Get pointer was lost: got %v", got)
	}
}

func TestGetPointerSurvivesCompact(t *testing.T) {
	m := NewManager()
	gone, kept := m.Spawn(), m.Spawn()
	Add(gone, position{})
	Add(kept, position{X: 1})
	p := Get[position](kept)

	m.RemoveEntity(gone)
	m.Compact()
	p.X = 5
	if got := Get[position](kept).X; got != 5 {
		t.Fatalf("write through a pointer taken before Compact was lost: got %v", got)
	}
}

func TestReleaseEmptiesHeldPools(t *testing.T) {
	m := NewManager()
	Add(m.Spawn(), position{})
	held := Pool[position](m)

	m.Release()
	if held.Len() != 0 {
		t.Fatalf("a pool obtained before Release should be empty, got %d", held.Len())
	}
	held.Each(func(EntityID, *position) { t.Fatal("released pool should yield nothing") })
}
