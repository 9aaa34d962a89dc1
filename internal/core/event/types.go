package event

// Lifecycle events published by system.Manager.

type SystemAdded struct {
	Name   string
	TypeID uint32
}

type SystemRemoved struct {
	Name   string
	TypeID uint32
}
