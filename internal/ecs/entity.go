package ecs

import "fmt"

// Entity is a generation-checked handle into a World. A handle whose
// generation no longer matches its slot refers to a destroyed entity and
// resolves to "absent".
type Entity struct {
	Index uint32
	Gen   uint32
}

// Nil is the zero handle. No live entity ever has generation zero.
var Nil = Entity{}

// IsNil reports whether e is the zero handle.
func (e Entity) IsNil() bool {
	return e.Gen == 0
}

func (e Entity) String() string {
	if e.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("%d:%d", e.Index, e.Gen)
}

// ComponentType is a small integer key used to store/retrieve components.
type ComponentType uint8

// Component is implemented by every data struct stored in the world.
type Component interface {
	Type() ComponentType
}
