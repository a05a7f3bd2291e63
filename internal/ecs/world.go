package ecs

import "sort"

// World is the central entity registry and component store. It is owned by
// a single simulation loop and carries no locking.
type World struct {
	gens       []uint32 // generation per slot; even slots are free, odd are alive
	free       []uint32
	components map[ComponentType]map[uint32]Component
}

// NewWorld creates an empty World.
func NewWorld() *World {
	return &World{
		components: make(map[ComponentType]map[uint32]Component),
	}
}

// CreateEntity returns a fresh handle, reusing a freed slot when one exists.
func (w *World) CreateEntity() Entity {
	if n := len(w.free); n > 0 {
		idx := w.free[n-1]
		w.free = w.free[:n-1]
		w.gens[idx]++
		return Entity{Index: idx, Gen: w.gens[idx]}
	}
	w.gens = append(w.gens, 1)
	return Entity{Index: uint32(len(w.gens) - 1), Gen: 1}
}

// DestroyEntity removes all components of e and invalidates every
// outstanding handle to it. Destroying an absent entity is a no-op.
func (w *World) DestroyEntity(e Entity) {
	if !w.Alive(e) {
		return
	}
	for _, store := range w.components {
		delete(store, e.Index)
	}
	w.gens[e.Index]++
	w.free = append(w.free, e.Index)
}

// Alive reports whether e still refers to a live entity.
func (w *World) Alive(e Entity) bool {
	if e.IsNil() || int(e.Index) >= len(w.gens) {
		return false
	}
	gen := w.gens[e.Index]
	return gen == e.Gen && gen%2 == 1
}

// Add attaches a component to a live entity, replacing any previous
// component of the same type. Adding to an absent entity is ignored.
func (w *World) Add(e Entity, c Component) {
	if !w.Alive(e) {
		return
	}
	t := c.Type()
	if w.components[t] == nil {
		w.components[t] = make(map[uint32]Component)
	}
	w.components[t][e.Index] = c
}

// Get returns the component of the given type for e, or nil.
func (w *World) Get(e Entity, t ComponentType) Component {
	if !w.Alive(e) {
		return nil
	}
	store := w.components[t]
	if store == nil {
		return nil
	}
	return store[e.Index]
}

// GetAs fetches e's component of type T.
func GetAs[T Component](w *World, e Entity) (T, bool) {
	var zero T
	c, ok := w.Get(e, zero.Type()).(T)
	return c, ok
}

// Remove detaches a component from an entity.
func (w *World) Remove(e Entity, t ComponentType) {
	if !w.Alive(e) {
		return
	}
	if store := w.components[t]; store != nil {
		delete(store, e.Index)
	}
}

// Has reports whether e has a component of the given type.
func (w *World) Has(e Entity, t ComponentType) bool {
	return w.Get(e, t) != nil
}

// Clear removes every component of type t from all entities.
func (w *World) Clear(t ComponentType) {
	delete(w.components, t)
}

// Query returns all live entities that have every listed component type,
// ordered by slot index so callers iterate deterministically.
func (w *World) Query(types ...ComponentType) []Entity {
	if len(types) == 0 {
		return nil
	}
	// Use the smallest store as the candidate set.
	smallest := types[0]
	for _, t := range types[1:] {
		if len(w.components[t]) < len(w.components[smallest]) {
			smallest = t
		}
	}
	store := w.components[smallest]
	if store == nil {
		return nil
	}
	indexes := make([]uint32, 0, len(store))
	for idx := range store {
		indexes = append(indexes, idx)
	}
	sort.Slice(indexes, func(i, j int) bool { return indexes[i] < indexes[j] })

	var result []Entity
	for _, idx := range indexes {
		e := Entity{Index: idx, Gen: w.gens[idx]}
		match := true
		for _, t := range types {
			if t == smallest {
				continue
			}
			if _, ok := w.components[t][idx]; !ok {
				match = false
				break
			}
		}
		if match {
			result = append(result, e)
		}
	}
	return result
}

// Count returns the number of live entities.
func (w *World) Count() int {
	return len(w.gens) - len(w.free)
}
