// Package watchers holds the stock fight statistics kept by every engine.
package watchers

import (
	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
)

// DamageTakenWatcher tracks damage dealt to each entity after blocks.
type DamageTakenWatcher struct {
	taken map[ecs.Entity]int
}

// NewDamageTakenWatcher creates a new damage taken watcher.
func NewDamageTakenWatcher() *DamageTakenWatcher {
	return &DamageTakenWatcher{taken: make(map[ecs.Entity]int)}
}

func (w *DamageTakenWatcher) Key() string { return "DamageTakenWatcher" }

// Watch implements the Watcher interface. Fully blocked hits count as zero.
func (w *DamageTakenWatcher) Watch(note rules.Notification) {
	if note.Type != rules.NoteDamageDealt || note.Target.IsNil() {
		return
	}
	w.taken[note.Target] += note.Amount
}

// GetDamage returns the total damage e has taken.
func (w *DamageTakenWatcher) GetDamage(e ecs.Entity) int {
	return w.taken[e]
}

// GetTotal returns the damage taken by everyone.
func (w *DamageTakenWatcher) GetTotal() int {
	total := 0
	for _, amount := range w.taken {
		total += amount
	}
	return total
}

// InterruptWatcher counts contests and the attacks they cancelled.
type InterruptWatcher struct {
	contests    int
	interrupted map[ecs.Entity]int // entity -> attacks of theirs cancelled
}

// NewInterruptWatcher creates a new interrupt watcher.
func NewInterruptWatcher() *InterruptWatcher {
	return &InterruptWatcher{interrupted: make(map[ecs.Entity]int)}
}

func (w *InterruptWatcher) Key() string { return "InterruptWatcher" }

// Watch implements the Watcher interface.
func (w *InterruptWatcher) Watch(note rules.Notification) {
	switch note.Type {
	case rules.NoteContest:
		w.contests++
	case rules.NoteInterrupted:
		w.interrupted[note.Target]++
	}
}

// GetContests returns how many contests were fought.
func (w *InterruptWatcher) GetContests() int {
	return w.contests
}

// GetInterrupted returns how many of e's attacks were cancelled.
func (w *InterruptWatcher) GetInterrupted(e ecs.Entity) int {
	return w.interrupted[e]
}

// KnockbackWatcher tracks how many tiles each entity was pushed.
type KnockbackWatcher struct {
	distance map[ecs.Entity]int
}

// NewKnockbackWatcher creates a new knockback watcher.
func NewKnockbackWatcher() *KnockbackWatcher {
	return &KnockbackWatcher{distance: make(map[ecs.Entity]int)}
}

func (w *KnockbackWatcher) Key() string { return "KnockbackWatcher" }

// Watch implements the Watcher interface. A push into a wall moves
// nobody and adds nothing.
func (w *KnockbackWatcher) Watch(note rules.Notification) {
	if note.Type != rules.NotePushed || note.Amount == 0 {
		return
	}
	w.distance[note.Target] += note.Amount
}

// GetDistance returns the total tiles e was pushed.
func (w *KnockbackWatcher) GetDistance(e ecs.Entity) int {
	return w.distance[e]
}

// DeathsWatcher records entities in the order they died.
type DeathsWatcher struct {
	died []ecs.Entity
}

// NewDeathsWatcher creates a new deaths watcher.
func NewDeathsWatcher() *DeathsWatcher {
	return &DeathsWatcher{}
}

func (w *DeathsWatcher) Key() string { return "DeathsWatcher" }

// Watch implements the Watcher interface.
func (w *DeathsWatcher) Watch(note rules.Notification) {
	if note.Type != rules.NoteEntityDied {
		return
	}
	w.died = append(w.died, note.Target)
}

// GetDied returns the dead in order of death.
func (w *DeathsWatcher) GetDied() []ecs.Entity {
	return append([]ecs.Entity(nil), w.died...)
}

// Stock is the set of watchers every fight registers.
type Stock struct {
	Damage    *DamageTakenWatcher
	Interrupt *InterruptWatcher
	Knockback *KnockbackWatcher
	Deaths    *DeathsWatcher
}

// Register creates the stock watchers and adds them to registry.
func Register(registry *rules.WatcherRegistry) Stock {
	s := Stock{
		Damage:    NewDamageTakenWatcher(),
		Interrupt: NewInterruptWatcher(),
		Knockback: NewKnockbackWatcher(),
		Deaths:    NewDeathsWatcher(),
	}
	registry.AddWatcher(s.Damage)
	registry.AddWatcher(s.Interrupt)
	registry.AddWatcher(s.Knockback)
	registry.AddWatcher(s.Deaths)
	return s
}
