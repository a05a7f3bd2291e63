package moves

import "github.com/counterpunch/counterpunch-go/internal/game/grid"

// Intent is an attack an entity has committed to: a main move, an optional
// modifier and the tile it is aimed at. All stats are derived on demand.
type Intent struct {
	Main     MoveID
	Modifier *MoveID
	Loc      grid.Point
}

// NewIntent builds an intent without a modifier.
func NewIntent(main MoveID, loc grid.Point) Intent {
	return Intent{Main: main, Loc: loc}
}

// WithModifier returns a copy of the intent using mod as its modifier.
func (i Intent) WithModifier(mod MoveID) Intent {
	i.Modifier = &mod
	return i
}

// MainMove returns the table entry for the main move.
func (i Intent) MainMove() Move {
	return MustLookup(i.Main)
}

func combine[T any](i Intent, stat func(Move) T, merge func(main, mod T) T) T {
	value := stat(MustLookup(i.Main))
	if i.Modifier == nil {
		return value
	}
	return merge(value, stat(MustLookup(*i.Modifier)))
}

// Name is "{modifier} {main}", or just the main move name.
func (i Intent) Name() string {
	return combine(i, Move.Name, func(main, mod string) string {
		return mod + " " + main
	})
}

// Power is the summed power, never below zero when a modifier applies.
func (i Intent) Power() int {
	return combine(i, func(m Move) int { return m.Power }, func(main, mod int) int {
		return max(main+mod, 0)
	})
}

// Speed is the summed speed of both moves; it decides contests.
func (i Intent) Speed() int {
	return combine(i, func(m Move) int { return m.Speed }, sum)
}

// Guard is the summed guard of both moves.
func (i Intent) Guard() int {
	return combine(i, func(m Move) int { return m.Guard }, sum)
}

// Traits is the union of both moves' traits, main move first, without duplicates.
func (i Intent) Traits() []Trait {
	return combine(i, func(m Move) []Trait {
		return append([]Trait(nil), m.Traits...)
	}, func(main, mod []Trait) []Trait {
		for _, t := range mod {
			if !containsTrait(main, t) {
				main = append(main, t)
			}
		}
		return main
	})
}

// Trait returns the first trait of the given kind.
func (i Intent) Trait(kind TraitKind) (Trait, bool) {
	for _, t := range i.Traits() {
		if t.Kind == kind {
			return t, true
		}
	}
	return Trait{}, false
}

// HasTrait reports whether the intent carries a trait of the given kind.
func (i Intent) HasTrait(kind TraitKind) bool {
	_, ok := i.Trait(kind)
	return ok
}

func sum(a, b int) int { return a + b }

func containsTrait(traits []Trait, t Trait) bool {
	for _, existing := range traits {
		if existing == t {
			return true
		}
	}
	return false
}
