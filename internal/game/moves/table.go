// Package moves holds the static move table and the rules that combine a
// main move with an optional modifier into a single effective intent.
package moves

import (
	"fmt"
	"sort"
	"strings"

	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/targeting"
)

// MoveID identifies an entry of the move table.
type MoveID string

const (
	Sweep    MoveID = "sweep"
	Punch    MoveID = "punch"
	Super    MoveID = "super"
	Stun     MoveID = "stun"
	Quick    MoveID = "quick"
	Push     MoveID = "push"
	Dodge    MoveID = "dodge"
	Ponder   MoveID = "ponder"
	Haymaker MoveID = "haymaker"
	Mend     MoveID = "mend"
	Brace    MoveID = "brace"
)

// Timing decides whether a move can be used as a reaction.
type Timing string

const (
	TimingFast Timing = "FAST"
	TimingSlow Timing = "SLOW"
)

// TraitKind tags what a move does when it lands.
type TraitKind string

const (
	TraitDamage    TraitKind = "DAMAGE"
	TraitKnockback TraitKind = "KNOCKBACK"
	TraitMovement  TraitKind = "MOVEMENT"
	TraitModifier  TraitKind = "MODIFIER"
	TraitDraw      TraitKind = "DRAW"
	TraitHeal      TraitKind = "HEAL"
	TraitEquipment TraitKind = "EQUIPMENT"
)

// Trait is a tag plus its amount (knockback distance, cards drawn, health restored).
type Trait struct {
	Kind   TraitKind
	Amount int
}

func (t Trait) String() string {
	if t.Amount == 0 {
		return string(t.Kind)
	}
	return fmt.Sprintf("%s{%d}", t.Kind, t.Amount)
}

// Move is one immutable row of the move table.
type Move struct {
	ID     MoveID
	Power  int
	Speed  int
	Guard  int
	Range  targeting.RangeType // where the move can be aimed from
	Shape  targeting.RangeType // what it covers once aimed
	Timing Timing
	Traits []Trait
	// Tier weights the move in reward tables; higher tiers need better drops.
	Tier int
}

// Name is the lowercase display name of the move.
func (m Move) Name() string {
	return string(m.ID)
}

// IsFast reports whether the move may be used to answer an attack.
func (m Move) IsFast() bool {
	return m.Timing == TimingFast
}

// AimAt returns the tile to aim at so that the move's footprint covers target.
func (m Move) AimAt(from, target grid.Point) (grid.Point, bool) {
	return targeting.AimPoint(m.Range, m.Shape, from, target)
}

var table = map[MoveID]Move{
	Sweep: {
		ID: Sweep, Power: 1, Speed: 0, Guard: 0,
		Range: targeting.Single, Shape: targeting.Square(1),
		Timing: TimingFast, Traits: []Trait{{Kind: TraitDamage}},
	},
	Punch: {
		ID: Punch, Power: 1, Speed: 1, Guard: 0,
		Range: targeting.Square(1), Shape: targeting.Single,
		Timing: TimingFast, Traits: []Trait{{Kind: TraitDamage}},
	},
	Super: {
		ID: Super, Power: 2, Speed: -2, Guard: 1,
		Range: targeting.Empty, Shape: targeting.Empty,
		Timing: TimingSlow, Traits: []Trait{{Kind: TraitDamage}, {Kind: TraitModifier}},
		Tier: 1,
	},
	Stun: {
		ID: Stun, Power: 0, Speed: 2, Guard: 0,
		Range: targeting.Square(1), Shape: targeting.Single,
		Timing: TimingFast, Traits: []Trait{{Kind: TraitDamage}},
		Tier: 1,
	},
	Quick: {
		ID: Quick, Power: -1, Speed: 4, Guard: -2,
		Range: targeting.Empty, Shape: targeting.Empty,
		Timing: TimingSlow, Traits: []Trait{{Kind: TraitModifier}},
		Tier: 1,
	},
	Push: {
		ID: Push, Power: 0, Speed: 0, Guard: 0,
		Range: targeting.Square(1), Shape: targeting.Single,
		Timing: TimingSlow, Traits: []Trait{{Kind: TraitKnockback, Amount: 2}},
	},
	Dodge: {
		ID: Dodge, Power: 0, Speed: 2, Guard: -2,
		Range: targeting.Square(2), Shape: targeting.Single,
		Timing: TimingFast, Traits: []Trait{{Kind: TraitMovement}},
	},
	Ponder: {
		ID: Ponder, Power: 0, Speed: 0, Guard: 0,
		Range: targeting.Empty, Shape: targeting.Empty,
		Timing: TimingSlow, Traits: []Trait{{Kind: TraitDraw, Amount: 2}},
	},
	Haymaker: {
		ID: Haymaker, Power: 2, Speed: -1, Guard: -1,
		Range: targeting.Square(1), Shape: targeting.Single,
		Timing: TimingSlow, Traits: []Trait{{Kind: TraitDamage}},
		Tier: 2,
	},
	Mend: {
		ID: Mend, Power: 0, Speed: 0, Guard: 0,
		Range: targeting.Single, Shape: targeting.Single,
		Timing: TimingSlow, Traits: []Trait{{Kind: TraitHeal, Amount: 2}},
		Tier: 2,
	},
	Brace: {
		ID: Brace, Power: 0, Speed: -1, Guard: 2,
		Range: targeting.Empty, Shape: targeting.Empty,
		Timing: TimingSlow, Traits: []Trait{{Kind: TraitModifier}, {Kind: TraitEquipment}},
		Tier: 2,
	},
}

// Lookup returns the move with the given id.
func Lookup(id MoveID) (Move, bool) {
	m, ok := table[id]
	return m, ok
}

// MustLookup is Lookup for ids that are known to be in the table.
func MustLookup(id MoveID) Move {
	m, ok := table[id]
	if !ok {
		panic(fmt.Sprintf("moves: unknown move %q", id))
	}
	return m
}

// Parse resolves a case-insensitive move name.
func Parse(name string) (MoveID, error) {
	id := MoveID(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := table[id]; !ok {
		return "", fmt.Errorf("unknown move %q", name)
	}
	return id, nil
}

// All returns every move ordered by id.
func All() []Move {
	all := make([]Move, 0, len(table))
	for _, m := range table {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}
