package component

import (
	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
)

const (
	CAttackIntent ecs.ComponentType = 8
	CMoveIntent   ecs.ComponentType = 9
	CMoveset      ecs.ComponentType = 10
)

// AttackIntent is a committed attack waiting for the attack system.
type AttackIntent struct {
	moves.Intent
}

func (AttackIntent) Type() ecs.ComponentType { return CAttackIntent }

// MoveIntent is a committed step waiting for the movement system.
type MoveIntent struct {
	Loc grid.Point
}

func (MoveIntent) Type() ecs.ComponentType { return CMoveIntent }

// WeightedMove is a move and its relative chance of being picked.
type WeightedMove struct {
	Move   moves.MoveID
	Weight float64
}

// Moveset lists the moves an entity may pick from.
type Moveset struct {
	Moves []WeightedMove
}

func (Moveset) Type() ecs.ComponentType { return CMoveset }
