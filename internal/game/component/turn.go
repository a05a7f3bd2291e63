package component

import "github.com/counterpunch/counterpunch-go/internal/ecs"

const (
	CCanAct           ecs.ComponentType = 4
	CCanReact         ecs.ComponentType = 5
	CSchedulable      ecs.ComponentType = 6
	CAttackInProgress ecs.ComponentType = 7
)

// CanAct marks an entity that may act now. A reaction grant references the
// entity whose attack is being answered.
type CanAct struct {
	IsReaction     bool
	ReactionTarget ecs.Entity
}

func (CanAct) Type() ecs.ComponentType { return CCanAct }

// CanReact is the capability to be offered reaction windows.
type CanReact struct{}

func (CanReact) Type() ecs.ComponentType { return CCanReact }

// Schedulable holds the energy counters of the turn scheduler. Current
// counts down by Delta each tick; at zero or below the entity gets a turn
// and Base is added back.
type Schedulable struct {
	Current int
	Base    int
	Delta   int
}

func (Schedulable) Type() ecs.ComponentType { return CSchedulable }

// AttackInProgress marks a source whose attack is stashed awaiting reactions.
type AttackInProgress struct{}

func (AttackInProgress) Type() ecs.ComponentType { return CAttackInProgress }
