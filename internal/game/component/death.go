package component

import (
	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
	"github.com/counterpunch/counterpunch-go/internal/game/targeting"
)

const CDeathTrigger ecs.ComponentType = 16

// DeathTrigger is the effect an entity releases where it dies.
type DeathTrigger struct {
	Effect rules.Effect
	Range  targeting.RangeType
}

func (DeathTrigger) Type() ecs.ComponentType { return CDeathTrigger }
