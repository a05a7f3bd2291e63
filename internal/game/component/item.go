package component

import (
	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
)

const (
	CHealPickup  ecs.ComponentType = 11
	CSkillChoice ecs.ComponentType = 12
)

// HealPickup restores Amount health to whoever steps on it.
type HealPickup struct {
	Amount int
}

func (HealPickup) Type() ecs.ComponentType { return CHealPickup }

// SkillChoice offers the player a choice of new moves.
type SkillChoice struct {
	Choices []moves.MoveID
}

func (SkillChoice) Type() ecs.ComponentType { return CSkillChoice }
