package systems

import (
	"go.uber.org/zap"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game"
	"github.com/counterpunch/counterpunch-go/internal/game/component"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
)

// DeathResult lists what the death system cleaned up.
type DeathResult struct {
	Removed    []ecs.Entity
	PlayerDead bool
}

// Deaths handles every positioned entity at or below zero health. Its
// death trigger, if any, is queued where it stood and invites reactions.
// Everything but the player is untracked and destroyed.
func Deaths(eng *game.EventEngine) DeathResult {
	w := eng.World()
	var result DeathResult

	for _, ent := range w.Query(component.CPosition, component.CHealth) {
		hp, _ := ecs.GetAs[component.Health](w, ent)
		if hp.Current > 0 {
			continue
		}
		pos, _ := ecs.GetAs[component.Position](w, ent)

		if trigger, ok := ecs.GetAs[component.DeathTrigger](w, ent); ok {
			eng.Push(trigger.Effect, nil, ecs.Nil, trigger.Range, pos.Point, true)
		}

		eng.Bus().Publish(rules.Notification{Type: rules.NoteEntityDied, Target: ent, From: pos.Point})

		if w.Has(ent, component.CPlayer) {
			result.PlayerDead = true
			continue
		}
		eng.Arena().UntrackCreature(pos.Point)
		result.Removed = append(result.Removed, ent)
	}

	for _, ent := range result.Removed {
		eng.Logger().Debug("entity died", zap.Stringer("entity", ent))
		w.DestroyEntity(ent)
	}
	return result
}
