package systems

import (
	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game"
	"github.com/counterpunch/counterpunch-go/internal/game/component"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
)

// PickupResult reports consumed items and a reward the player has to
// choose from, if a skill book was picked up by the player.
type PickupResult struct {
	Consumed []ecs.Entity
	Reward   []moves.MoveID
}

// Pickups lets every schedulable creature with health consume the item on
// its tile. Heal pickups restore health up to max. Skill books offer the
// player a reward choice and are wasted on anyone else.
func Pickups(eng *game.EventEngine) PickupResult {
	w := eng.World()
	var result PickupResult

	for _, ent := range w.Query(component.CPosition, component.CHealth, component.CSchedulable) {
		pos, _ := ecs.GetAs[component.Position](w, ent)
		item, ok := eng.Arena().UntrackItem(pos.Point)
		if !ok {
			continue
		}

		if heal, ok := ecs.GetAs[component.HealPickup](w, item); ok {
			hp, _ := ecs.GetAs[component.Health](w, ent)
			before := hp.Current
			hp.Current = min(hp.Current+heal.Amount, hp.Max)
			w.Add(ent, hp)
			eng.Bus().Publish(rules.Notification{
				Type:   rules.NotePickupConsumed,
				Source: item,
				Target: ent,
				Amount: hp.Current - before,
				To:     pos.Point,
			})
		} else if skills, ok := ecs.GetAs[component.SkillChoice](w, item); ok {
			if w.Has(ent, component.CPlayer) {
				result.Reward = append([]moves.MoveID(nil), skills.Choices...)
			}
			eng.Bus().Publish(rules.Notification{
				Type:   rules.NotePickupConsumed,
				Source: item,
				Target: ent,
				To:     pos.Point,
			})
		}
		result.Consumed = append(result.Consumed, item)
	}

	for _, item := range result.Consumed {
		w.DestroyEntity(item)
	}
	return result
}
