package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/component"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
	"github.com/counterpunch/counterpunch-go/internal/game/visual"
)

// SkillChoices is how many moves a skill pickup offers.
const SkillChoices = 3

func knownEffect(kind rules.EffectKind) bool {
	switch kind {
	case rules.EffectDamage, rules.EffectPush, rules.EffectMovement,
		rules.EffectItemDrop, rules.EffectParticleSpawn, rules.EffectHeal, rules.EffectDraw:
		return true
	}
	return false
}

// apply runs the resolver for ev's effect kind. Resolvers never fail:
// entities that vanished or lack the relevant component are skipped.
func (e *EventEngine) apply(ev *rules.Event) {
	switch ev.Effect.Kind {
	case rules.EffectDamage:
		e.resolveDamage(ev)
	case rules.EffectPush:
		e.resolvePush(ev)
	case rules.EffectMovement:
		e.resolveMovement(ev)
	case rules.EffectItemDrop:
		e.resolveItemDrop(ev)
	case rules.EffectParticleSpawn:
		e.sink.MakeParticle(ev.Effect.Particle)
	case rules.EffectHeal:
		e.resolveHeal(ev)
	case rules.EffectDraw:
		e.resolveDraw(ev)
	default:
		panic(fmt.Sprintf("game: no resolver for effect kind %q", ev.Effect.Kind))
	}
}

// pushHits queues a hit particle on every in-bounds target tile.
func (e *EventEngine) pushHits(targets []grid.Point) {
	for _, p := range e.arena.Clip(targets) {
		e.PushParticle(visual.Hit(p))
	}
}

func (e *EventEngine) resolveDamage(ev *rules.Event) {
	e.pushHits(ev.Targets)

	for _, ent := range e.affected(ev.Targets) {
		amount := ev.Effect.Amount
		if block, ok := ecs.GetAs[component.BlockAttack](e.world, ent); ok {
			amount = max(amount-block.Amount, 0)
			e.world.Remove(ent, component.CBlockAttack)
			e.bus.Publish(rules.Notification{
				Type:    rules.NoteBlockConsumed,
				EventID: ev.ID,
				Source:  ev.Source,
				Target:  ent,
				Amount:  block.Amount,
			})
		}

		hp, ok := ecs.GetAs[component.Health](e.world, ent)
		if !ok {
			continue
		}
		hp.Current -= amount
		e.world.Add(ent, hp)

		e.logger.Debug("damage dealt",
			zap.String("event_id", ev.ID),
			zap.Stringer("target", ent),
			zap.Int("amount", amount),
			zap.Int("health", hp.Current),
		)
		e.bus.Publish(rules.Notification{
			Type:    rules.NoteDamageDealt,
			EventID: ev.ID,
			Kind:    ev.Effect.Kind,
			Source:  ev.Source,
			Target:  ent,
			Amount:  amount,
		})
	}
}

func (e *EventEngine) resolvePush(ev *rules.Event) {
	e.pushHits(ev.Targets)

	for _, ent := range e.affected(ev.Targets) {
		pos, _ := ecs.GetAs[component.Position](e.world, ent)
		start := pos.Point
		dir := start.Sub(ev.Effect.From).Sign()

		next := start
		for i := 0; i < ev.Effect.Amount; i++ {
			step := next.Add(dir)
			if !e.arena.InBounds(step) || e.arena.IsBlocked(step) {
				break
			}
			next = step
		}

		e.arena.MoveCreature(ent, start, next)
		pos.Point = next
		e.world.Add(ent, pos)

		e.bus.Publish(rules.Notification{
			Type:    rules.NotePushed,
			EventID: ev.ID,
			Kind:    ev.Effect.Kind,
			Source:  ev.Source,
			Target:  ent,
			Amount:  start.Chebyshev(next),
			From:    start,
			To:      next,
		})
	}
}

func (e *EventEngine) resolveMovement(ev *rules.Event) {
	pos, ok := ecs.GetAs[component.Position](e.world, ev.Source)
	if !ok || len(ev.Targets) == 0 {
		return
	}
	target := ev.Targets[0]
	if !e.arena.InBounds(target) || e.arena.IsBlocked(target) {
		return
	}

	start := pos.Point
	e.arena.MoveCreature(ev.Source, start, target)
	pos.Point = target
	e.world.Add(ev.Source, pos)

	e.bus.Publish(rules.Notification{
		Type:    rules.NoteMoved,
		EventID: ev.ID,
		Kind:    ev.Effect.Kind,
		Source:  ev.Source,
		Target:  ev.Source,
		From:    start,
		To:      target,
	})
}

// resolveItemDrop spawns one pickup on the first in-bounds target tile.
// Nothing drops when that tile already holds an item.
func (e *EventEngine) resolveItemDrop(ev *rules.Event) {
	tiles := e.arena.Clip(ev.Targets)
	if len(tiles) == 0 {
		return
	}
	p := tiles[0]
	if _, taken := e.arena.ItemAt(p); taken {
		return
	}

	item := e.world.CreateEntity()
	switch ev.Effect.Drop {
	case rules.DropSkill:
		e.world.Add(item, component.Name{Name: "Book"})
		e.world.Add(item, component.SkillChoice{Choices: e.rollSkills(ev.Effect.Quality)})
	default:
		e.world.Add(item, component.Name{Name: "Health Potion"})
		e.world.Add(item, component.HealPickup{Amount: e.rollHeal(ev.Effect.Quality)})
	}
	e.arena.TrackItem(item, p)

	e.bus.Publish(rules.Notification{
		Type:    rules.NoteItemDropped,
		EventID: ev.ID,
		Kind:    ev.Effect.Kind,
		Source:  ev.Source,
		Target:  item,
		To:      p,
		Amount:  ev.Effect.Quality,
	})
}

// rollHeal picks a heal amount that grows with quality and is at least 1.
func (e *EventEngine) rollHeal(quality int) int {
	lo := 1 + quality/2
	span := max(2+quality/2, 1)
	return max(lo+e.dice.Intn(span), 1)
}

// rollSkills samples distinct moves, weighting higher tiers up as quality
// rises.
func (e *EventEngine) rollSkills(quality int) []moves.MoveID {
	pool := moves.All()
	weights := make([]int, len(pool))
	for i, m := range pool {
		weights[i] = max(4-m.Tier+quality*m.Tier, 1)
	}

	picks := make([]moves.MoveID, 0, SkillChoices)
	for len(picks) < SkillChoices && len(pool) > 0 {
		total := 0
		for _, w := range weights {
			total += w
		}
		roll := e.dice.Intn(total)
		idx := 0
		for ; idx < len(weights)-1; idx++ {
			if roll < weights[idx] {
				break
			}
			roll -= weights[idx]
		}
		picks = append(picks, pool[idx].ID)
		pool = append(pool[:idx], pool[idx+1:]...)
		weights = append(weights[:idx], weights[idx+1:]...)
	}
	return picks
}

func (e *EventEngine) resolveHeal(ev *rules.Event) {
	for _, ent := range e.affected(ev.Targets) {
		hp, ok := ecs.GetAs[component.Health](e.world, ent)
		if !ok {
			continue
		}
		before := hp.Current
		hp.Current = min(hp.Current+ev.Effect.Amount, hp.Max)
		if hp.Current < before {
			hp.Current = before
		}
		e.world.Add(ent, hp)

		e.bus.Publish(rules.Notification{
			Type:    rules.NoteHealed,
			EventID: ev.ID,
			Kind:    ev.Effect.Kind,
			Source:  ev.Source,
			Target:  ent,
			Amount:  hp.Current - before,
		})
	}
}

func (e *EventEngine) resolveDraw(ev *rules.Event) {
	if e.drawHook == nil {
		return
	}
	drawn := e.drawHook(ev.Source, ev.Effect.Amount)
	e.bus.Publish(rules.Notification{
		Type:    rules.NoteCardsDrawn,
		EventID: ev.ID,
		Kind:    ev.Effect.Kind,
		Source:  ev.Source,
		Target:  ev.Source,
		Amount:  drawn,
	})
}
