// Package systems holds the per-step systems that feed the event engine:
// committed intents become events, the dead release their death effects,
// pickups are consumed and turns are handed out.
package systems

import (
	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game"
	"github.com/counterpunch/counterpunch-go/internal/game/component"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
	"github.com/counterpunch/counterpunch-go/internal/game/targeting"
)

// Attacks queues an event for every committed attack intent and clears
// the intents. Attacks invite reactions. It returns how many events were
// queued.
func Attacks(eng *game.EventEngine) int {
	w := eng.World()
	queued := 0
	for _, ent := range w.Query(component.CAttackIntent) {
		intent, _ := ecs.GetAs[component.AttackIntent](w, ent)
		w.Remove(ent, component.CAttackIntent)

		pos, ok := ecs.GetAs[component.Position](w, ent)
		if !ok {
			continue
		}
		ev := game.BuildAttack(intent.Intent, ent, pos.Point, true)
		if ev == nil {
			continue
		}
		eng.PushEvent(ev)
		queued++
	}
	return queued
}

// Movements queues a movement event for every committed step and clears
// the intents. Steps never invite reactions.
func Movements(eng *game.EventEngine) int {
	w := eng.World()
	queued := 0
	for _, ent := range w.Query(component.CMoveIntent) {
		move, _ := ecs.GetAs[component.MoveIntent](w, ent)
		w.Remove(ent, component.CMoveIntent)

		eng.Push(rules.Movement(), nil, ent, targeting.Single, move.Loc, false)
		queued++
	}
	return queued
}
