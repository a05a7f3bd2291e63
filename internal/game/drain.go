package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/component"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
)

// Drain pops and resolves events until the stack is empty or an event has
// to wait for reactions. A stashed event is always resolved first, after
// which Drain returns StateHitPause so the caller can let the hit land.
func (e *EventEngine) Drain() Outcome {
	if ev := e.stash; ev != nil {
		e.stash = nil
		e.world.Remove(ev.Source, component.CAttackInProgress)
		e.closeWindow()

		e.logger.Debug("resuming stashed event",
			zap.String("event_id", ev.ID),
			zap.String("description", ev.Describe()),
		)
		e.process(ev)
		return Outcome{State: StateHitPause, Remaining: e.settings.HitPause}
	}

	for {
		ev, err := e.stack.Pop()
		if err != nil {
			return Outcome{State: StateRunning}
		}

		e.logger.Debug("popped from stack",
			zap.String("event_id", ev.ID),
			zap.String("description", ev.Describe()),
			zap.Stringer("source", ev.Source),
			zap.Int("targets", len(ev.Targets)),
			zap.Int("remaining_items", e.stack.Len()),
		)

		if !ev.IsTargeted() {
			e.process(ev)
			continue
		}

		hit := e.affected(ev.Targets)
		if ev.Intent != nil {
			e.mirrorCard(ev, hit)
		}

		eligible := e.eligible(ev, hit)
		if ev.InvokesReaction && len(eligible) > 0 {
			e.grant(ev, eligible)
			e.stash = ev
			return Outcome{State: StateAwaitingInput}
		}
		e.process(ev)
	}
}

// DrainVisualOnly resolves particle events from the top of the stack and
// stops at the first event of any other kind. It reports whether the stack
// was emptied.
func (e *EventEngine) DrainVisualOnly() bool {
	for {
		ev, ok := e.stack.Peek()
		if !ok {
			return true
		}
		if ev.Effect.Kind != rules.EffectParticleSpawn {
			return false
		}
		_, _ = e.stack.Pop()
		e.process(ev)
	}
}

// process resolves one popped event, contesting it against an answer
// queued directly above it.
func (e *EventEngine) process(ev *rules.Event) {
	e.popCard()

	if ev.Intent == nil {
		e.resolve(ev)
		return
	}

	e.trackOutgoing(ev)
	if next, ok := e.stack.Peek(); ok && answers(ev, next) {
		_, _ = e.stack.Pop()
		e.trackOutgoing(next)
		e.contest(ev, next)
		return
	}

	e.intents.Hidden = false
	e.intents.LastContest = ContestRecord{}
	e.resolve(ev)
}

// resolve applies the event's effect and queues its followups so that the
// first followup resolves first.
func (e *EventEngine) resolve(ev *rules.Event) {
	if ev.Effect.Kind != rules.EffectParticleSpawn {
		e.logger.Debug("resolving event",
			zap.String("event_id", ev.ID),
			zap.String("kind", string(ev.Effect.Kind)),
			zap.Stringer("source", ev.Source),
			zap.Int("followups", len(ev.Followups)),
		)
	}

	e.apply(ev)

	for i := len(ev.Followups) - 1; i >= 0; i-- {
		e.stack.Push(ev.Followups[i])
	}

	if ev.Effect.Kind != rules.EffectParticleSpawn {
		e.bus.Publish(rules.Notification{
			Type:    rules.NoteEffectResolved,
			EventID: ev.ID,
			Kind:    ev.Effect.Kind,
			Source:  ev.Source,
		})
	}
}

// affected returns the live entities standing on any of targets, in handle
// order. Each entity appears at most once.
func (e *EventEngine) affected(targets []grid.Point) []ecs.Entity {
	var hit []ecs.Entity
	for _, ent := range e.world.Query(component.CPosition) {
		pos, _ := ecs.GetAs[component.Position](e.world, ent)
		for _, t := range targets {
			if pos.Point == t {
				hit = append(hit, ent)
				break
			}
		}
	}
	return hit
}

// eligible filters hit down to the entities that may react to ev.
func (e *EventEngine) eligible(ev *rules.Event, hit []ecs.Entity) []ecs.Entity {
	out := make([]ecs.Entity, 0, len(hit))
	for _, ent := range hit {
		if ent == ev.Source {
			continue
		}
		if e.world.Has(ent, component.CCanReact) {
			out = append(out, ent)
		}
	}
	return out
}

// grant hands every reactor a reaction turn against ev's source and marks
// the source as mid-attack. Reactors that were about to take an ordinary
// turn have its cost refunded.
func (e *EventEngine) grant(ev *rules.Event, reactors []ecs.Entity) {
	for _, ent := range reactors {
		if act, ok := ecs.GetAs[component.CanAct](e.world, ent); ok {
			if act.IsReaction {
				panic(fmt.Sprintf("game: %s already holds a reaction turn", ent))
			}
			if sched, ok := ecs.GetAs[component.Schedulable](e.world, ent); ok {
				sched.Current -= sched.Base
				e.world.Add(ent, sched)
			}
		}
		e.world.Add(ent, component.CanAct{IsReaction: true, ReactionTarget: ev.Source})
	}

	if !ev.Source.IsNil() {
		e.world.Add(ev.Source, component.AttackInProgress{})
	}

	window := rules.ReactionWindow{EventID: ev.ID, Source: ev.Source, Grantees: reactors}
	if err := e.windows.OpenWindow(window); err != nil {
		panic(fmt.Sprintf("game: %v", err))
	}

	e.logger.Debug("reaction window opened",
		zap.String("event_id", ev.ID),
		zap.Stringer("source", ev.Source),
		zap.Int("reactors", len(reactors)),
	)
	for _, ent := range reactors {
		e.bus.Publish(rules.Notification{
			Type:    rules.NoteReactionOpened,
			EventID: ev.ID,
			Kind:    ev.Effect.Kind,
			Source:  ev.Source,
			Target:  ent,
		})
	}
}

// closeWindow ends the open reaction window. Grantees that never answered
// lose their reaction turn.
func (e *EventEngine) closeWindow() {
	window, ok := e.windows.CloseWindow()
	if !ok {
		return
	}
	for _, ent := range window.Grantees {
		if act, ok := ecs.GetAs[component.CanAct](e.world, ent); ok && act.IsReaction {
			e.world.Remove(ent, component.CCanAct)
		}
	}
	e.bus.Publish(rules.Notification{
		Type:    rules.NoteReactionClosed,
		EventID: window.EventID,
		Source:  window.Source,
	})
}
