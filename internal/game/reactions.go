package game

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/component"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
)

var (
	ErrNotReacting      = errors.New("entity holds no reaction turn")
	ErrSlowMove         = errors.New("only fast moves can answer an attack")
	ErrOutOfReach       = errors.New("reaction target is out of reach")
	ErrNoReactionTarget = errors.New("reaction target is gone")
	ErrNoEffect         = errors.New("move has no effect")
)

// DefaultBlock is how much damage a committed block absorbs.
const DefaultBlock = 1

func (e *EventEngine) reactionTurn(ent ecs.Entity) (component.CanAct, error) {
	act, ok := ecs.GetAs[component.CanAct](e.world, ent)
	if !ok || !act.IsReaction {
		return component.CanAct{}, ErrNotReacting
	}
	// a reaction marker only counts while its window is open
	if window, open := e.windows.Active(); !open || !window.Includes(ent) {
		return component.CanAct{}, ErrNotReacting
	}
	return act, nil
}

// CommitBlock answers the pending attack by bracing for it. The block
// absorbs up to amount damage from the next hit.
func (e *EventEngine) CommitBlock(ent ecs.Entity, amount int) error {
	if _, err := e.reactionTurn(ent); err != nil {
		return fmt.Errorf("block for %s: %w", ent, err)
	}
	e.world.Add(ent, component.BlockAttack{Amount: amount})
	e.EndTurn(ent)

	e.logger.Debug("block committed", zap.Stringer("entity", ent), zap.Int("amount", amount))
	return nil
}

// CommitCounter answers the pending attack with a fast move aimed so that
// its footprint covers the attacker. The counter is queued above the
// stashed attack and contested against it when the attack resumes.
func (e *EventEngine) CommitCounter(ent ecs.Entity, intent moves.Intent) (*rules.Event, error) {
	act, err := e.reactionTurn(ent)
	if err != nil {
		return nil, fmt.Errorf("counter for %s: %w", ent, err)
	}

	move := intent.MainMove()
	if !move.IsFast() {
		return nil, fmt.Errorf("counter with %s: %w", move.ID, ErrSlowMove)
	}

	target, ok := ecs.GetAs[component.Position](e.world, act.ReactionTarget)
	if !ok {
		return nil, fmt.Errorf("counter against %s: %w", act.ReactionTarget, ErrNoReactionTarget)
	}
	from, ok := ecs.GetAs[component.Position](e.world, ent)
	if !ok {
		return nil, fmt.Errorf("counter from %s: %w", ent, ErrOutOfReach)
	}
	aim, ok := move.AimAt(from.Point, target.Point)
	if !ok {
		return nil, fmt.Errorf("counter with %s from %s: %w", move.ID, from.Point, ErrOutOfReach)
	}
	intent.Loc = aim

	ev := BuildAttack(intent, ent, from.Point, false)
	if ev == nil {
		return nil, fmt.Errorf("counter with %s: %w", move.ID, ErrNoEffect)
	}
	ev.Answers = act.ReactionTarget
	e.PushEvent(ev)
	e.EndTurn(ent)

	e.logger.Debug("counter committed",
		zap.Stringer("entity", ent),
		zap.String("intent", intent.Name()),
		zap.Stringer("aim", aim),
		zap.String("event_id", ev.ID),
	)
	return ev, nil
}

// Pass gives up the reaction turn without answering.
func (e *EventEngine) Pass(ent ecs.Entity) error {
	if _, err := e.reactionTurn(ent); err != nil {
		return fmt.Errorf("pass for %s: %w", ent, err)
	}
	e.EndTurn(ent)
	return nil
}

// EndTurn removes ent's may-act marker, ordinary or reaction.
func (e *EventEngine) EndTurn(ent ecs.Entity) {
	e.world.Remove(ent, component.CCanAct)
}
