package rules

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
	"github.com/counterpunch/counterpunch-go/internal/game/targeting"
	"github.com/counterpunch/counterpunch-go/internal/game/visual"
)

// EffectKind is the closed set of world mutations an event can carry.
type EffectKind string

const (
	EffectDamage        EffectKind = "DAMAGE"
	EffectPush          EffectKind = "PUSH"
	EffectMovement      EffectKind = "MOVEMENT"
	EffectItemDrop      EffectKind = "ITEM_DROP"
	EffectParticleSpawn EffectKind = "PARTICLE_SPAWN"
	EffectHeal          EffectKind = "HEAL"
	EffectDraw          EffectKind = "DRAW"
)

// DropType selects what an item drop spawns.
type DropType string

const (
	DropHealth DropType = "HEALTH"
	DropSkill  DropType = "SKILL"
)

// Effect is the payload of an event. Which fields are meaningful depends on Kind.
type Effect struct {
	Kind EffectKind
	// Amount is damage dealt, tiles pushed, health restored or cards drawn.
	Amount int
	// From is the point a push moves targets away from.
	From     grid.Point
	Drop     DropType
	Quality  int
	Particle visual.ParticleRequest
}

func Damage(amount int) Effect {
	return Effect{Kind: EffectDamage, Amount: amount}
}

func Push(from grid.Point, amount int) Effect {
	return Effect{Kind: EffectPush, From: from, Amount: amount}
}

func Movement() Effect {
	return Effect{Kind: EffectMovement}
}

func ItemDrop(drop DropType, quality int) Effect {
	return Effect{Kind: EffectItemDrop, Drop: drop, Quality: quality}
}

func Particle(req visual.ParticleRequest) Effect {
	return Effect{Kind: EffectParticleSpawn, Particle: req}
}

func Heal(amount int) Effect {
	return Effect{Kind: EffectHeal, Amount: amount}
}

func Draw(amount int) Effect {
	return Effect{Kind: EffectDraw, Amount: amount}
}

func (e Effect) String() string {
	switch e.Kind {
	case EffectPush:
		return fmt.Sprintf("%s{%d from %s}", e.Kind, e.Amount, e.From)
	case EffectItemDrop:
		return fmt.Sprintf("%s{%s q%d}", e.Kind, e.Drop, e.Quality)
	case EffectParticleSpawn, EffectMovement:
		return string(e.Kind)
	default:
		return fmt.Sprintf("%s{%d}", e.Kind, e.Amount)
	}
}

// Event is a queued request to mutate the world. Its target tiles are
// resolved once, when the event is built, and never recomputed.
type Event struct {
	ID     string
	Effect Effect
	// Intent is set only for events produced by a combat move.
	Intent *moves.Intent
	Source ecs.Entity
	// Answers is the entity whose attack this event counters, if any.
	Answers         ecs.Entity
	Targets         []grid.Point
	InvokesReaction bool
	// Followups are pushed only if this event actually resolves.
	Followups []*Event
}

// NewEvent builds an event, resolving rng at origin into its target tiles.
func NewEvent(effect Effect, intent *moves.Intent, source ecs.Entity, rng targeting.RangeType, origin grid.Point, invokesReaction bool) *Event {
	var ownIntent *moves.Intent
	if intent != nil {
		cp := *intent
		ownIntent = &cp
	}
	return &Event{
		ID:              uuid.NewString(),
		Effect:          effect,
		Intent:          ownIntent,
		Source:          source,
		Targets:         targeting.ResolveAt(rng, origin),
		InvokesReaction: invokesReaction,
	}
}

// IsTargeted reports whether the event goes through entity matching.
func (e *Event) IsTargeted() bool {
	return len(e.Targets) > 0
}

// Describe is a short human-readable summary used in logs.
func (e *Event) Describe() string {
	if e.Intent != nil {
		return fmt.Sprintf("%s (%s)", e.Intent.Name(), e.Effect)
	}
	return e.Effect.String()
}
