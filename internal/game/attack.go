package game

import (
	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
	"github.com/counterpunch/counterpunch-go/internal/game/targeting"
)

// primaryOrder is the order in which traits are considered for an
// attack's main event.
var primaryOrder = []moves.TraitKind{
	moves.TraitDamage,
	moves.TraitKnockback,
	moves.TraitMovement,
	moves.TraitHeal,
	moves.TraitDraw,
}

// BuildAttack turns an intent into the event the stack resolves. The
// highest priority trait becomes the main event, which carries the intent;
// every other effect trait becomes a followup. It returns nil for intents
// with no effect trait.
func BuildAttack(intent moves.Intent, source ecs.Entity, from grid.Point, invokesReaction bool) *rules.Event {
	shape := intent.MainMove().Shape

	var primary *rules.Event
	var followups []*rules.Event
	for _, kind := range primaryOrder {
		trait, ok := intent.Trait(kind)
		if !ok {
			continue
		}
		effect, rng := traitEffect(trait, intent, shape, from)
		if primary == nil {
			primary = rules.NewEvent(effect, &intent, source, rng, intent.Loc, invokesReaction)
			continue
		}
		followups = append(followups, rules.NewEvent(effect, nil, source, rng, intent.Loc, false))
	}
	if primary == nil {
		return nil
	}
	primary.Followups = followups
	return primary
}

// traitEffect maps a trait to its effect and the range it resolves over.
func traitEffect(trait moves.Trait, intent moves.Intent, shape targeting.RangeType, from grid.Point) (rules.Effect, targeting.RangeType) {
	switch trait.Kind {
	case moves.TraitDamage:
		return rules.Damage(intent.Power()), shape
	case moves.TraitKnockback:
		return rules.Push(from, trait.Amount), shape
	case moves.TraitMovement:
		return rules.Movement(), shape
	case moves.TraitHeal:
		return rules.Heal(trait.Amount), shape
	default:
		return rules.Draw(trait.Amount), targeting.Empty
	}
}
