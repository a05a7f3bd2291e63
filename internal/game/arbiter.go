package game

import (
	"go.uber.org/zap"

	"github.com/counterpunch/counterpunch-go/internal/game/rules"
)

// answers reports whether next is a queued attack answering ev's source.
func answers(ev, next *rules.Event) bool {
	return next.Intent != nil && !ev.Source.IsNil() && next.Answers == ev.Source
}

// contest arbitrates an attack against the answer queued on top of it.
// The faster side resolves first. If that side deals damage and its power
// beats the other side's guard, the slower event is discarded.
func (e *EventEngine) contest(attack, answer *rules.Event) {
	s := e.settings

	atkRoll := s.SpeedRoll.With(e.dice)
	defRoll := s.SpeedRoll.With(e.dice)
	atkSpeed := attack.Intent.Speed() + atkRoll + s.AttackerSpeedBonus
	defSpeed := answer.Intent.Speed() + defRoll
	diff := atkSpeed - defSpeed

	record := ContestRecord{
		Contested:         true,
		AttackerSpeedRoll: atkRoll,
		DefenderSpeedRoll: defRoll,
		AttackerFirst:     diff >= 0,
	}
	first, second := attack, answer
	if !record.AttackerFirst {
		first, second = answer, attack
	}
	e.intents.Hidden = false

	e.logger.Debug("contest",
		zap.String("attack_id", attack.ID),
		zap.String("answer_id", answer.ID),
		zap.Int("attacker_speed", atkSpeed),
		zap.Int("defender_speed", defSpeed),
		zap.Bool("attacker_first", record.AttackerFirst),
	)

	e.resolve(first)

	interrupted := false
	if first.Effect.Kind == rules.EffectDamage {
		record.GuardRoll = s.GuardRoll.With(e.dice)
		record.PowerRoll = s.GuardRoll.With(e.dice)

		// only the true defender gets the guard bonus
		guard := second.Intent.Guard() + record.GuardRoll
		if record.AttackerFirst {
			guard += s.DefenderGuardBonus
		}
		power := absInt(diff) + record.PowerRoll
		interrupted = power > guard

		e.logger.Debug("interrupt check",
			zap.Int("power", power),
			zap.Int("guard", guard),
			zap.Bool("interrupted", interrupted),
		)
	}
	record.DefenderInterrupted = interrupted && record.AttackerFirst
	record.AttackerInterrupted = interrupted && !record.AttackerFirst
	e.intents.LastContest = record

	e.bus.Publish(rules.Notification{
		Type:    rules.NoteContest,
		EventID: attack.ID,
		Source:  attack.Source,
		Target:  answer.Source,
		Amount:  diff,
		Flag:    record.AttackerFirst,
	})

	if interrupted {
		e.bus.Publish(rules.Notification{
			Type:    rules.NoteInterrupted,
			EventID: second.ID,
			Kind:    second.Effect.Kind,
			Source:  first.Source,
			Target:  second.Source,
		})
		return
	}
	e.resolve(second)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
