package game

import (
	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
	"github.com/counterpunch/counterpunch-go/internal/game/visual"
)

// ContestRecord is the outcome of the most recent contested resolution.
// The zero value means no contest took place.
type ContestRecord struct {
	Contested         bool `json:"contested"`
	AttackerSpeedRoll int  `json:"attacker_speed_roll"`
	DefenderSpeedRoll int  `json:"defender_speed_roll"`
	GuardRoll         int  `json:"guard_roll"`
	PowerRoll         int  `json:"power_roll"`
	AttackerFirst     bool `json:"attacker_first"`
	// DefenderInterrupted is set when the attacker went first and its
	// damage stopped the answer from resolving.
	DefenderInterrupted bool `json:"defender_interrupted"`
	AttackerInterrupted bool `json:"attacker_interrupted"`
}

// IntentData is what the renderer needs to show the player's matchups.
type IntentData struct {
	// Hidden is set while the player is deciding how to answer an attack
	// and cleared once the attack resolves.
	Hidden       bool          `json:"hidden"`
	PrevIncoming *moves.Intent `json:"prev_incoming,omitempty"`
	PrevOutgoing *moves.Intent `json:"prev_outgoing,omitempty"`
	LastContest  ContestRecord `json:"last_contest"`
}

// Intents returns a copy of the current intent display state.
func (e *EventEngine) Intents() IntentData {
	out := e.intents
	out.PrevIncoming = copyIntent(e.intents.PrevIncoming)
	out.PrevOutgoing = copyIntent(e.intents.PrevOutgoing)
	return out
}

// DisplayQueue returns the cards waiting to be shown, oldest first.
func (e *EventEngine) DisplayQueue() []visual.CardRequest {
	out := make([]visual.CardRequest, len(e.display))
	copy(out, e.display)
	return out
}

// mirrorCard queues a card for an attack that hits the player.
func (e *EventEngine) mirrorCard(ev *rules.Event, hit []ecs.Entity) {
	if e.player.IsNil() || !containsEntity(hit, e.player) {
		return
	}
	affected := make([]grid.Point, len(ev.Targets))
	copy(affected, ev.Targets)
	e.display = append(e.display, visual.CardRequest{
		Intent:   *ev.Intent,
		Source:   ev.Source,
		Offset:   e.sink.ActiveCards(),
		Affected: affected,
	})
	e.intents.Hidden = true
	e.intents.PrevIncoming = copyIntent(ev.Intent)
	e.intents.PrevOutgoing = nil
}

// trackOutgoing records the player's own move as it resolves.
func (e *EventEngine) trackOutgoing(ev *rules.Event) {
	if ev.Intent == nil || e.player.IsNil() || ev.Source != e.player {
		return
	}
	e.intents.PrevOutgoing = copyIntent(ev.Intent)
}

// popCard hands the most recent queued card to the sink.
func (e *EventEngine) popCard() {
	n := len(e.display)
	if n == 0 {
		return
	}
	card := e.display[n-1]
	e.display = e.display[:n-1]
	e.sink.MakeCard(card, e.sink.ActiveCards())
}

func copyIntent(in *moves.Intent) *moves.Intent {
	if in == nil {
		return nil
	}
	cp := *in
	return &cp
}

func containsEntity(list []ecs.Entity, want ecs.Entity) bool {
	for _, e := range list {
		if e == want {
			return true
		}
	}
	return false
}
