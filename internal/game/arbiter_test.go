package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
)

// duel sets up a thug punching the player and the player countering with
// a punch of their own. Both moves have speed 1 and guard 0.
func duel(t *testing.T) (*fightHarness, ecs.Entity, ecs.Entity) {
	h := newFightHarness(t)
	thug := h.spawn(creatureSpec{Name: "Thug", At: grid.Pt(4, 4), HP: 5})
	hero := h.spawn(creatureSpec{Name: "Hero", At: grid.Pt(5, 4), HP: 5, CanReact: true, Player: true})

	h.attack(thug, moves.Punch, grid.Pt(5, 4))
	require.Equal(t, StateAwaitingInput, h.engine.Drain().State)

	counter, err := h.engine.CommitCounter(hero, moves.NewIntent(moves.Punch, grid.Pt(0, 0)))
	require.NoError(t, err)
	assert.Equal(t, grid.Pt(4, 4), counter.Intent.Loc, "counter is aimed at the attacker")
	assert.Equal(t, thug, counter.Answers)
	assert.False(t, counter.InvokesReaction)
	return h, thug, hero
}

func TestContestTieGoesToAttacker(t *testing.T) {
	h, thug, hero := duel(t)

	// equal speed rolls, then a guard roll the power roll cannot beat
	h.dice.script(3, 3, 5, 0)
	require.Equal(t, StateHitPause, h.engine.Drain().State)

	record := h.engine.Intents().LastContest
	assert.True(t, record.Contested)
	assert.True(t, record.AttackerFirst)
	assert.Equal(t, 3, record.AttackerSpeedRoll)
	assert.Equal(t, 3, record.DefenderSpeedRoll)
	assert.Equal(t, 5, record.GuardRoll)
	assert.Equal(t, 0, record.PowerRoll)
	assert.False(t, record.DefenderInterrupted)

	assert.Equal(t, 4, h.hp(hero))
	assert.Equal(t, 4, h.hp(thug), "the counter still lands")

	damage := h.notesOf(rules.NoteDamageDealt)
	require.Len(t, damage, 2)
	assert.Equal(t, hero, damage[0].Target, "the attacker resolves first")
	assert.Equal(t, thug, damage[1].Target)
}

func TestAttackerInterruptsDefender(t *testing.T) {
	h, thug, hero := duel(t)

	// attacker first by 2; power 2+1=3 beats guard 0+1+1=2
	h.dice.script(4, 2, 1, 1)
	h.engine.Drain()

	record := h.engine.Intents().LastContest
	assert.True(t, record.AttackerFirst)
	assert.True(t, record.DefenderInterrupted)
	assert.False(t, record.AttackerInterrupted)

	assert.Equal(t, 4, h.hp(hero))
	assert.Equal(t, 5, h.hp(thug), "an interrupted counter is discarded")
	interrupts := h.notesOf(rules.NoteInterrupted)
	require.Len(t, interrupts, 1)
	assert.Equal(t, hero, interrupts[0].Target)
}

func TestDefenderBonusOnlyWhenAttackerLeads(t *testing.T) {
	h, thug, hero := duel(t)

	// attacker first by 1; power 1+1=2 does not beat guard 0+1+1=2
	h.dice.script(3, 2, 1, 1)
	h.engine.Drain()

	record := h.engine.Intents().LastContest
	assert.True(t, record.AttackerFirst)
	assert.False(t, record.DefenderInterrupted)
	assert.Equal(t, 4, h.hp(hero))
	assert.Equal(t, 4, h.hp(thug))
}

func TestDefenderInterruptsAttacker(t *testing.T) {
	h, thug, hero := duel(t)

	// defender first by 5; power 5+1=6 beats guard 0+5=5 (no bonus)
	h.dice.script(0, 5, 5, 1)
	h.engine.Drain()

	record := h.engine.Intents().LastContest
	assert.False(t, record.AttackerFirst)
	assert.True(t, record.AttackerInterrupted)
	assert.False(t, record.DefenderInterrupted)

	assert.Equal(t, 5, h.hp(hero), "the interrupted attack never lands")
	assert.Equal(t, 4, h.hp(thug))
}

func TestNonDamageFirstMoverNeverInterrupts(t *testing.T) {
	h := newFightHarness(t)
	thug := h.spawn(creatureSpec{Name: "Thug", At: grid.Pt(4, 4), HP: 5})
	hero := h.spawn(creatureSpec{Name: "Hero", At: grid.Pt(5, 4), HP: 5, CanReact: true, Player: true})

	// a shove from the thug, answered by a punch
	h.attack(thug, moves.Push, grid.Pt(5, 4))
	require.Equal(t, StateAwaitingInput, h.engine.Drain().State)
	_, err := h.engine.CommitCounter(hero, moves.NewIntent(moves.Punch, grid.Pt(0, 0)))
	require.NoError(t, err)

	// push speed 0, punch speed 1: 5 vs 1 keeps the attacker ahead; no
	// guard or power rolls follow a push
	h.dice.script(5, 0)
	h.engine.Drain()

	record := h.engine.Intents().LastContest
	assert.True(t, record.AttackerFirst)
	assert.False(t, record.DefenderInterrupted)
	assert.Equal(t, grid.Pt(7, 4), h.pos(hero))
	assert.Equal(t, 4, h.hp(thug), "the counter's tiles were fixed when it was queued")
}

func TestLoneIntentResetsContest(t *testing.T) {
	h, _, _ := duel(t)
	h.dice.script(3, 3, 5, 0)
	h.engine.Drain()
	require.True(t, h.engine.Intents().LastContest.Contested)
	h.drainAll()

	crate := h.spawn(creatureSpec{Name: "Crate", At: grid.Pt(2, 2), HP: 3})
	puncher := h.spawn(creatureSpec{Name: "Brawler", At: grid.Pt(2, 3), HP: 3})
	h.attack(puncher, moves.Punch, grid.Pt(2, 2))
	h.drainAll()

	assert.Equal(t, 2, h.hp(crate))
	assert.Equal(t, ContestRecord{}, h.engine.Intents().LastContest)
}

func TestUnrelatedIntentsDoNotContest(t *testing.T) {
	h := newFightHarness(t)
	a := h.spawn(creatureSpec{Name: "A", At: grid.Pt(2, 2), HP: 3})
	b := h.spawn(creatureSpec{Name: "B", At: grid.Pt(6, 6), HP: 3})
	h.spawn(creatureSpec{Name: "Crate", At: grid.Pt(2, 3), HP: 3})
	h.spawn(creatureSpec{Name: "Barrel", At: grid.Pt(6, 5), HP: 3})

	h.attack(a, moves.Punch, grid.Pt(2, 3))
	h.attack(b, moves.Punch, grid.Pt(6, 5))
	h.drainAll()

	assert.Empty(t, h.notesOf(rules.NoteContest))
	assert.False(t, h.engine.Intents().LastContest.Contested)
}

func TestContestSettingsApply(t *testing.T) {
	settings := DefaultSettings()
	settings.AttackerSpeedBonus = 10
	settings.DefenderGuardBonus = 0

	h := newFightHarness(t, WithSettings(settings))
	thug := h.spawn(creatureSpec{Name: "Thug", At: grid.Pt(4, 4), HP: 5})
	hero := h.spawn(creatureSpec{Name: "Hero", At: grid.Pt(5, 4), HP: 5, CanReact: true})

	h.attack(thug, moves.Punch, grid.Pt(5, 4))
	h.engine.Drain()
	_, err := h.engine.CommitCounter(hero, moves.NewIntent(moves.Punch, grid.Pt(0, 0)))
	require.NoError(t, err)

	// 1+0+10 vs 1+5: the bonus keeps the attacker first by 5,
	// power 5+0 beats guard 0+4 with no defender bonus
	h.dice.script(0, 5, 4, 0)
	h.engine.Drain()

	record := h.engine.Intents().LastContest
	assert.True(t, record.AttackerFirst)
	assert.True(t, record.DefenderInterrupted)
	assert.Equal(t, 5, h.hp(thug))
}

func TestRollBounds(t *testing.T) {
	assert.Panics(t, func() { NewRoll(-1) })
	assert.Equal(t, 0, NewRoll(0).With(&scriptedDice{t: t}), "a zero span never rolls")
	assert.Equal(t, 6, NewRoll(6).Span())
}
