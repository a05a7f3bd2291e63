package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game"
	"github.com/counterpunch/counterpunch-go/internal/game/component"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
)

func TestRunnerStepOrder(t *testing.T) {
	f := newFixture(t)
	hero := f.creature("Hero", grid.Pt(1, 1), 5, &component.Schedulable{Current: 5, Base: 5, Delta: 1})
	f.world.Add(hero, component.Player{})
	f.engine.SetPlayer(hero)
	thug := f.creature("Thug", grid.Pt(3, 1), 1, &component.Schedulable{Current: 1, Base: 5, Delta: 1})
	f.item(grid.Pt(2, 1), component.HealPickup{Amount: 2})

	r := NewRunner(f.engine)
	require.Same(t, f.engine, r.Engine())

	res := r.Step()
	assert.Equal(t, []ecs.Entity{thug}, res.Granted)
	assert.Equal(t, game.StateRunning, res.Outcome.State)

	// the hero steps onto the potion and the thug punches itself out
	f.engine.EndTurn(thug)
	f.world.Add(hero, component.MoveIntent{Loc: grid.Pt(2, 1)})
	f.world.Add(hero, component.Health{Current: 3, Max: 5})
	f.world.Add(thug, component.Health{Current: 0, Max: 1})

	res = r.Step()
	assert.Equal(t, grid.Pt(2, 1), f.pos(hero))
	assert.Equal(t, 5, f.hp(hero), "the step resolved before pickups ran")
	assert.Equal(t, []ecs.Entity{thug}, res.Died)
	assert.False(t, res.PlayerDead)
	assert.Equal(t, 2, r.Turns().TickNumber())
}

func TestRunnerStallsOnReaction(t *testing.T) {
	f := newFixture(t)
	hero := f.creature("Hero", grid.Pt(2, 2), 5, &component.Schedulable{Current: 9, Base: 9, Delta: 1})
	f.world.Add(hero, component.CanReact{})
	thug := f.creature("Thug", grid.Pt(3, 2), 5, &component.Schedulable{Current: 1, Base: 9, Delta: 1})

	r := NewRunner(f.engine)
	res := r.Step()
	require.Equal(t, []ecs.Entity{thug}, res.Granted)

	f.world.Add(thug, component.AttackIntent{Intent: moves.NewIntent(moves.Punch, grid.Pt(2, 2))})
	f.engine.EndTurn(thug)

	res = r.Step()
	assert.Equal(t, game.StateAwaitingInput, res.Outcome.State)
	assert.Equal(t, 5, f.hp(hero))

	require.NoError(t, f.engine.Pass(hero))
	res = r.Step()
	assert.Equal(t, game.StateHitPause, res.Outcome.State)
	assert.Equal(t, 4, f.hp(hero))
}
