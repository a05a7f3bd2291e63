package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/component"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
	"github.com/counterpunch/counterpunch-go/internal/game/targeting"
	"github.com/counterpunch/counterpunch-go/internal/game/visual"
)

func TestDamageBlockMath(t *testing.T) {
	tests := []struct {
		name   string
		damage int
		block  int
		want   int
	}{
		{"no block", 3, 0, 7},
		{"partial block", 3, 1, 8},
		{"block absorbs everything", 1, 2, 10},
		{"exact block", 2, 2, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newFightHarness(t)
			dummy := h.spawn(creatureSpec{Name: "Dummy", At: grid.Pt(3, 3), HP: 10})
			if tt.block > 0 {
				h.world.Add(dummy, component.BlockAttack{Amount: tt.block})
			}

			h.engine.Push(rules.Damage(tt.damage), nil, ecs.Nil, targeting.Single, grid.Pt(3, 3), false)
			h.drainAll()

			assert.Equal(t, tt.want, h.hp(dummy))
			assert.False(t, h.world.Has(dummy, component.CBlockAttack), "block is always consumed")
		})
	}
}

func TestDamageMayDropHealthBelowZero(t *testing.T) {
	h := newFightHarness(t)
	dummy := h.spawn(creatureSpec{Name: "Dummy", At: grid.Pt(3, 3), HP: 1})

	h.engine.Push(rules.Damage(4), nil, ecs.Nil, targeting.Single, grid.Pt(3, 3), false)
	h.drainAll()

	assert.Equal(t, -3, h.hp(dummy))
}

func TestDamageSkipsEntitiesWithoutHealth(t *testing.T) {
	h := newFightHarness(t)
	ghost := h.world.CreateEntity()
	h.world.Add(ghost, component.Position{Point: grid.Pt(3, 3)})

	h.engine.Push(rules.Damage(4), nil, ecs.Nil, targeting.Single, grid.Pt(3, 3), false)
	h.drainAll()

	assert.Empty(t, h.notesOf(rules.NoteDamageDealt))
}

func TestSquareHitsEveryEntityOnce(t *testing.T) {
	h := newFightHarness(t)
	var dummies []ecs.Entity
	for _, p := range []grid.Point{grid.Pt(3, 3), grid.Pt(4, 4), grid.Pt(2, 4), grid.Pt(5, 5)} {
		dummies = append(dummies, h.spawn(creatureSpec{Name: "Dummy", At: p, HP: 5}))
	}

	h.engine.Push(rules.Damage(1), nil, ecs.Nil, targeting.Square(1), grid.Pt(3, 3), false)
	h.drainAll()

	assert.Equal(t, 4, h.hp(dummies[0]))
	assert.Equal(t, 4, h.hp(dummies[1]))
	assert.Equal(t, 4, h.hp(dummies[2]))
	assert.Equal(t, 5, h.hp(dummies[3]), "outside Chebyshev distance 1")
	assert.Len(t, h.sink.Particles(), 9)
}

func TestHitParticlesAreClipped(t *testing.T) {
	h := newFightHarness(t)
	h.engine.Push(rules.Damage(1), nil, ecs.Nil, targeting.Square(1), grid.Pt(0, 0), false)
	h.drainAll()

	particles := h.sink.Particles()
	require.Len(t, particles, 4)
	for _, p := range particles {
		assert.True(t, h.arena.InBounds(p.Position))
		assert.Equal(t, visual.HitLifetime, p.Lifetime)
		assert.Equal(t, visual.Red, p.Color)
	}
}

func TestPushResolver(t *testing.T) {
	tests := []struct {
		name     string
		from     grid.Point
		at       grid.Point
		amount   int
		obstacle *grid.Point
		want     grid.Point
	}{
		{name: "full distance", from: grid.Pt(1, 2), at: grid.Pt(2, 2), amount: 2, want: grid.Pt(4, 2)},
		{name: "diagonal", from: grid.Pt(1, 1), at: grid.Pt(2, 2), amount: 1, want: grid.Pt(3, 3)},
		{name: "stops before obstacle", from: grid.Pt(1, 2), at: grid.Pt(2, 2), amount: 3, obstacle: &grid.Point{X: 4, Y: 2}, want: grid.Pt(3, 2)},
		{name: "stops at map edge", from: grid.Pt(5, 2), at: grid.Pt(6, 2), amount: 5, want: grid.Pt(8, 2)},
		{name: "pinned against a wall", from: grid.Pt(7, 2), at: grid.Pt(8, 2), amount: 2, want: grid.Pt(8, 2)},
		{name: "no direction", from: grid.Pt(2, 2), at: grid.Pt(2, 2), amount: 2, want: grid.Pt(2, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newFightHarness(t)
			victim := h.spawn(creatureSpec{Name: "Victim", At: tt.at, HP: 5})
			if tt.obstacle != nil {
				h.arena.SetBlocked(*tt.obstacle, true)
			}

			h.engine.Push(rules.Push(tt.from, tt.amount), nil, ecs.Nil, targeting.Single, tt.at, false)
			h.drainAll()

			assert.Equal(t, tt.want, h.pos(victim))
			assert.True(t, h.arena.IsBlocked(tt.want))
			if tt.want != tt.at {
				assert.False(t, h.arena.IsBlocked(tt.at), "vacated tile is unblocked")
			}
			got, ok := h.arena.CreatureAt(tt.want)
			require.True(t, ok)
			assert.Equal(t, victim, got)

			pushed := h.notesOf(rules.NotePushed)
			require.Len(t, pushed, 1)
			assert.Equal(t, tt.at.Chebyshev(tt.want), pushed[0].Amount)
		})
	}
}

func TestMovementResolver(t *testing.T) {
	h := newFightHarness(t)
	walker := h.spawn(creatureSpec{Name: "Walker", At: grid.Pt(2, 2), HP: 5})
	h.spawn(creatureSpec{Name: "Wall", At: grid.Pt(3, 3), HP: 5})

	h.engine.Push(rules.Movement(), nil, walker, targeting.Single, grid.Pt(3, 3), false)
	h.drainAll()
	assert.Equal(t, grid.Pt(2, 2), h.pos(walker), "occupied tiles refuse the move")

	h.engine.Push(rules.Movement(), nil, walker, targeting.Single, grid.Pt(-1, 2), false)
	h.drainAll()
	assert.Equal(t, grid.Pt(2, 2), h.pos(walker), "out of bounds refuses the move")

	h.engine.Push(rules.Movement(), nil, walker, targeting.Single, grid.Pt(2, 3), false)
	h.drainAll()
	assert.Equal(t, grid.Pt(2, 3), h.pos(walker))
	assert.False(t, h.arena.IsBlocked(grid.Pt(2, 2)))
	assert.True(t, h.arena.IsBlocked(grid.Pt(2, 3)))

	// a movement with no live source is a no-op
	h.engine.Push(rules.Movement(), nil, ecs.Nil, targeting.Single, grid.Pt(4, 4), false)
	h.drainAll()
	assert.Len(t, h.notesOf(rules.NoteMoved), 1)
}

func TestItemDropHealth(t *testing.T) {
	h := newFightHarness(t)
	h.dice.script(1)

	h.engine.Push(rules.ItemDrop(rules.DropHealth, 0), nil, ecs.Nil, targeting.Single, grid.Pt(3, 3), false)
	h.drainAll()

	item, ok := h.arena.ItemAt(grid.Pt(3, 3))
	require.True(t, ok)
	heal, ok := ecs.GetAs[component.HealPickup](h.world, item)
	require.True(t, ok)
	assert.Equal(t, 2, heal.Amount)
	assert.False(t, h.world.Has(item, component.CPosition), "items live in the item index only")
}

func TestItemDropHealAmountIsAtLeastOne(t *testing.T) {
	h := newFightHarness(t)
	h.dice.script(0)

	h.engine.Push(rules.ItemDrop(rules.DropHealth, -8), nil, ecs.Nil, targeting.Single, grid.Pt(3, 3), false)
	h.drainAll()

	item, _ := h.arena.ItemAt(grid.Pt(3, 3))
	heal, _ := ecs.GetAs[component.HealPickup](h.world, item)
	assert.Equal(t, 1, heal.Amount)
}

func TestItemDropSkillChoicesAreDistinct(t *testing.T) {
	h := newFightHarness(t)
	h.dice.script(0, 0, 0)

	h.engine.Push(rules.ItemDrop(rules.DropSkill, 0), nil, ecs.Nil, targeting.Single, grid.Pt(3, 3), false)
	h.drainAll()

	item, ok := h.arena.ItemAt(grid.Pt(3, 3))
	require.True(t, ok)
	book, ok := ecs.GetAs[component.SkillChoice](h.world, item)
	require.True(t, ok)
	assert.Equal(t, []moves.MoveID{moves.Brace, moves.Dodge, moves.Haymaker}, book.Choices)
}

func TestItemDropSkipsTakenTile(t *testing.T) {
	h := newFightHarness(t)
	h.dice.script(0)

	h.engine.Push(rules.ItemDrop(rules.DropHealth, 0), nil, ecs.Nil, targeting.Single, grid.Pt(3, 3), false)
	h.drainAll()
	first, _ := h.arena.ItemAt(grid.Pt(3, 3))

	// the tile is taken, so nothing rolls or spawns
	h.engine.Push(rules.ItemDrop(rules.DropSkill, 0), nil, ecs.Nil, targeting.Single, grid.Pt(3, 3), false)
	h.drainAll()

	again, _ := h.arena.ItemAt(grid.Pt(3, 3))
	assert.Equal(t, first, again)
	assert.Len(t, h.arena.Items(), 1)
	assert.Len(t, h.notesOf(rules.NoteItemDropped), 1)
}

func TestItemDropLandsOnceOnFirstInBoundsTile(t *testing.T) {
	h := newFightHarness(t)
	h.dice.script(0)

	// a square around the corner clips to four tiles; only the first gets a pickup
	h.engine.Push(rules.ItemDrop(rules.DropHealth, 0), nil, ecs.Nil, targeting.Square(1), grid.Pt(0, 0), false)
	h.drainAll()

	require.Len(t, h.arena.Items(), 1)
	_, ok := h.arena.ItemAt(grid.Pt(0, 0))
	assert.True(t, ok)

	notes := h.notesOf(rules.NoteItemDropped)
	require.Len(t, notes, 1)
	assert.Equal(t, grid.Pt(0, 0), notes[0].To)

	// off the map entirely: nothing drops
	h.engine.Push(rules.ItemDrop(rules.DropHealth, 0), nil, ecs.Nil, targeting.Single, grid.Pt(-5, -5), false)
	h.drainAll()
	assert.Len(t, h.arena.Items(), 1)
}

func TestHealResolverCapsAtMax(t *testing.T) {
	h := newFightHarness(t)
	patient := h.spawn(creatureSpec{Name: "Patient", At: grid.Pt(3, 3), HP: 5})
	h.world.Add(patient, component.Health{Current: 4, Max: 5})

	h.engine.Push(rules.Heal(3), nil, ecs.Nil, targeting.Single, grid.Pt(3, 3), false)
	h.drainAll()

	assert.Equal(t, 5, h.hp(patient))
	healed := h.notesOf(rules.NoteHealed)
	require.Len(t, healed, 1)
	assert.Equal(t, 1, healed[0].Amount)
}

func TestResolversSkipDestroyedEntities(t *testing.T) {
	h := newFightHarness(t)
	doomed := h.spawn(creatureSpec{Name: "Doomed", At: grid.Pt(3, 3), HP: 5})

	h.engine.Push(rules.Damage(1), nil, ecs.Nil, targeting.Single, grid.Pt(3, 3), false)
	h.world.DestroyEntity(doomed)
	h.drainAll()

	assert.Empty(t, h.notesOf(rules.NoteDamageDealt))
	assert.False(t, h.world.Alive(doomed))
}
