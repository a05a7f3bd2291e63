package moves

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counterpunch/counterpunch-go/internal/game/grid"
)

func TestIntentWithoutModifier(t *testing.T) {
	intent := NewIntent(Punch, grid.Pt(2, 3))

	assert.Equal(t, "punch", intent.Name())
	assert.Equal(t, 1, intent.Power())
	assert.Equal(t, 1, intent.Speed())
	assert.Equal(t, 0, intent.Guard())
	assert.Equal(t, []Trait{{Kind: TraitDamage}}, intent.Traits())
}

func TestIntentCombinesModifier(t *testing.T) {
	intent := NewIntent(Punch, grid.Pt(2, 3)).WithModifier(Super)

	assert.Equal(t, "super punch", intent.Name())
	assert.Equal(t, 3, intent.Power())
	assert.Equal(t, -1, intent.Speed())
	assert.Equal(t, 1, intent.Guard())
	// damage is shared, so it appears once
	assert.Equal(t, []Trait{{Kind: TraitDamage}, {Kind: TraitModifier}}, intent.Traits())
}

func TestIntentPowerFloorsAtZero(t *testing.T) {
	intent := NewIntent(Stun, grid.Pt(0, 0)).WithModifier(Quick)

	assert.Equal(t, "quick stun", intent.Name())
	assert.Equal(t, 0, intent.Power())
	assert.Equal(t, 6, intent.Speed())
	assert.Equal(t, -2, intent.Guard())
}

func TestIntentTraitsDoNotAlias(t *testing.T) {
	intent := NewIntent(Push, grid.Pt(0, 0)).WithModifier(Quick)
	traits := intent.Traits()
	require.Len(t, traits, 2)
	traits[0].Amount = 99

	push := MustLookup(Push)
	assert.Equal(t, 2, push.Traits[0].Amount)

	kb, ok := intent.Trait(TraitKnockback)
	require.True(t, ok)
	assert.Equal(t, 2, kb.Amount)
	assert.False(t, intent.HasTrait(TraitDamage))
}

func TestWithModifierCopies(t *testing.T) {
	base := NewIntent(Sweep, grid.Pt(1, 1))
	modified := base.WithModifier(Super)
	assert.Nil(t, base.Modifier)
	require.NotNil(t, modified.Modifier)
	assert.Equal(t, Super, *modified.Modifier)
}

func TestMoveTable(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, string(all[i-1].ID), string(all[i].ID))
	}

	dodge := MustLookup(Dodge)
	assert.True(t, dodge.IsFast())
	assert.False(t, MustLookup(Push).IsFast())

	tile, ok := dodge.AimAt(grid.Pt(5, 5), grid.Pt(7, 3))
	require.True(t, ok)
	assert.Equal(t, grid.Pt(7, 3), tile)

	id, err := Parse(" Haymaker ")
	require.NoError(t, err)
	assert.Equal(t, Haymaker, id)
	_, err = Parse("kick")
	assert.Error(t, err)

	assert.Panics(t, func() { MustLookup("kick") })
}
