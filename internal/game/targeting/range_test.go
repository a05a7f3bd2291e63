package targeting

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counterpunch/counterpunch-go/internal/game/grid"
)

func TestResolveEmptyAndSingle(t *testing.T) {
	assert.Empty(t, ResolveAt(Empty, grid.Pt(3, 3)))
	assert.Equal(t, []grid.Point{grid.Pt(3, 3)}, ResolveAt(Single, grid.Pt(3, 3)))
}

func TestResolveSquareAtCenter(t *testing.T) {
	points := ResolveAt(Square(1), grid.Pt(5, 5))
	require.Len(t, points, 9)

	var expected []grid.Point
	for y := 4; y <= 6; y++ {
		for x := 4; x <= 6; x++ {
			expected = append(expected, grid.Pt(x, y))
		}
	}
	assert.ElementsMatch(t, expected, points)

	// repeatable
	assert.Equal(t, points, ResolveAt(Square(1), grid.Pt(5, 5)))
}

func TestResolveSquareAtCornerClipped(t *testing.T) {
	m := grid.NewOpen(10, 10)
	points := ResolveAt(Square(1), grid.Pt(0, 0))
	require.Len(t, points, 9, "the resolver itself never clips")

	clipped := m.Clip(points)
	assert.ElementsMatch(t, []grid.Point{
		grid.Pt(0, 0), grid.Pt(1, 0), grid.Pt(0, 1), grid.Pt(1, 1),
	}, clipped)
}

func TestNegativeSquarePanics(t *testing.T) {
	assert.Panics(t, func() { Square(-1) })
	assert.Panics(t, func() {
		ResolveAt(RangeType{Shape: ShapeSquare, Size: -2}, grid.Pt(3, 3))
	})
}

func TestResolveSquareZero(t *testing.T) {
	assert.Equal(t, []grid.Point{grid.Pt(2, 2)}, ResolveAt(Square(0), grid.Pt(2, 2)))
}

func TestResolveCustomKeepsDeclarationOrder(t *testing.T) {
	r := Custom(grid.Pt(1, 0), grid.Pt(-1, 0), grid.Pt(0, 2))
	assert.Equal(t, []grid.Point{
		grid.Pt(5, 4), grid.Pt(3, 4), grid.Pt(4, 6),
	}, ResolveAt(r, grid.Pt(4, 4)))
}

func TestParseRange(t *testing.T) {
	cases := []struct {
		in   string
		want RangeType
	}{
		{"empty", Empty},
		{"", Empty},
		{"Single", Single},
		{"square:2", Square(2)},
		{"custom:1,0; 0,-1", Custom(grid.Pt(1, 0), grid.Pt(0, -1))},
	}
	for _, tc := range cases {
		got, err := ParseRange(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		if tc.in != "" {
			again, err := ParseRange(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, again)
		}
	}

	for _, bad := range []string{"square:x", "square:-1", "custom:1", "cone:2"} {
		_, err := ParseRange(bad)
		assert.Error(t, err, bad)
	}
}

func TestAimPoint(t *testing.T) {
	// punch: reach square 1, footprint single
	tile, ok := AimPoint(Square(1), Single, grid.Pt(5, 5), grid.Pt(6, 6))
	require.True(t, ok)
	assert.Equal(t, grid.Pt(6, 6), tile)

	_, ok = AimPoint(Square(1), Single, grid.Pt(5, 5), grid.Pt(7, 5))
	assert.False(t, ok)

	// sweep: reach single, footprint square 1
	tile, ok = AimPoint(Single, Square(1), grid.Pt(5, 5), grid.Pt(4, 6))
	require.True(t, ok)
	assert.Equal(t, grid.Pt(5, 5), tile)

	_, ok = AimPoint(Empty, Single, grid.Pt(5, 5), grid.Pt(5, 5))
	assert.False(t, ok)
}

func TestFootprintGolden(t *testing.T) {
	g := goldie.New(t)

	g.Assert(t, "square1_center", []byte(Render(ResolveAt(Square(1), grid.Pt(5, 5)), grid.Pt(5, 5), 10, 10)))
	g.Assert(t, "square1_corner", []byte(Render(ResolveAt(Square(1), grid.Pt(0, 0)), grid.Pt(0, 0), 10, 10)))

	custom := Custom(grid.Pt(1, 0), grid.Pt(2, 0), grid.Pt(0, -1))
	g.Assert(t, "custom_offsets", []byte(Render(ResolveAt(custom, grid.Pt(3, 3)), grid.Pt(3, 3), 6, 6)))
}
