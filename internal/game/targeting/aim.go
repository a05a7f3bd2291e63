package targeting

import (
	"strings"

	"github.com/counterpunch/counterpunch-go/internal/game/grid"
)

// AimPoint finds the first tile reachable from `from` (via reach) whose
// footprint covers target. It is how an attack is checked for validity
// before it is committed.
func AimPoint(reach, footprint RangeType, from, target grid.Point) (grid.Point, bool) {
	for _, tile := range ResolveAt(reach, from) {
		for _, covered := range ResolveAt(footprint, tile) {
			if covered == target {
				return tile, true
			}
		}
	}
	return grid.Point{}, false
}

// Covers reports whether target lies in r resolved at origin.
func Covers(r RangeType, origin, target grid.Point) bool {
	for _, p := range ResolveAt(r, origin) {
		if p == target {
			return true
		}
	}
	return false
}

// Render draws a width x height window with the footprint marked '*',
// the origin marked '@' and everything else '.'. Points outside the
// window are dropped.
func Render(points []grid.Point, origin grid.Point, width, height int) string {
	hit := make(map[grid.Point]bool, len(points))
	for _, p := range points {
		hit[p] = true
	}

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := grid.Pt(x, y)
			switch {
			case p == origin:
				b.WriteByte('@')
			case hit[p]:
				b.WriteByte('*')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
