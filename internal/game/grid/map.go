package grid

import (
	"sort"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
)

// TileKind identifies the type of a map tile.
type TileKind uint8

const (
	TileWall TileKind = iota
	TileFloor
)

// Map is the arena grid: tile kinds, the blocking grid and the creature
// and item indexes the resolvers keep in sync with entity positions.
type Map struct {
	Width, Height int
	Tiles         []TileKind
	Blocked       []bool
	creatures     map[int]ecs.Entity
	items         map[int]ecs.Entity
}

// New creates a width x height arena with a wall border and open floor.
func New(width, height int) *Map {
	m := &Map{
		Width:     width,
		Height:    height,
		Tiles:     make([]TileKind, width*height),
		Blocked:   make([]bool, width*height),
		creatures: make(map[int]ecs.Entity),
		items:     make(map[int]ecs.Entity),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				m.Tiles[m.Index(Pt(x, y))] = TileWall
			} else {
				m.Tiles[m.Index(Pt(x, y))] = TileFloor
			}
		}
	}
	m.ResetBlocked()
	return m
}

// NewOpen creates a width x height arena with no walls at all.
func NewOpen(width, height int) *Map {
	m := New(width, height)
	for i := range m.Tiles {
		m.Tiles[i] = TileFloor
	}
	m.ResetBlocked()
	return m
}

// Index converts p to a flat tile index. p must be in bounds.
func (m *Map) Index(p Point) int {
	return p.Y*m.Width + p.X
}

// At converts a flat tile index back to a point.
func (m *Map) At(idx int) Point {
	return Pt(idx%m.Width, idx/m.Width)
}

// InBounds reports whether p is within the map boundaries.
func (m *Map) InBounds(p Point) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height
}

// IsBlocked reports whether p is out of bounds or blocked.
func (m *Map) IsBlocked(p Point) bool {
	if !m.InBounds(p) {
		return true
	}
	return m.Blocked[m.Index(p)]
}

// SetBlocked marks p blocked or unblocked. Out-of-bounds points are ignored.
func (m *Map) SetBlocked(p Point, blocked bool) {
	if m.InBounds(p) {
		m.Blocked[m.Index(p)] = blocked
	}
}

// SetTile replaces the tile kind at p and refreshes its blocking.
func (m *Map) SetTile(p Point, kind TileKind) {
	if !m.InBounds(p) {
		return
	}
	idx := m.Index(p)
	m.Tiles[idx] = kind
	_, occupied := m.creatures[idx]
	m.Blocked[idx] = kind == TileWall || occupied
}

// ResetBlocked recomputes the blocking grid from walls and tracked creatures.
func (m *Map) ResetBlocked() {
	for idx, tile := range m.Tiles {
		m.Blocked[idx] = tile == TileWall
	}
	for idx := range m.creatures {
		m.Blocked[idx] = true
	}
}

// Clip returns the in-bounds subset of points, preserving order.
func (m *Map) Clip(points []Point) []Point {
	clipped := make([]Point, 0, len(points))
	for _, p := range points {
		if m.InBounds(p) {
			clipped = append(clipped, p)
		}
	}
	return clipped
}

// TrackCreature records e at p and blocks the tile. It returns false if
// another creature is already tracked there.
func (m *Map) TrackCreature(e ecs.Entity, p Point) bool {
	if !m.InBounds(p) {
		return false
	}
	idx := m.Index(p)
	if _, ok := m.creatures[idx]; ok {
		return false
	}
	m.creatures[idx] = e
	m.Blocked[idx] = true
	return true
}

// UntrackCreature forgets the creature at p and unblocks the tile.
func (m *Map) UntrackCreature(p Point) (ecs.Entity, bool) {
	if !m.InBounds(p) {
		return ecs.Nil, false
	}
	idx := m.Index(p)
	m.Blocked[idx] = m.Tiles[idx] == TileWall
	e, ok := m.creatures[idx]
	delete(m.creatures, idx)
	return e, ok
}

// CreatureAt returns the creature tracked at p.
func (m *Map) CreatureAt(p Point) (ecs.Entity, bool) {
	if !m.InBounds(p) {
		return ecs.Nil, false
	}
	e, ok := m.creatures[m.Index(p)]
	return e, ok
}

// MoveCreature relocates e from prev to next in the blocking grid and the
// creature index. It does not touch the entity's position component.
func (m *Map) MoveCreature(e ecs.Entity, prev, next Point) {
	if !m.InBounds(prev) || !m.InBounds(next) {
		return
	}
	prevIdx := m.Index(prev)
	nextIdx := m.Index(next)
	if tracked, ok := m.creatures[prevIdx]; ok && tracked == e {
		delete(m.creatures, prevIdx)
		m.creatures[nextIdx] = e
	}
	m.Blocked[prevIdx] = false
	m.Blocked[nextIdx] = true
}

// TrackItem records an item entity at p. It returns false if the tile
// already holds an item.
func (m *Map) TrackItem(e ecs.Entity, p Point) bool {
	if !m.InBounds(p) {
		return false
	}
	idx := m.Index(p)
	if _, ok := m.items[idx]; ok {
		return false
	}
	m.items[idx] = e
	return true
}

// UntrackItem removes and returns the item tracked at p.
func (m *Map) UntrackItem(p Point) (ecs.Entity, bool) {
	if !m.InBounds(p) {
		return ecs.Nil, false
	}
	idx := m.Index(p)
	e, ok := m.items[idx]
	delete(m.items, idx)
	return e, ok
}

// ItemAt returns the item tracked at p without removing it.
func (m *Map) ItemAt(p Point) (ecs.Entity, bool) {
	if !m.InBounds(p) {
		return ecs.Nil, false
	}
	e, ok := m.items[m.Index(p)]
	return e, ok
}

// Items returns the positions of every tracked item in row-major order.
func (m *Map) Items() []Point {
	idxs := make([]int, 0, len(m.items))
	for idx := range m.items {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	points := make([]Point, len(idxs))
	for i, idx := range idxs {
		points[i] = m.At(idx)
	}
	return points
}
