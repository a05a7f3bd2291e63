package component

import (
	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
)

const CPosition ecs.ComponentType = 1

type Position struct {
	grid.Point
}

func (Position) Type() ecs.ComponentType { return CPosition }

// At is shorthand for a Position at (x, y).
func At(x, y int) Position {
	return Position{Point: grid.Pt(x, y)}
}
