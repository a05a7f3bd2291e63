package component

import "github.com/counterpunch/counterpunch-go/internal/ecs"

const (
	CHealth      ecs.ComponentType = 2
	CBlockAttack ecs.ComponentType = 3
)

// Health may drop to zero or below; the death system cleans up afterwards.
type Health struct {
	Current int
	Max     int
}

func (Health) Type() ecs.ComponentType { return CHealth }

// BlockAttack absorbs up to Amount damage from the next hit and is then removed.
type BlockAttack struct {
	Amount int
}

func (BlockAttack) Type() ecs.ComponentType { return CBlockAttack }
