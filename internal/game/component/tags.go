package component

import "github.com/counterpunch/counterpunch-go/internal/ecs"

const (
	CPlayer     ecs.ComponentType = 13
	CBlocksTile ecs.ComponentType = 14
	CName       ecs.ComponentType = 15
)

// Player tags the player-controlled entity.
type Player struct{}

func (Player) Type() ecs.ComponentType { return CPlayer }

// BlocksTile marks creatures that occupy their tile.
type BlocksTile struct{}

func (BlocksTile) Type() ecs.ComponentType { return CBlocksTile }

type Name struct {
	Name string
}

func (Name) Type() ecs.ComponentType { return CName }
