package systems

import (
	"go.uber.org/zap"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/component"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
)

// TurnManager is the energy scheduler. Every tick each schedulable
// entity's counter drops by its delta; once it reaches zero the entity may
// act and its base cost is added back. No counter moves while anyone
// still holds a turn.
type TurnManager struct {
	world  *ecs.World
	bus    *rules.EventBus
	logger *zap.Logger
	tick   int
}

// NewTurnManager creates a scheduler over world. bus may be nil.
func NewTurnManager(world *ecs.World, bus *rules.EventBus, logger *zap.Logger) *TurnManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TurnManager{world: world, bus: bus, logger: logger}
}

// TickNumber returns how many ticks advanced the counters.
func (tm *TurnManager) TickNumber() int {
	return tm.tick
}

// Acting returns every entity currently holding a turn, ordinary or
// reaction.
func (tm *TurnManager) Acting() []ecs.Entity {
	return tm.world.Query(component.CCanAct)
}

// Waiting reports whether some entity still has to use its turn.
func (tm *TurnManager) Waiting() bool {
	return len(tm.Acting()) > 0
}

// Tick advances the counters once and returns the entities that were
// granted a turn, in handle order.
func (tm *TurnManager) Tick() []ecs.Entity {
	if tm.Waiting() {
		return nil
	}
	tm.tick++

	var granted []ecs.Entity
	for _, ent := range tm.world.Query(component.CSchedulable) {
		sched, _ := ecs.GetAs[component.Schedulable](tm.world, ent)
		sched.Current -= sched.Delta
		if sched.Current <= 0 {
			sched.Current += sched.Base
			tm.world.Add(ent, component.CanAct{})
			granted = append(granted, ent)
		}
		tm.world.Add(ent, sched)
	}

	for _, ent := range granted {
		tm.logger.Debug("turn granted", zap.Int("tick", tm.tick), zap.Stringer("entity", ent))
		if tm.bus != nil {
			tm.bus.Publish(rules.Notification{Type: rules.NoteTurnGranted, Target: ent, Amount: tm.tick})
		}
	}
	return granted
}
