package systems

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game"
	"github.com/counterpunch/counterpunch-go/internal/game/component"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
)

type fixture struct {
	t      *testing.T
	world  *ecs.World
	arena  *grid.Map
	engine *game.EventEngine
	notes  []rules.Notification
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{t: t, world: ecs.NewWorld(), arena: grid.NewOpen(8, 8)}
	f.engine = game.NewEventEngine(f.world, f.arena, game.WithLogger(zaptest.NewLogger(t)))
	f.engine.Bus().Subscribe(func(n rules.Notification) { f.notes = append(f.notes, n) })
	return f
}

// creature spawns a tracked entity with health, optionally on the
// scheduler.
func (f *fixture) creature(name string, at grid.Point, hp int, sched *component.Schedulable) ecs.Entity {
	f.t.Helper()
	e := f.world.CreateEntity()
	f.world.Add(e, component.Name{Name: name})
	f.world.Add(e, component.Position{Point: at})
	f.world.Add(e, component.Health{Current: hp, Max: hp})
	f.world.Add(e, component.BlocksTile{})
	if sched != nil {
		f.world.Add(e, *sched)
	}
	if !f.arena.TrackCreature(e, at) {
		f.t.Fatalf("tile %s taken", at)
	}
	return e
}

func (f *fixture) item(at grid.Point, c ecs.Component) ecs.Entity {
	f.t.Helper()
	e := f.world.CreateEntity()
	f.world.Add(e, c)
	if !f.arena.TrackItem(e, at) {
		f.t.Fatalf("item tile %s taken", at)
	}
	return e
}

func (f *fixture) hp(e ecs.Entity) int {
	hp, _ := ecs.GetAs[component.Health](f.world, e)
	return hp.Current
}

func (f *fixture) count(kind rules.NotificationType) int {
	n := 0
	for _, note := range f.notes {
		if note.Type == kind {
			n++
		}
	}
	return n
}

func (f *fixture) pos(e ecs.Entity) grid.Point {
	pos, _ := ecs.GetAs[component.Position](f.world, e)
	return pos.Point
}
