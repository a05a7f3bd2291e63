package game

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/component"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
	"github.com/counterpunch/counterpunch-go/internal/game/visual"
)

// scriptedDice returns pre-arranged rolls and fails the test when a roll
// is out of range or the script runs out.
type scriptedDice struct {
	t     *testing.T
	rolls []int
}

func (d *scriptedDice) Intn(n int) int {
	d.t.Helper()
	if len(d.rolls) == 0 {
		d.t.Fatalf("dice script exhausted (rolling [0,%d))", n)
	}
	v := d.rolls[0]
	d.rolls = d.rolls[1:]
	if v < 0 || v >= n {
		d.t.Fatalf("scripted roll %d outside [0,%d)", v, n)
	}
	return v
}

func (d *scriptedDice) script(rolls ...int) {
	d.rolls = append(d.rolls, rolls...)
}

// fightHarness provides an arena, a world and an engine wired to a
// recording sink and scripted dice.
type fightHarness struct {
	t      *testing.T
	world  *ecs.World
	arena  *grid.Map
	engine *EventEngine
	dice   *scriptedDice
	sink   *visual.Recorder
	notes  []rules.Notification
	drawn  map[ecs.Entity]int
}

func newFightHarness(t *testing.T, opts ...Option) *fightHarness {
	h := &fightHarness{
		t:     t,
		world: ecs.NewWorld(),
		arena: grid.NewOpen(9, 9),
		dice:  &scriptedDice{t: t},
		sink:  visual.NewRecorder(),
		drawn: make(map[ecs.Entity]int),
	}
	base := []Option{
		WithLogger(zaptest.NewLogger(t)),
		WithDice(h.dice),
		WithSink(h.sink),
		WithDrawHook(func(source ecs.Entity, amount int) int {
			h.drawn[source] += amount
			return amount
		}),
	}
	h.engine = NewEventEngine(h.world, h.arena, append(base, opts...)...)
	h.engine.Bus().Subscribe(func(n rules.Notification) {
		h.notes = append(h.notes, n)
	})
	return h
}

// creatureSpec describes a test creature.
type creatureSpec struct {
	Name     string
	At       grid.Point
	HP       int
	CanReact bool
	Player   bool
}

func (h *fightHarness) spawn(spec creatureSpec) ecs.Entity {
	h.t.Helper()
	e := h.world.CreateEntity()
	h.world.Add(e, component.Position{Point: spec.At})
	h.world.Add(e, component.Health{Current: spec.HP, Max: spec.HP})
	h.world.Add(e, component.BlocksTile{})
	h.world.Add(e, component.Name{Name: spec.Name})
	if spec.CanReact {
		h.world.Add(e, component.CanReact{})
	}
	if spec.Player {
		h.world.Add(e, component.Player{})
		h.engine.SetPlayer(e)
	}
	if !h.arena.TrackCreature(e, spec.At) {
		h.t.Fatalf("tile %s already occupied", spec.At)
	}
	return e
}

func (h *fightHarness) hp(e ecs.Entity) int {
	h.t.Helper()
	hp, ok := ecs.GetAs[component.Health](h.world, e)
	if !ok {
		h.t.Fatalf("%s has no health", e)
	}
	return hp.Current
}

func (h *fightHarness) pos(e ecs.Entity) grid.Point {
	h.t.Helper()
	pos, ok := ecs.GetAs[component.Position](h.world, e)
	if !ok {
		h.t.Fatalf("%s has no position", e)
	}
	return pos.Point
}

func (h *fightHarness) canAct(e ecs.Entity) (component.CanAct, bool) {
	return ecs.GetAs[component.CanAct](h.world, e)
}

// attack queues src's attack with the given move aimed at target.
func (h *fightHarness) attack(src ecs.Entity, move moves.MoveID, target grid.Point) *rules.Event {
	h.t.Helper()
	ev := BuildAttack(moves.NewIntent(move, target), src, h.pos(src), true)
	if ev == nil {
		h.t.Fatalf("%s builds no event", move)
	}
	h.engine.PushEvent(ev)
	return ev
}

// drainAll drains until the stack is empty, failing on a reaction stall.
func (h *fightHarness) drainAll() {
	h.t.Helper()
	for i := 0; i < 16; i++ {
		out := h.engine.Drain()
		switch out.State {
		case StateRunning:
			return
		case StateAwaitingInput:
			h.t.Fatalf("unexpected reaction stall")
		}
	}
	h.t.Fatalf("stack did not drain")
}

func (h *fightHarness) notesOf(kind rules.NotificationType) []rules.Notification {
	var out []rules.Notification
	for _, n := range h.notes {
		if n.Type == kind {
			out = append(out, n)
		}
	}
	return out
}
