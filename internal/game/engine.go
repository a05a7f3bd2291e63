// Package game holds the event engine: the stack of pending world
// mutations, the drain loop that matches them against entities and opens
// reaction windows, the contest arbiter, and the effect resolvers.
package game

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
	"github.com/counterpunch/counterpunch-go/internal/game/targeting"
	"github.com/counterpunch/counterpunch-go/internal/game/visual"
)

// State is the coarse result of a Drain call.
type State string

const (
	// StateRunning means the stack is empty.
	StateRunning State = "RUNNING"
	// StateAwaitingInput means an event is stashed until reactors commit.
	StateAwaitingInput State = "AWAITING_INPUT"
	// StateHitPause means a stashed event just resolved and the caller
	// should pause for Remaining before draining again.
	StateHitPause State = "HIT_PAUSE"
)

// Outcome is returned by Drain.
type Outcome struct {
	State     State
	Remaining time.Duration
}

// Dice is the randomness source of the engine. *rand.Rand satisfies it.
type Dice interface {
	Intn(n int) int
}

// Roll is a uniform roll in [0, span).
type Roll struct {
	span int
}

// NewRoll builds a roll over [0, span). A negative span is a programming
// error and panics.
func NewRoll(span int) Roll {
	if span < 0 {
		panic(fmt.Sprintf("game: negative roll span %d", span))
	}
	return Roll{span: span}
}

// Span returns the exclusive upper bound of the roll.
func (r Roll) Span() int {
	return r.span
}

// With draws a value from d. A zero span always yields 0.
func (r Roll) With(d Dice) int {
	if r.span == 0 {
		return 0
	}
	return d.Intn(r.span)
}

// Settings are the arbitration constants.
type Settings struct {
	SpeedRoll          Roll
	GuardRoll          Roll
	AttackerSpeedBonus int
	DefenderGuardBonus int
	HitPause           time.Duration
}

// DefaultSettings returns the standard rules: d6 speed and guard rolls,
// no attacker speed bonus, +1 guard for the defender and a 600ms hit pause.
func DefaultSettings() Settings {
	return Settings{
		SpeedRoll:          NewRoll(6),
		GuardRoll:          NewRoll(6),
		AttackerSpeedBonus: 0,
		DefenderGuardBonus: 1,
		HitPause:           600 * time.Millisecond,
	}
}

// DrawHook draws amount cards for source and returns how many were drawn.
type DrawHook func(source ecs.Entity, amount int) int

// EventEngine owns the event stack, the stash slot and the display state.
// It is driven from a single simulation loop and is not safe for
// concurrent use.
type EventEngine struct {
	world  *ecs.World
	arena  *grid.Map
	player ecs.Entity

	stack   *rules.EventStack
	stash   *rules.Event
	display []visual.CardRequest
	intents IntentData

	settings Settings
	dice     Dice
	sink     visual.Sink
	drawHook DrawHook

	bus      *rules.EventBus
	watchers *rules.WatcherRegistry
	windows  *rules.ReactionWindowManager

	logger *zap.Logger
}

// Option configures an EventEngine.
type Option func(*EventEngine)

// WithLogger sets the engine logger. A nil logger keeps the no-op default.
func WithLogger(logger *zap.Logger) Option {
	return func(e *EventEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSettings overrides DefaultSettings.
func WithSettings(s Settings) Option {
	return func(e *EventEngine) { e.settings = s }
}

// WithDice sets the source of contest rolls.
func WithDice(d Dice) Option {
	return func(e *EventEngine) {
		if d != nil {
			e.dice = d
		}
	}
}

// WithSink sets where particles and cards are sent.
func WithSink(s visual.Sink) Option {
	return func(e *EventEngine) {
		if s != nil {
			e.sink = s
		}
	}
}

// WithDrawHook sets the callback that resolves DRAW effects.
func WithDrawHook(h DrawHook) Option {
	return func(e *EventEngine) { e.drawHook = h }
}

// WithPlayer marks the player-controlled entity, whose matchups are
// mirrored into the display queue.
func WithPlayer(player ecs.Entity) Option {
	return func(e *EventEngine) { e.player = player }
}

// NewEventEngine creates an engine operating on world and arena.
func NewEventEngine(world *ecs.World, arena *grid.Map, opts ...Option) *EventEngine {
	e := &EventEngine{
		world:    world,
		arena:    arena,
		player:   ecs.Nil,
		stack:    rules.NewEventStack(),
		settings: DefaultSettings(),
		dice:     rand.New(rand.NewSource(1)),
		sink:     visual.Nop{},
		bus:      rules.NewEventBus(),
		watchers: rules.NewWatcherRegistry(),
		windows:  rules.NewReactionWindowManager(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.bus.Subscribe(e.watchers.NotifyWatchers)
	return e
}

// Accessors for the engine's collaborators.

func (e *EventEngine) World() *ecs.World { return e.world }
func (e *EventEngine) Arena() *grid.Map { return e.arena }
func (e *EventEngine) Player() ecs.Entity { return e.player }
func (e *EventEngine) Settings() Settings { return e.settings }
func (e *EventEngine) Bus() *rules.EventBus { return e.bus }
func (e *EventEngine) Watchers() *rules.WatcherRegistry { return e.watchers }
func (e *EventEngine) ReactionWindows() *rules.ReactionWindowManager { return e.windows }
func (e *EventEngine) Logger() *zap.Logger { return e.logger }

// SetPlayer changes the player-controlled entity.
func (e *EventEngine) SetPlayer(player ecs.Entity) {
	e.player = player
}

// Pending returns the queued events, topmost last.
func (e *EventEngine) Pending() []*rules.Event {
	return e.stack.List()
}

// Stashed returns the event awaiting reaction input, if any.
func (e *EventEngine) Stashed() (*rules.Event, bool) {
	return e.stash, e.stash != nil
}

// Idle reports whether nothing is queued or stashed.
func (e *EventEngine) Idle() bool {
	return e.stash == nil && e.stack.IsEmpty()
}

// Push builds an event, resolving its target tiles now, and queues it.
func (e *EventEngine) Push(effect rules.Effect, intent *moves.Intent, source ecs.Entity, rng targeting.RangeType, origin grid.Point, invokesReaction bool) *rules.Event {
	ev := rules.NewEvent(effect, intent, source, rng, origin, invokesReaction)
	e.PushEvent(ev)
	return ev
}

// PushEvent queues an already built event. Events whose effect kind has no
// resolver are rejected with a panic.
func (e *EventEngine) PushEvent(ev *rules.Event) {
	if !knownEffect(ev.Effect.Kind) {
		panic(fmt.Sprintf("game: no resolver for effect kind %q", ev.Effect.Kind))
	}
	for _, f := range ev.Followups {
		if !knownEffect(f.Effect.Kind) {
			panic(fmt.Sprintf("game: no resolver for followup kind %q", f.Effect.Kind))
		}
	}
	e.stack.Push(ev)
}

// PushParticle queues a cosmetic particle at p.
func (e *EventEngine) PushParticle(req visual.ParticleRequest) {
	e.Push(rules.Particle(req), nil, ecs.Nil, targeting.Empty, grid.Point{}, false)
}
