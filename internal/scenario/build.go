package scenario

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game"
	"github.com/counterpunch/counterpunch-go/internal/game/component"
	"github.com/counterpunch/counterpunch-go/internal/game/deck"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
	"github.com/counterpunch/counterpunch-go/internal/game/systems"
	"github.com/counterpunch/counterpunch-go/internal/game/targeting"
	"github.com/counterpunch/counterpunch-go/internal/game/visual"
	"github.com/counterpunch/counterpunch-go/internal/game/watchers"
)

// Fight is a scenario wired to a live engine.
type Fight struct {
	scenario *Scenario

	World  *ecs.World
	Arena  *grid.Map
	Engine *game.EventEngine
	Runner *systems.Runner
	Sink   *visual.Recorder
	Stats  watchers.Stock
	// Deck is the player's deck, nil when the scenario gives none.
	Deck *deck.Deck

	names   map[string]ecs.Entity
	handles map[ecs.Entity]string
	queues  map[string][]Action
	learned []moves.MoveID
	replay  *game.Replay
	log     []string
	logger  *zap.Logger
}

type buildOptions struct {
	logger   *zap.Logger
	settings game.Settings
	dice     game.Dice
	sink     *visual.Recorder
	record   bool
}

// BuildOption customises Build.
type BuildOption func(*buildOptions)

func WithLogger(logger *zap.Logger) BuildOption {
	return func(o *buildOptions) { o.logger = logger }
}

func WithSettings(s game.Settings) BuildOption {
	return func(o *buildOptions) { o.settings = s }
}

// WithDice replaces the seeded dice used for arbitration and item drops.
func WithDice(d game.Dice) BuildOption {
	return func(o *buildOptions) { o.dice = d }
}

// WithRecorder makes the fight render into sink.
func WithRecorder(sink *visual.Recorder) BuildOption {
	return func(o *buildOptions) { o.sink = sink }
}

// WithReplay records a snapshot before the first step and after every
// step.
func WithReplay() BuildOption {
	return func(o *buildOptions) { o.record = true }
}

// Build places the scenario's arena, entities and items and wires an
// engine and runner around them.
func Build(s *Scenario, opts ...BuildOption) (*Fight, error) {
	o := buildOptions{logger: zap.NewNop(), settings: game.DefaultSettings()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	rng := rand.New(rand.NewSource(s.Seed))
	if o.dice == nil {
		o.dice = rng
	}
	if o.sink == nil {
		o.sink = visual.NewRecorder()
	}

	f := &Fight{
		scenario: s,
		World:    ecs.NewWorld(),
		Arena:    grid.NewOpen(s.Arena.Width, s.Arena.Height),
		Sink:     o.sink,
		names:    make(map[string]ecs.Entity),
		handles:  make(map[ecs.Entity]string),
		queues:   make(map[string][]Action),
		logger:   o.logger.With(zap.String("scenario", s.Name)),
	}
	for _, wall := range s.Arena.Walls {
		f.Arena.SetTile(wall, grid.TileWall)
	}

	f.Engine = game.NewEventEngine(f.World, f.Arena,
		game.WithLogger(f.logger),
		game.WithSettings(o.settings),
		game.WithDice(o.dice),
		game.WithSink(o.sink),
		game.WithDrawHook(f.draw),
	)
	f.Stats = watchers.Register(f.Engine.Watchers())
	f.Engine.Bus().Subscribe(f.record)

	for i, spec := range s.Entities {
		if err := f.spawn(spec, rng); err != nil {
			return nil, fmt.Errorf("entities[%d]: %w", i, err)
		}
	}
	for i, spec := range s.Items {
		if err := f.placeItem(spec); err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	for _, a := range s.Script {
		f.queues[a.Actor] = append(f.queues[a.Actor], a)
	}

	f.Runner = systems.NewRunner(f.Engine)
	if o.record {
		f.replay = game.NewReplay(s.Name)
		f.replay.RecordState(f.Engine.Snapshot())
	}
	return f, nil
}

func (f *Fight) spawn(spec EntitySpec, rng *rand.Rand) error {
	if f.Arena.IsBlocked(spec.At) {
		return fmt.Errorf("%s: tile %s is blocked", spec.Name, spec.At)
	}

	e := f.World.CreateEntity()
	f.World.Add(e, component.Name{Name: spec.Name})
	f.World.Add(e, component.Position{Point: spec.At})
	f.World.Add(e, component.Health{Current: spec.HP, Max: spec.HP})
	f.World.Add(e, component.BlocksTile{})
	if spec.CanReact {
		f.World.Add(e, component.CanReact{})
	}
	if sched := spec.Schedule; sched != nil {
		f.World.Add(e, component.Schedulable{Current: sched.Current, Base: sched.Base, Delta: sched.Delta})
	}
	if t := spec.DeathTrigger; t != nil {
		effect, err := triggerEffect(*t)
		if err != nil {
			return err
		}
		area, err := targeting.ParseRange(t.Range)
		if err != nil {
			return err
		}
		f.World.Add(e, component.DeathTrigger{Effect: effect, Range: area})
	}
	if spec.Player {
		f.World.Add(e, component.Player{})
		f.Engine.SetPlayer(e)
		if len(spec.Deck) > 0 {
			f.Deck = newDeck(spec, rng)
		}
	}
	f.Arena.TrackCreature(e, spec.At)

	f.names[spec.Name] = e
	f.handles[e] = spec.Name
	return nil
}

func newDeck(spec EntitySpec, rng *rand.Rand) *deck.Deck {
	cards := make([]moves.MoveID, 0, len(spec.Deck))
	for _, name := range spec.Deck {
		id, _ := moves.Parse(name)
		cards = append(cards, id)
	}
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })

	d := deck.New(cards, rng)
	hand := spec.Hand
	if hand <= 0 {
		hand = deck.HandLimit
	}
	d.DrawN(hand)
	return d
}

func (f *Fight) placeItem(spec ItemSpec) error {
	e := f.World.CreateEntity()
	if spec.Heal > 0 {
		f.World.Add(e, component.Name{Name: "Health Potion"})
		f.World.Add(e, component.HealPickup{Amount: spec.Heal})
	} else {
		choices := make([]moves.MoveID, 0, len(spec.Skills))
		for _, name := range spec.Skills {
			id, _ := moves.Parse(name)
			choices = append(choices, id)
		}
		f.World.Add(e, component.Name{Name: "Book"})
		f.World.Add(e, component.SkillChoice{Choices: choices})
	}
	if !f.Arena.TrackItem(e, spec.At) {
		f.World.DestroyEntity(e)
		return fmt.Errorf("tile %s already holds an item", spec.At)
	}
	return nil
}

func triggerEffect(t TriggerSpec) (rules.Effect, error) {
	switch t.Effect {
	case "damage":
		return rules.Damage(t.Amount), nil
	case "heal":
		return rules.Heal(t.Amount), nil
	case "drop_health":
		return rules.ItemDrop(rules.DropHealth, t.Quality), nil
	case "drop_skill":
		return rules.ItemDrop(rules.DropSkill, t.Quality), nil
	default:
		return rules.Effect{}, fmt.Errorf("unknown death effect %q", t.Effect)
	}
}

// draw serves the engine's Draw hook from the player's deck.
func (f *Fight) draw(source ecs.Entity, amount int) int {
	if f.Deck == nil || source != f.Engine.Player() {
		return 0
	}
	return f.Deck.DrawN(amount)
}

// Scenario returns the scenario the fight was built from.
func (f *Fight) Scenario() *Scenario {
	return f.scenario
}

// Replay returns the recording, or nil unless built WithReplay.
func (f *Fight) Replay() *game.Replay {
	return f.replay
}

// MaxSteps is the step limit for Run.
func (f *Fight) MaxSteps() int {
	if f.scenario.MaxSteps == 0 {
		return DefaultMaxSteps
	}
	return f.scenario.MaxSteps
}

// Entity returns the handle of the named entity.
func (f *Fight) Entity(name string) (ecs.Entity, bool) {
	e, ok := f.names[name]
	return e, ok
}

// NameOf returns the scenario name of e, or its handle if it has none.
func (f *Fight) NameOf(e ecs.Entity) string {
	if name, ok := f.handles[e]; ok {
		return name
	}
	return e.String()
}
