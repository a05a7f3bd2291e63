// Package scenario loads scripted fights from YAML and plays them through
// the systems runner, answering turns and reactions from the script.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
	"github.com/counterpunch/counterpunch-go/internal/game/targeting"
)

// DefaultMaxSteps bounds a scenario that never finishes its script.
const DefaultMaxSteps = 500

// Scenario is one scripted fight.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// Seed drives the dice, deck shuffles and item drops.
	Seed     int64 `yaml:"seed"`
	MaxSteps int   `yaml:"max_steps,omitempty"`

	Arena    ArenaSpec    `yaml:"arena"`
	Entities []EntitySpec `yaml:"entities"`
	Items    []ItemSpec   `yaml:"items,omitempty"`

	// Script is read in order per actor: an actor's next turn or reaction
	// consumes its next action.
	Script []Action      `yaml:"script"`
	Expect []Expectation `yaml:"expect,omitempty"`
	Totals *TotalsExpect `yaml:"totals,omitempty"`
}

type ArenaSpec struct {
	Width  int          `yaml:"width"`
	Height int          `yaml:"height"`
	Walls  []grid.Point `yaml:"walls,omitempty"`
}

// EntitySpec describes a creature placed before the fight starts.
type EntitySpec struct {
	Name     string        `yaml:"name"`
	At       grid.Point    `yaml:"at"`
	HP       int           `yaml:"hp"`
	Player   bool          `yaml:"player,omitempty"`
	CanReact bool          `yaml:"can_react,omitempty"`
	Schedule *ScheduleSpec `yaml:"schedule,omitempty"`

	// Deck and Hand apply to the player only.
	Deck []string `yaml:"deck,omitempty"`
	Hand int      `yaml:"hand,omitempty"`

	DeathTrigger *TriggerSpec `yaml:"death_trigger,omitempty"`
}

type ScheduleSpec struct {
	Current int `yaml:"current"`
	Base    int `yaml:"base"`
	Delta   int `yaml:"delta"`
}

// TriggerSpec is a death effect: damage, heal, drop_health or drop_skill.
type TriggerSpec struct {
	Effect  string `yaml:"effect"`
	Amount  int    `yaml:"amount,omitempty"`
	Quality int    `yaml:"quality,omitempty"`
	Range   string `yaml:"range"`
}

type ItemSpec struct {
	At     grid.Point `yaml:"at"`
	Heal   int        `yaml:"heal,omitempty"`
	Skills []string   `yaml:"skills,omitempty"`
}

// MoveSpec names a move, an optional modifier and, for turns, the tile
// to aim at.
type MoveSpec struct {
	Move     string      `yaml:"move"`
	Modifier string      `yaml:"modifier,omitempty"`
	At       *grid.Point `yaml:"at,omitempty"`
}

// Action is one scripted decision. Exactly one field besides Actor is set.
type Action struct {
	Actor string `yaml:"actor"`

	// turn actions
	Attack *MoveSpec   `yaml:"attack,omitempty"`
	Step   *grid.Point `yaml:"step,omitempty"`
	Wait   bool        `yaml:"wait,omitempty"`

	// reaction actions
	Block   *int      `yaml:"block,omitempty"`
	Counter *MoveSpec `yaml:"counter,omitempty"`
	Pass    bool      `yaml:"pass,omitempty"`

	// Pick chooses a skill book reward by index.
	Pick *int `yaml:"pick,omitempty"`
}

// Kind classifies the action.
func (a Action) Kind() ActionKind {
	switch {
	case a.Attack != nil:
		return KindAttack
	case a.Step != nil:
		return KindStep
	case a.Wait:
		return KindWait
	case a.Block != nil:
		return KindBlock
	case a.Counter != nil:
		return KindCounter
	case a.Pass:
		return KindPass
	case a.Pick != nil:
		return KindPick
	default:
		return ""
	}
}

func (a Action) set() int {
	n := 0
	for _, ok := range []bool{a.Attack != nil, a.Step != nil, a.Wait, a.Block != nil, a.Counter != nil, a.Pass, a.Pick != nil} {
		if ok {
			n++
		}
	}
	return n
}

type ActionKind string

const (
	KindAttack  ActionKind = "attack"
	KindStep    ActionKind = "step"
	KindWait    ActionKind = "wait"
	KindBlock   ActionKind = "block"
	KindCounter ActionKind = "counter"
	KindPass    ActionKind = "pass"
	KindPick    ActionKind = "pick"
)

// IsTurn reports whether the action answers an ordinary turn.
func (k ActionKind) IsTurn() bool {
	return k == KindAttack || k == KindStep || k == KindWait
}

// IsReaction reports whether the action answers a reaction window.
func (k ActionKind) IsReaction() bool {
	return k == KindBlock || k == KindCounter || k == KindPass
}

// Expectation is checked against an entity once the fight ends.
type Expectation struct {
	Entity string      `yaml:"entity"`
	HP     *int        `yaml:"hp,omitempty"`
	At     *grid.Point `yaml:"at,omitempty"`
	Dead   *bool       `yaml:"dead,omitempty"`
}

// TotalsExpect is checked against the fight statistics.
type TotalsExpect struct {
	Contests   *int  `yaml:"contests,omitempty"`
	Interrupts *int  `yaml:"interrupts,omitempty"`
	Damage     *int  `yaml:"damage,omitempty"`
	PlayerDead *bool `yaml:"player_dead,omitempty"`
}

// Defaults fill in what a scenario file leaves out: the arena size and
// the seed. Zero fields are ignored.
type Defaults struct {
	Width  int
	Height int
	Seed   int64
}

func (s *Scenario) applyDefaults(d Defaults) {
	if s.Arena.Width == 0 && s.Arena.Height == 0 && d.Width > 0 && d.Height > 0 {
		s.Arena.Width, s.Arena.Height = d.Width, d.Height
	}
	if s.Seed == 0 {
		s.Seed = d.Seed
	}
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	return LoadWith(path, Defaults{})
}

// LoadWith is Load with defaults applied before validation.
func LoadWith(path string, d Defaults) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseWith(data, d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scenario, rejecting unknown fields.
func Parse(data []byte) (*Scenario, error) {
	return ParseWith(data, Defaults{})
}

func ParseWith(data []byte, d Defaults) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	s.applyDefaults(d)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// Validate checks names, moves, ranges and tiles without building anything.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Arena.Width <= 0 || s.Arena.Height <= 0 {
		return fmt.Errorf("arena size must be positive, got %dx%d", s.Arena.Width, s.Arena.Height)
	}
	if s.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative, got %d", s.MaxSteps)
	}
	inBounds := func(p grid.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < s.Arena.Width && p.Y < s.Arena.Height
	}

	names := make(map[string]bool)
	players := 0
	for i, e := range s.Entities {
		if e.Name == "" {
			return fmt.Errorf("entities[%d]: name is required", i)
		}
		if names[e.Name] {
			return fmt.Errorf("entities[%d]: duplicate name %q", i, e.Name)
		}
		names[e.Name] = true
		if !inBounds(e.At) {
			return fmt.Errorf("entities[%d]: %s is outside the arena", i, e.At)
		}
		if e.HP <= 0 {
			return fmt.Errorf("entities[%d]: hp must be positive", i)
		}
		if e.Player {
			players++
		} else if len(e.Deck) > 0 {
			return fmt.Errorf("entities[%d]: only the player has a deck", i)
		}
		if e.Schedule != nil && (e.Schedule.Base <= 0 || e.Schedule.Delta <= 0) {
			return fmt.Errorf("entities[%d]: schedule base and delta must be positive", i)
		}
		for _, card := range e.Deck {
			if _, err := moves.Parse(card); err != nil {
				return fmt.Errorf("entities[%d].deck: %w", i, err)
			}
		}
		if t := e.DeathTrigger; t != nil {
			if _, err := targeting.ParseRange(t.Range); err != nil {
				return fmt.Errorf("entities[%d].death_trigger: %w", i, err)
			}
			if _, err := triggerEffect(*t); err != nil {
				return fmt.Errorf("entities[%d].death_trigger: %w", i, err)
			}
		}
	}
	if players > 1 {
		return fmt.Errorf("at most one player, got %d", players)
	}

	for i, item := range s.Items {
		if !inBounds(item.At) {
			return fmt.Errorf("items[%d]: %s is outside the arena", i, item.At)
		}
		if (item.Heal > 0) == (len(item.Skills) > 0) {
			return fmt.Errorf("items[%d]: exactly one of heal or skills is required", i)
		}
		for _, skill := range item.Skills {
			if _, err := moves.Parse(skill); err != nil {
				return fmt.Errorf("items[%d].skills: %w", i, err)
			}
		}
	}

	for i, a := range s.Script {
		if !names[a.Actor] {
			return fmt.Errorf("script[%d]: unknown actor %q", i, a.Actor)
		}
		if a.set() != 1 {
			return fmt.Errorf("script[%d]: exactly one action is required", i)
		}
		if a.Attack != nil {
			if err := a.Attack.validate(true); err != nil {
				return fmt.Errorf("script[%d].attack: %w", i, err)
			}
		}
		if a.Counter != nil {
			if err := a.Counter.validate(false); err != nil {
				return fmt.Errorf("script[%d].counter: %w", i, err)
			}
		}
		if a.Block != nil && *a.Block <= 0 {
			return fmt.Errorf("script[%d]: block must be positive", i)
		}
		if a.Pick != nil && (*a.Pick < 0 || *a.Pick >= 3) {
			return fmt.Errorf("script[%d]: pick must be 0, 1 or 2", i)
		}
	}

	for i, exp := range s.Expect {
		if !names[exp.Entity] {
			return fmt.Errorf("expect[%d]: unknown entity %q", i, exp.Entity)
		}
	}
	return nil
}

func (m MoveSpec) validate(needsTarget bool) error {
	main, err := moves.Parse(m.Move)
	if err != nil {
		return err
	}
	if m.Modifier != "" {
		if _, err := moves.Parse(m.Modifier); err != nil {
			return err
		}
	}
	move := moves.MustLookup(main)
	if needsTarget && m.At == nil && !move.Range.IsEmpty() {
		return fmt.Errorf("%s needs a target tile", main)
	}
	return nil
}

// Intent builds the intent described by m, aimed at loc.
func (m MoveSpec) Intent(loc grid.Point) (moves.Intent, error) {
	main, err := moves.Parse(m.Move)
	if err != nil {
		return moves.Intent{}, err
	}
	intent := moves.NewIntent(main, loc)
	if m.Modifier != "" {
		mod, err := moves.Parse(m.Modifier)
		if err != nil {
			return moves.Intent{}, err
		}
		intent = intent.WithModifier(mod)
	}
	return intent, nil
}
