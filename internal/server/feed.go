package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/counterpunch/counterpunch-go/internal/game"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/visual"
	"github.com/counterpunch/counterpunch-go/internal/scenario"
)

// logTail is how many log lines a frame carries.
const logTail = 20

// ErrFightOver is returned by Advance once the fight has ended.
var ErrFightOver = errors.New("fight is over")

// EntityView is one creature as the client draws it.
type EntityView struct {
	Handle   string     `json:"handle"`
	Name     string     `json:"name"`
	At       grid.Point `json:"at"`
	HP       int        `json:"hp"`
	MaxHP    int        `json:"max_hp"`
	Block    int        `json:"block,omitempty"`
	Player   bool       `json:"player,omitempty"`
	Acting   bool       `json:"acting,omitempty"`
	Reaction bool       `json:"reaction,omitempty"`
}

type ItemView struct {
	At      grid.Point `json:"at"`
	Name    string     `json:"name"`
	Heal    int        `json:"heal,omitempty"`
	Choices []string   `json:"choices,omitempty"`
}

// CardView is a queued attack card.
type CardView struct {
	Title    string       `json:"title"`
	Source   string       `json:"source"`
	Offset   int          `json:"offset"`
	Affected []grid.Point `json:"affected"`
}

// Frame is the fight state pushed to clients. Cards are matchups still
// waiting to be shown, Shown holds the titles of cards on screen. Hand,
// Library and Discarded describe the player's deck and stay empty
// without one.
type Frame struct {
	Scenario   string                   `json:"scenario"`
	Step       int                      `json:"step"`
	State      game.State               `json:"state"`
	Paused     bool                     `json:"paused"`
	Finished   bool                     `json:"finished"`
	PlayerDead bool                     `json:"player_dead"`
	Width      int                      `json:"width"`
	Height     int                      `json:"height"`
	Entities   []EntityView             `json:"entities"`
	Items      []ItemView               `json:"items"`
	Cards      []CardView               `json:"cards"`
	Shown      []string                 `json:"shown"`
	Particles  []visual.ParticleRequest `json:"particles"`
	Hand       []string                 `json:"hand"`
	Library    int                      `json:"library"`
	Discarded  int                      `json:"discarded"`
	Intents    game.IntentData          `json:"intents"`
	Log        []string                 `json:"log"`
	Error      string                   `json:"error,omitempty"`
}

// Feed steps a scenario fight and renders frames of it. It is safe for
// concurrent use; the fight itself is only touched under the lock.
type Feed struct {
	mu         sync.Mutex
	fight      *scenario.Fight
	step       int
	state      game.State
	paused     bool
	playerDead bool
	err        error
	logger     *zap.Logger
}

// NewFeed wraps a built fight. The feed starts running, not paused.
func NewFeed(fight *scenario.Fight, logger *zap.Logger) *Feed {
	return &Feed{
		fight:  fight,
		state:  game.StateRunning,
		logger: logger,
	}
}

// Advance runs one step of the fight.
func (f *Feed) Advance() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.overLocked() {
		return ErrFightOver
	}
	result, err := f.fight.Step()
	f.step++
	f.state = result.Outcome.State
	if err != nil {
		f.err = err
		f.logger.Error("fight step failed", zap.Int("step", f.step), zap.Error(err))
		return err
	}
	if result.PlayerDead {
		f.playerDead = true
		f.logger.Info("player died", zap.Int("step", f.step))
	}
	return nil
}

// Over reports whether the fight can no longer advance.
func (f *Feed) Over() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overLocked()
}

func (f *Feed) overLocked() bool {
	return f.err != nil || f.playerDead || f.fight.Done() || f.step >= f.fight.MaxSteps()
}

// SetPaused pauses or resumes stepping in Run. Advance ignores it.
func (f *Feed) SetPaused(paused bool) {
	f.mu.Lock()
	f.paused = paused
	f.mu.Unlock()
}

func (f *Feed) Paused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

// Step returns how many steps have run.
func (f *Feed) Step() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Run advances the fight every interval until it ends or ctx is done.
// Paused feeds skip their ticks.
func (f *Feed) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if f.Paused() {
				continue
			}
			err := f.Advance()
			if errors.Is(err, ErrFightOver) {
				f.logger.Info("fight over", zap.Int("steps", f.Step()))
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}

// Frame renders the current state.
func (f *Feed) Frame() Frame {
	f.mu.Lock()
	defer f.mu.Unlock()

	eng := f.fight.Engine
	arena := f.fight.Arena
	frame := Frame{
		Scenario:   f.fight.Scenario().Name,
		Step:       f.step,
		State:      f.state,
		Paused:     f.paused,
		Finished:   f.fight.Done(),
		PlayerDead: f.playerDead,
		Width:      arena.Width,
		Height:     arena.Height,
		Hand:       []string{},
		Intents:    eng.Intents(),
	}
	frame.Particles = f.fight.Sink.Particles()
	for _, card := range f.fight.Sink.Cards() {
		frame.Shown = append(frame.Shown, card.Title)
	}
	if d := f.fight.Deck; d != nil {
		for _, card := range d.Hand() {
			frame.Hand = append(frame.Hand, string(card))
		}
		frame.Library = d.CardsRemaining()
		frame.Discarded = d.CardsDiscarded()
	}
	if f.err != nil {
		frame.Error = f.err.Error()
	}

	snap := eng.Snapshot()
	for _, ent := range snap.Entities {
		frame.Entities = append(frame.Entities, EntityView{
			Handle:   ent.Handle.String(),
			Name:     ent.Name,
			At:       ent.Position,
			HP:       ent.Health.Current,
			MaxHP:    ent.Health.Max,
			Block:    ent.Block,
			Player:   ent.Player,
			Acting:   ent.Acting,
			Reaction: ent.Acting && ent.CanAct.IsReaction,
		})
	}
	for _, item := range snap.Items {
		view := ItemView{At: item.At, Name: item.Name, Heal: item.Heal}
		for _, c := range item.Choices {
			view.Choices = append(view.Choices, string(c))
		}
		frame.Items = append(frame.Items, view)
	}
	for _, card := range eng.DisplayQueue() {
		frame.Cards = append(frame.Cards, CardView{
			Title:    card.Title(),
			Source:   f.fight.NameOf(card.Source),
			Offset:   card.Offset,
			Affected: card.Affected,
		})
	}

	log := f.fight.Log()
	if len(log) > logTail {
		log = log[len(log)-logTail:]
	}
	frame.Log = log
	return frame
}
