package scenario

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game"
	"github.com/counterpunch/counterpunch-go/internal/game/component"
	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
	"github.com/counterpunch/counterpunch-go/internal/game/rules"
	"github.com/counterpunch/counterpunch-go/internal/game/systems"
	"github.com/counterpunch/counterpunch-go/internal/game/targeting"
	"github.com/counterpunch/counterpunch-go/internal/game/visual"
)

// Result summarises a finished fight.
type Result struct {
	Scenario string `json:"scenario"`
	Steps    int    `json:"steps"`
	// Finished is false when the fight ran out of steps before the script
	// was used up.
	Finished   bool           `json:"finished"`
	PlayerDead bool           `json:"player_dead"`
	Checksum   string         `json:"checksum"`
	Contests   int            `json:"contests"`
	Interrupts int            `json:"interrupts"`
	Damage     map[string]int `json:"damage"`
	// TotalDamage counts blocked hits as zero, like Damage.
	TotalDamage int            `json:"total_damage"`
	Pushed      map[string]int `json:"pushed,omitempty"`
	Deaths      []string       `json:"deaths,omitempty"`
	Learned     []moves.MoveID `json:"learned,omitempty"`
	Log         []string       `json:"log"`
	Failures    []string       `json:"failures,omitempty"`
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Run plays the fight until the script is used up and the engine is idle,
// the player dies or the step limit is reached. The returned error is a
// script that does not fit the fight; failed expectations are reported in
// the result.
func (f *Fight) Run(ctx context.Context) (*Result, error) {
	limit := f.MaxSteps()
	f.logger.Info("scenario started",
		zap.Int("entities", len(f.scenario.Entities)),
		zap.Int("actions", len(f.scenario.Script)),
		zap.Int("max_steps", limit),
	)

	res := &Result{Scenario: f.scenario.Name}
	for res.Steps < limit {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scenario %s interrupted: %w", f.scenario.Name, err)
		}
		if f.Done() {
			res.Finished = true
			break
		}

		step, err := f.Step()
		res.Steps++
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", res.Steps, err)
		}
		if step.PlayerDead {
			res.PlayerDead = true
			break
		}
	}
	if !res.Finished && !res.PlayerDead && f.Done() {
		res.Finished = true
	}

	f.summarise(res)
	f.logger.Info("scenario finished",
		zap.Int("steps", res.Steps),
		zap.Bool("finished", res.Finished),
		zap.Bool("player_dead", res.PlayerDead),
		zap.Int("failures", len(res.Failures)),
		zap.String("checksum", res.Checksum),
	)
	return res, nil
}

// Step runs a single runner step and answers whatever it asks for.
func (f *Fight) Step() (systems.StepResult, error) {
	// each step keeps the previous step's visuals up for one hit
	f.Sink.Tick(visual.HitLifetime)
	step := f.Runner.Step()
	err := f.handle(step)
	if f.replay != nil {
		f.replay.RecordState(f.Engine.Snapshot())
	}
	return step, err
}

// Done reports whether the script is used up and nothing is left to
// resolve.
func (f *Fight) Done() bool {
	for _, q := range f.queues {
		if len(q) > 0 {
			return false
		}
	}
	if !f.Engine.Idle() {
		return false
	}
	return len(f.World.Query(component.CAttackIntent)) == 0 &&
		len(f.World.Query(component.CMoveIntent)) == 0
}

func (f *Fight) handle(step systems.StepResult) error {
	if len(step.Reward) > 0 {
		f.pickReward(step.Reward)
	}

	switch step.Outcome.State {
	case game.StateAwaitingInput:
		if err := f.answerReactions(); err != nil {
			return err
		}
	case game.StateHitPause:
		f.Engine.DrainVisualOnly()
	}

	for _, ent := range f.Runner.Turns().Acting() {
		act, _ := ecs.GetAs[component.CanAct](f.World, ent)
		if act.IsReaction {
			continue
		}
		if err := f.takeTurn(ent); err != nil {
			return err
		}
	}
	return nil
}

// takeTurn spends an ordinary turn on the actor's next scripted action.
// Actors with nothing scripted wait.
func (f *Fight) takeTurn(ent ecs.Entity) error {
	name := f.NameOf(ent)
	defer f.Engine.EndTurn(ent)

	action, ok := f.peek(name)
	if !ok {
		return nil
	}
	kind := action.Kind()
	if !kind.IsTurn() {
		return fmt.Errorf("%s has a turn but the script expects %s", name, kind)
	}
	f.pop(name)

	switch kind {
	case KindAttack:
		return f.commitAttack(ent, name, *action.Attack)
	case KindStep:
		f.World.Add(ent, component.MoveIntent{Loc: *action.Step})
		f.logf("%s steps to %s", name, *action.Step)
	default:
		f.logf("%s waits", name)
	}
	return nil
}

func (f *Fight) commitAttack(ent ecs.Entity, name string, spec MoveSpec) error {
	pos, ok := ecs.GetAs[component.Position](f.World, ent)
	if !ok {
		return fmt.Errorf("%s has no position", name)
	}
	loc := pos.Point
	if spec.At != nil {
		loc = *spec.At
	}
	intent, err := spec.Intent(loc)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	move := intent.MainMove()
	if move.Range.IsEmpty() {
		intent.Loc = pos.Point
	} else if !targeting.Covers(move.Range, pos.Point, loc) {
		return fmt.Errorf("%s: %s cannot reach %s from %s", name, move.ID, loc, pos.Point)
	}

	if err := f.play(ent, intent); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	f.World.Add(ent, component.AttackIntent{Intent: intent})
	f.logf("%s commits %s at %s", name, intent.Name(), intent.Loc)
	return nil
}

// play spends the player's cards for intent. Other entities have no hand.
func (f *Fight) play(ent ecs.Entity, intent moves.Intent) error {
	if ent != f.Engine.Player() || f.Deck == nil {
		return nil
	}
	if !f.Deck.Play(intent.Main) {
		return fmt.Errorf("%s is not in hand %v", intent.Main, f.Deck.Hand())
	}
	if intent.Modifier != nil && !f.Deck.Play(*intent.Modifier) {
		return fmt.Errorf("modifier %s is not in hand %v", *intent.Modifier, f.Deck.Hand())
	}
	return nil
}

// answerReactions answers every open reaction turn. Reactors whose next
// scripted action is not a reaction let the attack land.
func (f *Fight) answerReactions() error {
	for _, ent := range f.Runner.Turns().Acting() {
		act, _ := ecs.GetAs[component.CanAct](f.World, ent)
		if !act.IsReaction {
			continue
		}
		name := f.NameOf(ent)

		action, ok := f.peek(name)
		if !ok || !action.Kind().IsReaction() {
			if err := f.Engine.Pass(ent); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			f.logf("%s lets it land", name)
			continue
		}
		f.pop(name)

		var err error
		switch action.Kind() {
		case KindBlock:
			err = f.Engine.CommitBlock(ent, *action.Block)
			f.logf("%s braces for %d", name, *action.Block)
		case KindCounter:
			var intent moves.Intent
			intent, err = action.Counter.Intent(grid.Point{})
			if err == nil {
				err = f.play(ent, intent)
			}
			if err == nil {
				var ev *rules.Event
				ev, err = f.Engine.CommitCounter(ent, intent)
				if err == nil {
					f.logf("%s counters with %s at %s", name, ev.Intent.Name(), ev.Intent.Loc)
				}
			}
		default:
			err = f.Engine.Pass(ent)
			f.logf("%s passes", name)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// pickReward learns one of the offered moves, by default the first.
func (f *Fight) pickReward(choices []moves.MoveID) {
	player := f.NameOf(f.Engine.Player())
	pick := 0
	q := f.queues[player]
	for i, a := range q {
		if a.Kind() == KindPick {
			pick = *a.Pick
			f.queues[player] = append(q[:i:i], q[i+1:]...)
			break
		}
	}
	if pick >= len(choices) {
		pick = 0
	}

	learned := choices[pick]
	if f.Deck != nil {
		f.Deck.Add(learned)
	}
	f.learned = append(f.learned, learned)
	f.logf("%s learns %s", player, learned)
}

// Log returns the fight log so far.
func (f *Fight) Log() []string {
	return append([]string(nil), f.log...)
}

// Learned returns the moves picked from skill books so far.
func (f *Fight) Learned() []moves.MoveID {
	return append([]moves.MoveID(nil), f.learned...)
}

func (f *Fight) peek(name string) (Action, bool) {
	q := f.queues[name]
	if len(q) == 0 {
		return Action{}, false
	}
	return q[0], true
}

func (f *Fight) pop(name string) {
	f.queues[name] = f.queues[name][1:]
}

func (f *Fight) logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	f.log = append(f.log, line)
	f.logger.Debug(line)
}

// record turns notifications into log lines.
func (f *Fight) record(note rules.Notification) {
	target := f.NameOf(note.Target)
	switch note.Type {
	case rules.NoteDamageDealt:
		f.logf("%s takes %d damage", target, note.Amount)
	case rules.NoteBlockConsumed:
		f.logf("%s blocks %d", target, note.Amount)
	case rules.NotePushed:
		f.logf("%s is pushed %d to %s", target, note.Amount, note.To)
	case rules.NoteMoved:
		f.logf("%s moves to %s", target, note.To)
	case rules.NoteHealed:
		f.logf("%s heals %d", target, note.Amount)
	case rules.NoteCardsDrawn:
		f.logf("%s draws %d", target, note.Amount)
	case rules.NoteItemDropped:
		f.logf("an item drops at %s", note.To)
	case rules.NoteReactionOpened:
		f.logf("%s may react to %s", target, f.NameOf(note.Source))
	case rules.NoteContest:
		first := f.NameOf(note.Source)
		if !note.Flag {
			first = target
		}
		f.logf("%s and %s collide, %s is faster", f.NameOf(note.Source), target, first)
	case rules.NoteInterrupted:
		f.logf("%s is interrupted by %s", target, f.NameOf(note.Source))
	case rules.NoteEntityDied:
		f.logf("%s dies", target)
	case rules.NotePickupConsumed:
		f.logf("%s picks up an item at %s", target, note.To)
	}
}

// summarise fills in the statistics, the checksum and the expectation
// failures.
func (f *Fight) summarise(res *Result) {
	res.Contests = f.Stats.Interrupt.GetContests()
	res.TotalDamage = f.Stats.Damage.GetTotal()
	res.Damage = make(map[string]int)
	res.Pushed = make(map[string]int)
	for name, e := range f.names {
		res.Interrupts += f.Stats.Interrupt.GetInterrupted(e)
		if dmg := f.Stats.Damage.GetDamage(e); dmg > 0 {
			res.Damage[name] = dmg
		}
		if tiles := f.Stats.Knockback.GetDistance(e); tiles > 0 {
			res.Pushed[name] = tiles
		}
	}
	for _, e := range f.Stats.Deaths.GetDied() {
		res.Deaths = append(res.Deaths, f.NameOf(e))
	}
	res.Learned = f.Learned()
	res.Log = f.Log()

	if sum, err := f.Engine.Snapshot().ComputeChecksum(); err == nil {
		res.Checksum = sum.Hash
	} else {
		f.logger.Warn("checksum failed", zap.Error(err))
	}

	res.Failures = f.check(res)
	sort.Strings(res.Failures)
}

func (f *Fight) check(res *Result) []string {
	var failures []string
	for _, exp := range f.scenario.Expect {
		e := f.names[exp.Entity]
		alive := f.World.Alive(e)

		if exp.Dead != nil && *exp.Dead == alive {
			failures = append(failures, fmt.Sprintf("%s: dead=%t, want %t", exp.Entity, !alive, *exp.Dead))
		}
		if exp.HP != nil {
			hp, ok := ecs.GetAs[component.Health](f.World, e)
			if !ok || hp.Current != *exp.HP {
				failures = append(failures, fmt.Sprintf("%s: hp=%d, want %d", exp.Entity, hp.Current, *exp.HP))
			}
		}
		if exp.At != nil {
			pos, ok := ecs.GetAs[component.Position](f.World, e)
			if !ok || pos.Point != *exp.At {
				failures = append(failures, fmt.Sprintf("%s: at %s, want %s", exp.Entity, pos.Point, *exp.At))
			}
		}
	}

	if t := f.scenario.Totals; t != nil {
		if t.Contests != nil && res.Contests != *t.Contests {
			failures = append(failures, fmt.Sprintf("contests=%d, want %d", res.Contests, *t.Contests))
		}
		if t.Interrupts != nil && res.Interrupts != *t.Interrupts {
			failures = append(failures, fmt.Sprintf("interrupts=%d, want %d", res.Interrupts, *t.Interrupts))
		}
		if t.Damage != nil && res.TotalDamage != *t.Damage {
			failures = append(failures, fmt.Sprintf("damage=%d, want %d", res.TotalDamage, *t.Damage))
		}
		if t.PlayerDead != nil && res.PlayerDead != *t.PlayerDead {
			failures = append(failures, fmt.Sprintf("player_dead=%t, want %t", res.PlayerDead, *t.PlayerDead))
		}
	}
	return failures
}
