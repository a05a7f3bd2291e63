package systems

import (
	"go.uber.org/zap"

	"github.com/counterpunch/counterpunch-go/internal/ecs"
	"github.com/counterpunch/counterpunch-go/internal/game"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
)

// StepResult is everything a caller needs after one simulation step.
type StepResult struct {
	Outcome    game.Outcome
	Granted    []ecs.Entity
	Died       []ecs.Entity
	PlayerDead bool
	Reward     []moves.MoveID
}

// Runner runs the systems in their fixed order around the event engine:
// turns, movement, attacks, the stack, pickups, then deaths.
type Runner struct {
	engine *game.EventEngine
	turns  *TurnManager
	logger *zap.Logger
}

// NewRunner creates a runner with its own turn manager, logging through
// the engine's logger.
func NewRunner(engine *game.EventEngine) *Runner {
	return &Runner{
		engine: engine,
		turns:  NewTurnManager(engine.World(), engine.Bus(), engine.Logger()),
		logger: engine.Logger(),
	}
}

func (r *Runner) Engine() *game.EventEngine { return r.engine }
func (r *Runner) Turns() *TurnManager { return r.turns }

// Step runs one pass of every system.
func (r *Runner) Step() StepResult {
	var res StepResult

	res.Granted = r.turns.Tick()
	Movements(r.engine)
	Attacks(r.engine)

	res.Outcome = r.engine.Drain()

	// steps resolve on the stack, so pickups come after it
	res.Reward = Pickups(r.engine).Reward

	// deaths run after the stack so bodies are cleaned up
	deaths := Deaths(r.engine)
	res.Died = deaths.Removed
	res.PlayerDead = deaths.PlayerDead

	r.logger.Debug("step",
		zap.String("state", string(res.Outcome.State)),
		zap.Int("granted", len(res.Granted)),
		zap.Int("died", len(res.Died)),
		zap.Bool("player_dead", res.PlayerDead),
	)
	return res
}
