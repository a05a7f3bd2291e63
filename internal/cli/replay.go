package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/counterpunch/counterpunch-go/internal/game"
)

type replayOptions struct {
	step int
}

// replayStep summarises one recorded state.
type replayStep struct {
	Step     int            `json:"step"`
	Checksum string         `json:"checksum"`
	HP       map[string]int `json:"hp"`
	Stack    int            `json:"stack"`
	Stashed  string         `json:"stashed,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &replayOptions{}

	cmd := &cobra.Command{
		Use:   "replay <file.replay>",
		Short: "Inspect a recorded fight",
		Long: `Print one line per recorded step of a replay saved by
"simulate --replay-dir": the state checksum, every creature's health and
what is waiting on the stack.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.step, "step", -1, "show only this step")

	return cmd
}

func runReplay(cmd *cobra.Command, rootOpts *RootOptions, opts *replayOptions, path string) error {
	replay, err := game.LoadReplayFromFile(path)
	if err != nil {
		return err
	}

	sums, err := replay.Checksums()
	if err != nil {
		return err
	}

	replay.Start()
	count := replay.Size()
	if opts.step >= 0 {
		if opts.step >= count {
			return fmt.Errorf("replay has steps 0..%d, got %d", count-1, opts.step)
		}
		replay.Skip(opts.step)
		count = 1
	}

	steps := make([]replayStep, 0, count)
	for i := 0; i < count; i++ {
		idx := replay.CurrentIndex
		steps = append(steps, summariseState(idx, sums[idx], replay.Next()))
	}

	if rootOpts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(steps)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "replay %s: %d state(s)\n", replay.Name, replay.Size())
	for _, step := range steps {
		writeStep(cmd.OutOrStdout(), step)
	}
	return nil
}

func summariseState(i int, checksum string, snap *game.Snapshot) replayStep {
	step := replayStep{
		Step:     i,
		Checksum: checksum,
		HP:       make(map[string]int),
		Stack:    len(snap.Stack),
		Stashed:  snap.Stashed,
	}
	for _, ent := range snap.Entities {
		if ent.HasHealth {
			step.HP[ent.Name] = ent.Health.Current
		}
	}
	return step
}

func writeStep(w io.Writer, step replayStep) {
	var hp []string
	for name, v := range step.HP {
		hp = append(hp, fmt.Sprintf("%s=%d", name, v))
	}
	sort.Strings(hp)

	fmt.Fprintf(w, "%3d  %s  %s", step.Step, step.Checksum[:12], strings.Join(hp, " "))
	if step.Stashed != "" {
		fmt.Fprintf(w, "  waiting: %s", step.Stashed)
	}
	if step.Stack > 0 {
		fmt.Fprintf(w, "  stack: %d", step.Stack)
	}
	fmt.Fprintln(w)
}
