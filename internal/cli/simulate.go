package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/counterpunch/counterpunch-go/internal/scenario"
)

type simulateOptions struct {
	seed      int64
	steps     int
	quiet     bool
	replayDir string
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>...",
		Short: "Play scripted fights and check their expectations",
		Long: `Play one or more scenario files to the end of their scripts.

Each fight prints its log, step count and state checksum. The command
fails when any expectation does not hold.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, rootOpts, opts, args)
		},
	}

	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "override the scenario seed")
	cmd.Flags().IntVar(&opts.steps, "max-steps", 0, "override the scenario step limit")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "omit the fight log")
	cmd.Flags().StringVar(&opts.replayDir, "replay-dir", "", "save a replay of each fight to this directory")

	return cmd
}

func runSimulate(cmd *cobra.Command, rootOpts *RootOptions, opts *simulateOptions, paths []string) error {
	cfg, logger, err := rootOpts.setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var results []*scenario.Result
	failed := 0
	for _, path := range paths {
		s, err := scenario.LoadWith(path, arenaDefaults(cfg))
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			s.Seed = opts.seed
		}
		if opts.steps > 0 {
			s.MaxSteps = opts.steps
		}

		buildOpts := []scenario.BuildOption{
			scenario.WithLogger(logger),
			scenario.WithSettings(cfg.Engine.Settings()),
		}
		if opts.replayDir != "" {
			buildOpts = append(buildOpts, scenario.WithReplay())
		}
		fight, err := scenario.Build(s, buildOpts...)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		res, err := fight.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if opts.replayDir != "" {
			if err := fight.Replay().SaveToFile(opts.replayDir); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			logger.Info("replay saved", zap.String("path", fight.Replay().Path(opts.replayDir)))
		}
		if !res.Passed() {
			failed++
			logger.Warn("scenario failed", zap.String("path", path), zap.Strings("failures", res.Failures))
		}
		results = append(results, res)
	}

	if rootOpts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			writeResult(cmd.OutOrStdout(), res, opts.quiet)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenario(s) failed", failed, len(results))
	}
	return nil
}

func writeResult(w io.Writer, res *scenario.Result, quiet bool) {
	fmt.Fprintf(w, "== %s ==\n", res.Scenario)
	if !quiet {
		for _, line := range res.Log {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	fmt.Fprintf(w, "steps: %d  finished: %t  player dead: %t\n", res.Steps, res.Finished, res.PlayerDead)
	fmt.Fprintf(w, "contests: %d  interrupts: %d  damage: %d\n", res.Contests, res.Interrupts, res.TotalDamage)
	if len(res.Deaths) > 0 {
		fmt.Fprintf(w, "deaths: %s\n", strings.Join(res.Deaths, ", "))
	}
	fmt.Fprintf(w, "checksum: %s\n", res.Checksum)
	if res.Passed() {
		fmt.Fprintln(w, "PASS")
		return
	}
	for _, f := range res.Failures {
		fmt.Fprintf(w, "FAIL %s\n", f)
	}
}
