package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/counterpunch/counterpunch-go/internal/scenario"
	"github.com/counterpunch/counterpunch-go/internal/server"
)

type serveOptions struct {
	address string
	paused  bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve <scenario.yaml>",
		Short: "Stream a fight to websocket clients",
		Long: `Play a scenario at the configured step interval and push a frame to
every client connected on /ws. Clients may send pause, resume, step and
snapshot messages.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.address, "addr", "", "listen address (overrides feed.address)")
	cmd.Flags().BoolVar(&opts.paused, "paused", false, "start paused and wait for step messages")

	return cmd
}

func runServe(cmd *cobra.Command, rootOpts *RootOptions, opts *serveOptions, path string) error {
	cfg, logger, err := rootOpts.setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if opts.address != "" {
		cfg.Feed.Address = opts.address
	}

	s, err := scenario.LoadWith(path, arenaDefaults(cfg))
	if err != nil {
		return err
	}
	fight, err := scenario.Build(s,
		scenario.WithLogger(logger),
		scenario.WithSettings(cfg.Engine.Settings()),
	)
	if err != nil {
		return err
	}

	feed := server.NewFeed(fight, logger)
	feed.SetPaused(opts.paused)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving scenario",
		zap.String("scenario", s.Name),
		zap.String("address", cfg.Feed.Address),
		zap.Duration("step_interval", cfg.Feed.StepInterval),
		zap.Bool("paused", opts.paused),
	)
	err = server.New(cfg.Feed, feed, logger).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
