package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/counterpunch/counterpunch-go/internal/game/grid"
	"github.com/counterpunch/counterpunch-go/internal/game/moves"
	"github.com/counterpunch/counterpunch-go/internal/game/targeting"
)

type rangesOptions struct {
	area string
	size int
}

// footprint is one rendered range.
type footprint struct {
	Name   string       `json:"name"`
	Range  string       `json:"range"`
	Points []grid.Point `json:"points"`
	Grid   string       `json:"grid"`
}

// NewRangesCommand creates the ranges command.
func NewRangesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &rangesOptions{}

	cmd := &cobra.Command{
		Use:   "ranges [move]...",
		Short: "Render move reaches and footprints",
		Long: `Render where moves can aim and which tiles they hit, centred on '@'.

With no arguments every move is shown. --range renders a literal range
such as square:2 or custom:1,0;2,0 instead.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRanges(cmd, rootOpts, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.area, "range", "", "render a literal range")
	cmd.Flags().IntVar(&opts.size, "size", 7, "window width and height")

	return cmd
}

func runRanges(cmd *cobra.Command, rootOpts *RootOptions, opts *rangesOptions, args []string) error {
	if opts.size <= 0 || opts.size%2 == 0 {
		return fmt.Errorf("size must be a positive odd number, got %d", opts.size)
	}
	center := grid.Pt(opts.size/2, opts.size/2)

	var out []footprint
	if opts.area != "" {
		area, err := targeting.ParseRange(opts.area)
		if err != nil {
			return err
		}
		out = append(out, render(area.String(), area, center, opts.size))
	} else {
		list, err := selectMoves(args)
		if err != nil {
			return err
		}
		for _, m := range list {
			out = append(out,
				render(m.Name()+" reach", m.Range, center, opts.size),
				render(m.Name()+" shape", m.Shape, center, opts.size),
			)
		}
	}

	if rootOpts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	for _, fp := range out {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n%s\n", fp.Name, fp.Range, fp.Grid)
	}
	return nil
}

func selectMoves(names []string) ([]moves.Move, error) {
	if len(names) == 0 {
		return moves.All(), nil
	}
	list := make([]moves.Move, 0, len(names))
	for _, name := range names {
		id, err := moves.Parse(name)
		if err != nil {
			return nil, err
		}
		list = append(list, moves.MustLookup(id))
	}
	return list, nil
}

func render(name string, area targeting.RangeType, center grid.Point, size int) footprint {
	points := targeting.ResolveAt(area, center)
	return footprint{
		Name:   name,
		Range:  area.String(),
		Points: points,
		Grid:   targeting.Render(points, center, size, size),
	}
}
