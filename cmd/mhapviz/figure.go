package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/mhapviz/internal/chart"
	"github.com/inodb/mhapviz/internal/gene"
	"github.com/inodb/mhapviz/internal/table"
)

func newFigureCmd() *cobra.Command {
	var (
		flags    statsFlags
		genePath string
		heights  string
		out      string
		width    int
		height   int
	)

	cmd := &cobra.Command{
		Use:   "figure <table>",
		Short: "Plot statistics over a gene schematic",
		Long: `Render the combined two-panel figure: the stat panel on top, the gene
schematic underneath, both clamped to the gene span and aligned so the
same coordinate maps to the same pixel column in every row. The stat
panel's own x tick labels are suppressed; the shared axis reads off
the schematic.`,
		Example: `  mhapviz figure -m He -o fig.png --gene mh0421.yaml summary.tsv
  mhapviz figure -m He,Ho --line --heights 3,1 -o fig.png --gene mh0421.yaml summary.tsv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFigure(cmd, args[0], flags, genePath, heights, out, width, height)
		},
	}

	addStatsFlags(cmd, &flags)
	cmd.Flags().StringVar(&genePath, "gene", "", "Gene model YAML file (required)")
	cmd.Flags().StringVar(&heights, "heights", "4,1", "Relative panel heights as top,bottom")
	cmd.MarkFlagRequired("gene")
	addOutputFlags(cmd, &out, &width, &height)

	return cmd
}

func runFigure(cmd *cobra.Command, path string, flags statsFlags, genePath, heights, out string, width, height int) error {
	logger := newLogger()

	model, err := gene.Load(genePath)
	if err != nil {
		return err
	}

	panelHeights, err := parseHeights(heights)
	if err != nil {
		return err
	}

	tbl, err := table.ReadFile(path, logger)
	if err != nil {
		return err
	}

	opts, err := flags.options(tbl)
	if err != nil {
		return err
	}
	opts.HideXTicks = true

	statsBuilder := chart.NewStatsBuilder()
	statsBuilder.SetLogger(logger)
	statsPanel, err := statsBuilder.Build(tbl.Rows, opts)
	if err != nil {
		return err
	}
	statsPanel.ClampX(float64(model.Start), float64(model.End))

	structBuilder := chart.NewStructureBuilder()
	structBuilder.SetLogger(logger)
	structPanel, err := structBuilder.Build(model)
	if err != nil {
		return err
	}

	fig, err := chart.ComposeDual(statsPanel, structPanel, panelHeights)
	if err != nil {
		return err
	}

	width, height = resolvePlotSize(cmd, width, height)
	return fig.Export(out, width, height)
}

// parseHeights parses the top,bottom panel weight pair.
func parseHeights(s string) ([2]float64, error) {
	vals, err := parseFloats(s)
	if err != nil {
		return [2]float64{}, fmt.Errorf("parsing panel heights: %w", err)
	}
	if len(vals) != 2 {
		return [2]float64{}, fmt.Errorf("got %d panel heights in %q, want 2", len(vals), s)
	}
	return [2]float64{vals[0], vals[1]}, nil
}
