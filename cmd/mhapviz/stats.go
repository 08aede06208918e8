package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/mhapviz/internal/chart"
	"github.com/inodb/mhapviz/internal/metrics"
	"github.com/inodb/mhapviz/internal/table"
)

// defaultWidth is the exported figure width in pixels when neither
// --width nor the plot.width config key is set.
const defaultWidth = 1400

// statsFlags holds the plotting flags shared by the stats and figure
// commands.
type statsFlags struct {
	metrics      string
	line         bool
	smooth       float64
	buckets      string
	bucketLabels string
	colorBy      string
	title        string
}

func newStatsCmd() *cobra.Command {
	var (
		flags  statsFlags
		out    string
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "stats <table>",
		Short: "Plot per-window summary statistics",
		Long: `Render one or more per-window metrics from a summary table as scatter
panels over the genomic start coordinate, one facet per metric. Facets
share the x-domain; each keeps its own y-scale.`,
		Example: `  mhapviz stats -m He,Ho -o het.png summary.tsv
  mhapviz stats -m Ae --line --smooth 0.3 -o ae.png summary.tsv
  mhapviz stats -m num_alleles --buckets 5,10,20 -o alleles.png summary.tsv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args[0], flags, out, width, height)
		},
	}

	addStatsFlags(cmd, &flags)
	addOutputFlags(cmd, &out, &width, &height)

	return cmd
}

func runStats(cmd *cobra.Command, path string, flags statsFlags, out string, width, height int) error {
	logger := newLogger()

	tbl, err := table.ReadFile(path, logger)
	if err != nil {
		return err
	}

	opts, err := flags.options(tbl)
	if err != nil {
		return err
	}

	builder := chart.NewStatsBuilder()
	builder.SetLogger(logger)
	panel, err := builder.Build(tbl.Rows, opts)
	if err != nil {
		return err
	}

	width, height = resolvePlotSize(cmd, width, height)
	return chart.Single(panel).Export(out, width, height)
}

// addStatsFlags registers the plotting flags shared by stats and figure.
func addStatsFlags(cmd *cobra.Command, f *statsFlags) {
	cmd.Flags().StringVarP(&f.metrics, "metrics", "m", "", "Comma-separated metrics to plot (required)")
	cmd.Flags().BoolVar(&f.line, "line", false, "Connect points with a line")
	cmd.Flags().Float64Var(&f.smooth, "smooth", 0, "LOESS trend span in (0,1] (0 disables the trend)")
	cmd.Flags().StringVar(&f.buckets, "buckets", "", "Comma-separated breakpoints for bucket point coloring")
	cmd.Flags().StringVar(&f.bucketLabels, "bucket-labels", "", "Comma-separated bucket labels (default derived from the breakpoints)")
	cmd.Flags().StringVar(&f.colorBy, "color-by", "", "Color points by a second metric")
	cmd.Flags().StringVar(&f.title, "title", "", "Figure title")
	cmd.MarkFlagRequired("metrics")
}

// addOutputFlags registers the export flags shared by all render commands.
func addOutputFlags(cmd *cobra.Command, out *string, width, height *int) {
	cmd.Flags().StringVarP(out, "out", "o", "", "Output PNG path (required)")
	cmd.Flags().IntVar(width, "width", defaultWidth, "Figure width in pixels")
	cmd.Flags().IntVar(height, "height", 0, "Figure height in pixels (0 derives it from the width)")
	cmd.MarkFlagRequired("out")
}

// resolvePlotSize applies config-file defaults for figure dimensions when
// the flags were not set on the command line.
func resolvePlotSize(cmd *cobra.Command, width, height int) (int, int) {
	if !cmd.Flags().Changed("width") && viper.IsSet("plot.width") {
		width = viper.GetInt("plot.width")
	}
	if !cmd.Flags().Changed("height") && viper.IsSet("plot.height") {
		height = viper.GetInt("plot.height")
	}
	return width, height
}

// options resolves the flag values against the parsed table into build
// options, failing on any metric whose column is absent.
func (f statsFlags) options(tbl *table.Table) (chart.StatsOptions, error) {
	opts := chart.StatsOptions{
		Line:       f.line,
		SmoothSpan: f.smooth,
		Title:      f.title,
	}

	for _, name := range splitList(f.metrics) {
		col, ok := metrics.Resolve(name, tbl.Columns)
		if !ok {
			return opts, fmt.Errorf("metric %q: no matching column in %s", name, tbl.Path)
		}
		opts.Metrics = append(opts.Metrics, col)
	}

	if f.buckets != "" {
		breaks, err := parseFloats(f.buckets)
		if err != nil {
			return opts, fmt.Errorf("parsing bucket breakpoints: %w", err)
		}
		labels := metrics.DefaultLabels(breaks)
		if f.bucketLabels != "" {
			labels = splitList(f.bucketLabels)
		}
		b, err := metrics.NewBucketer(breaks, labels)
		if err != nil {
			return opts, err
		}
		opts.Buckets = b
	}

	if f.colorBy != "" {
		col, ok := metrics.Resolve(f.colorBy, tbl.Columns)
		if !ok {
			return opts, fmt.Errorf("color-by metric %q: no matching column in %s", f.colorBy, tbl.Path)
		}
		opts.ColorBy = col
	}

	return opts, nil
}

// splitList splits a comma-separated flag value, trimming whitespace and
// dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseFloats parses a comma-separated list of numbers.
func parseFloats(s string) ([]float64, error) {
	parts := splitList(s)
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", part)
		}
		out = append(out, v)
	}
	return out, nil
}
