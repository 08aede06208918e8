package chart

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/inodb/mhapviz/internal/metrics"
	"github.com/inodb/mhapviz/internal/table"
)

// StatsOptions configures a stats panel build. Metrics holds resolved
// column names, one facet per entry.
type StatsOptions struct {
	Metrics    []string
	Line       bool              // connect points ordered by start
	SmoothSpan float64           // trend span in (0,1]; 0 disables
	Buckets    *metrics.Bucketer // categorical point coloring
	ColorBy    string            // column driving continuous point fill
	Title      string            // figure title, drawn on the top facet
	HideXTicks bool              // drop x tick labels on every facet
}

// StatsBuilder renders summary rows into a faceted stats panel.
type StatsBuilder struct {
	logger *zap.Logger
}

// NewStatsBuilder returns a builder that logs nothing until SetLogger
// is called.
func NewStatsBuilder() *StatsBuilder {
	return &StatsBuilder{logger: zap.NewNop()}
}

// SetLogger sets the logger used for data-quality diagnostics.
func (b *StatsBuilder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// Build produces one facet per requested metric: scatter points at
// (start, value), optionally connected by a line, overlaid with a
// smoothed trend and colored by bucket or by a second metric. Facets
// share the x domain; each keeps its own y scale.
func (b *StatsBuilder) Build(rows []table.Row, opts StatsOptions) (*Panel, error) {
	if len(opts.Metrics) == 0 {
		return nil, fmt.Errorf("no metrics requested")
	}
	if opts.SmoothSpan < 0 || opts.SmoothSpan > 1 {
		return nil, fmt.Errorf("smooth span %v outside (0,1]", opts.SmoothSpan)
	}
	if opts.Buckets != nil && opts.ColorBy != "" {
		return nil, fmt.Errorf("bucket coloring and color-by cannot be combined")
	}

	usable := b.usableRows(rows)
	if len(usable) == 0 {
		return nil, fmt.Errorf("no rows with a usable start coordinate")
	}

	facets := make([]*plot.Plot, 0, len(opts.Metrics))
	for i, name := range opts.Metrics {
		p, err := b.buildFacet(usable, name, opts, i == 0, i == len(opts.Metrics)-1)
		if err != nil {
			return nil, err
		}
		facets = append(facets, p)
	}

	// every facet spans the same coordinates, whatever each one dropped
	xmin := usable[0].Start
	xmax := usable[len(usable)-1].Start
	for _, p := range facets {
		p.X.Min = xmin
		p.X.Max = xmax
	}

	weights := make([]float64, len(facets))
	for i := range weights {
		weights[i] = 1
	}
	return &Panel{rows: facets, weights: weights}, nil
}

// usableRows drops rows without a start coordinate and returns the
// rest sorted by start. Source order is not trusted.
func (b *StatsBuilder) usableRows(rows []table.Row) []table.Row {
	usable := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		if math.IsNaN(r.Start) {
			b.logger.Warn("row dropped: missing start coordinate", zap.Int("line", r.Line))
			continue
		}
		usable = append(usable, r)
	}
	sort.SliceStable(usable, func(i, j int) bool { return usable[i].Start < usable[j].Start })
	return usable
}

func (b *StatsBuilder) buildFacet(rows []table.Row, name string, opts StatsOptions, top, bottom bool) (*plot.Plot, error) {
	pts, src, dropped := facetXYs(rows, name)
	for _, line := range dropped {
		b.logger.Debug("point dropped: missing metric value",
			zap.String("metric", name), zap.Int("line", line))
	}
	if len(pts) == 0 {
		b.logger.Warn("facet has no plottable points", zap.String("metric", name))
	}

	p := plot.New()
	p.Y.Label.Text = metrics.Label(name)
	switch {
	case top && opts.Title != "":
		p.Title.Text = opts.Title
	case len(opts.Metrics) > 1:
		p.Title.Text = name
	}

	var ticker plot.Ticker = GenomicTicks{}
	if opts.HideXTicks || !bottom {
		ticker = unlabeledTicks{ticker}
	}
	p.X.Tick.Marker = ticker
	if bottom && !opts.HideXTicks {
		p.X.Label.Text = "Position (bp)"
	}

	if opts.Line && len(pts) > 1 {
		ln, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("build line for %s: %w", name, err)
		}
		p.Add(ln)
	}

	if err := b.addPoints(p, pts, src, rows, name, opts); err != nil {
		return nil, err
	}

	if opts.SmoothSpan > 0 && len(pts) > 1 {
		if err := addTrend(p, pts, opts.SmoothSpan); err != nil {
			return nil, fmt.Errorf("smooth %s: %w", name, err)
		}
	}
	return p, nil
}

func (b *StatsBuilder) addPoints(p *plot.Plot, pts plotter.XYs, src []int, rows []table.Row, name string, opts StatsOptions) error {
	switch {
	case opts.Buckets != nil:
		return addBucketedPoints(p, pts, opts.Buckets)
	case opts.ColorBy != "":
		return addColorMappedPoints(p, pts, src, rows, opts.ColorBy)
	default:
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("build scatter for %s: %w", name, err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
		return nil
	}
}

// facetXYs reshapes the rows to long form for one metric column and
// keeps the plottable (start, value) points, the source row index of
// every point, and the source lines of dropped cells.
func facetXYs(rows []table.Row, name string) (pts plotter.XYs, src, dropped []int) {
	long := metrics.Reshape(rows, []string{name})
	for i, lp := range long {
		if math.IsNaN(lp.Value) {
			dropped = append(dropped, rows[i].Line)
			continue
		}
		pts = append(pts, plotter.XY{X: lp.Start, Y: lp.Value})
		src = append(src, i)
	}
	return pts, src, dropped
}

// bucketSplit groups points by bucket index, smallest bucket first.
// Assignment uses the point's y value, the facet's own metric.
func bucketSplit(pts plotter.XYs, b *metrics.Bucketer) []plotter.XYs {
	groups := make([]plotter.XYs, len(b.Labels()))
	for _, pt := range pts {
		i := b.Index(pt.Y)
		groups[i] = append(groups[i], pt)
	}
	return groups
}

// addBucketedPoints splits the points by bucket and adds one scatter
// per non-empty bucket. Legend entries run largest bucket first.
func addBucketedPoints(p *plot.Plot, pts plotter.XYs, b *metrics.Bucketer) error {
	labels := b.Labels()
	scatters := make([]*plotter.Scatter, len(labels))
	for i, sub := range bucketSplit(pts, b) {
		if len(sub) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(sub)
		if err != nil {
			return fmt.Errorf("build scatter for bucket %s: %w", labels[i], err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(2)
		sc.GlyphStyle.Color = bucketColor(i)
		p.Add(sc)
		scatters[i] = sc
	}
	for i := len(labels) - 1; i >= 0; i-- {
		if scatters[i] != nil {
			p.Legend.Add(labels[i], scatters[i])
		}
	}
	p.Legend.Top = true
	return nil
}

// addColorMappedPoints adds one scatter whose point fill encodes a
// second metric through a continuous blue-red map. Points without a
// color-by value take a neutral fill.
func addColorMappedPoints(p *plot.Plot, pts plotter.XYs, src []int, rows []table.Row, colorBy string) error {
	vals := make([]float64, len(pts))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, ri := range src {
		v, ok := rows[ri].Values[colorBy]
		if !ok {
			v = math.NaN()
		}
		vals[i] = v
		if !math.IsNaN(v) {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}

	cm := moreland.SmoothBlueRed()
	mapped := lo < hi
	if mapped {
		cm.SetMin(lo)
		cm.SetMax(hi)
	}
	colors := make([]color.Color, len(pts))
	for i, v := range vals {
		colors[i] = neutralFill
		if mapped && !math.IsNaN(v) {
			if c, err := cm.At(v); err == nil {
				colors[i] = c
			}
		}
	}

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("build scatter colored by %s: %w", colorBy, err)
	}
	base := draw.GlyphStyle{Shape: draw.CircleGlyph{}, Radius: vg.Points(2)}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		st := base
		st.Color = colors[i]
		return st
	}
	p.Add(sc)
	return nil
}

// addTrend overlays the smoothed trend line above the points. The
// trend takes no legend entry.
func addTrend(p *plot.Plot, pts plotter.XYs, span float64) error {
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, pt := range pts {
		xs[i] = pt.X
		ys[i] = pt.Y
	}
	grid, err := Loess(xs, ys, span, loessGridN)
	if err != nil {
		return err
	}
	ln, err := plotter.NewLine(grid)
	if err != nil {
		return fmt.Errorf("build trend line: %w", err)
	}
	ln.LineStyle.Color = trendColor
	ln.LineStyle.Width = vg.Points(2)
	p.Add(ln)
	return nil
}
