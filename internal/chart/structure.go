package chart

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/inodb/mhapviz/internal/gene"
)

// Rectangle half-heights in normalized panel coordinates. The baseline
// sits at 0.5; exons are drawn thicker than UTRs.
const (
	exonHalfHeight = 0.3
	utrHalfHeight  = 0.15
)

// StructureBuilder renders a gene.Model into a one-row schematic panel.
type StructureBuilder struct {
	logger *zap.Logger
}

// NewStructureBuilder returns a builder that logs nothing until
// SetLogger is called.
func NewStructureBuilder() *StructureBuilder {
	return &StructureBuilder{logger: zap.NewNop()}
}

// SetLogger sets the logger used for build diagnostics.
func (b *StructureBuilder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// Build validates the model and produces the schematic panel: a
// baseline across the gene span, exon and UTR rectangles layered above
// it, and x ticks at labeled exon midpoints. The x range is clamped
// exactly to the gene span so the panel aligns with any other panel
// drawn over the same domain.
func (b *StructureBuilder) Build(m *gene.Model) (*Panel, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("gene structure: %w", err)
	}

	p := plot.New()
	p.HideY()
	p.Add(&geneDiagram{model: m})

	var ticks []plot.Tick
	for _, iv := range m.Intervals {
		if iv.Kind == gene.KindExon && iv.Label != "" {
			ticks = append(ticks, plot.Tick{Value: iv.Mid(), Label: iv.Label})
		}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	p.X.Min = float64(m.Start)
	p.X.Max = float64(m.End)
	p.Y.Min = 0
	p.Y.Max = 1

	b.logger.Debug("gene structure panel built",
		zap.String("gene", m.Name),
		zap.Int("intervals", len(m.Intervals)),
		zap.Int("ticks", len(ticks)),
	)
	return &Panel{rows: []*plot.Plot{p}, weights: []float64{1}}, nil
}

// geneDiagram draws a gene model into the data area: a centered
// baseline with one rectangle per interval.
type geneDiagram struct {
	model *gene.Model
}

var (
	_ plot.Plotter    = (*geneDiagram)(nil)
	_ plot.DataRanger = (*geneDiagram)(nil)
)

// Plot implements plot.Plotter.
func (g *geneDiagram) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	baseline := draw.LineStyle{
		Color: exonFill,
		Width: vg.Points(1),
	}
	c.StrokeLine2(baseline,
		trX(float64(g.model.Start)), trY(0.5),
		trX(float64(g.model.End)), trY(0.5),
	)

	for _, iv := range g.model.Intervals {
		half := exonHalfHeight
		fill := exonFill
		if iv.Kind == gene.KindUTR {
			half = utrHalfHeight
			fill = utrFill
		}
		rect := vg.Rectangle{
			Min: vg.Point{X: trX(float64(iv.Start)), Y: trY(0.5 - half)},
			Max: vg.Point{X: trX(float64(iv.End)), Y: trY(0.5 + half)},
		}
		c.SetColor(fill)
		c.Fill(rect.Path())
	}
}

// DataRange implements plot.DataRanger.
func (g *geneDiagram) DataRange() (xmin, xmax, ymin, ymax float64) {
	return float64(g.model.Start), float64(g.model.End), 0, 1
}
