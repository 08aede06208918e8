// Package chart builds the stat and gene-structure panels and composes
// them into exported PNG figures.
package chart

import "gonum.org/v1/plot"

// Panel is a render-ready vertical stack of plot rows sharing one
// numeric x domain, plus the relative height of each row. A panel is
// owned by its builder until handed to the composer and is not
// mutated afterwards.
type Panel struct {
	rows    []*plot.Plot
	weights []float64
}

// Rows returns the panel's plots, top row first.
func (p *Panel) Rows() []*plot.Plot {
	return p.rows
}

// ClampX pins every row's x range to [min, max] with no padding, so
// the panel can share a domain with another panel drawn over the same
// span.
func (p *Panel) ClampX(min, max float64) {
	for _, row := range p.rows {
		row.X.Min = min
		row.X.Max = max
	}
}
