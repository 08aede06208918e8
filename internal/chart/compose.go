package chart

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// exportDPI keeps one canvas point equal to one image pixel, so the
// exported PNG width matches the requested pixel width exactly.
const exportDPI = 72

// Figure is a vertical stack of plot rows with relative heights, ready
// for PNG export.
type Figure struct {
	rows    []*plot.Plot
	weights []float64
}

// Single wraps one panel as a figure.
func Single(p *Panel) *Figure {
	return &Figure{rows: p.rows, weights: p.weights}
}

// ComposeDual stacks two panels, top first, with relative panel
// heights (a, b). Each panel's height is split evenly across its rows.
func ComposeDual(top, bottom *Panel, heights [2]float64) (*Figure, error) {
	for i, h := range heights {
		if h <= 0 {
			return nil, fmt.Errorf("panel height weight %v at position %d is not positive", h, i+1)
		}
	}
	f := &Figure{}
	for i, panel := range []*Panel{top, bottom} {
		per := heights[i] / float64(len(panel.rows))
		for _, row := range panel.rows {
			f.rows = append(f.rows, row)
			f.weights = append(f.weights, per)
		}
	}
	return f, nil
}

// Export renders the figure to a PNG of exactly widthPx pixels across.
// A heightPx of zero derives the height from the row weights: the
// heaviest row gets half the width, the others scale by weight. The
// file is written through a temp file and renamed into place, so an
// aborted export leaves nothing behind.
func (f *Figure) Export(path string, widthPx, heightPx int) error {
	if widthPx <= 0 {
		return fmt.Errorf("figure width %d is not positive", widthPx)
	}
	w := vg.Length(widthPx)
	h := vg.Length(heightPx)
	if heightPx <= 0 {
		h = f.derivedHeight(w)
	}

	img := vgimg.NewWith(
		vgimg.UseWH(w, h),
		vgimg.UseDPI(exportDPI),
		vgimg.UseBackgroundColor(color.White),
	)
	f.draw(draw.New(img))

	tmpPath := path + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create figure file %s: %w", path, err)
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(out); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode figure %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close figure file %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write figure %s: %w", path, err)
	}
	return nil
}

// derivedHeight sizes the figure from its content: the heaviest row is
// half the width tall, every other row scales by its weight.
func (f *Figure) derivedHeight(width vg.Length) vg.Length {
	var total, max float64
	for _, wt := range f.weights {
		total += wt
		if wt > max {
			max = wt
		}
	}
	if max == 0 {
		return width / 2
	}
	return width / 2 * vg.Length(total/max)
}

// draw splits the canvas into weighted bands, aligns the data areas
// and renders every row.
func (f *Figure) draw(dc draw.Canvas) {
	cs := f.split(dc)
	cs = alignColumn(f.rows, cs)
	for i, p := range f.rows {
		p.Draw(cs[i])
	}
}

// split divides the canvas into horizontal bands by row weight, top
// row first.
func (f *Figure) split(dc draw.Canvas) []draw.Canvas {
	var total float64
	for _, wt := range f.weights {
		total += wt
	}
	height := dc.Max.Y - dc.Min.Y
	cs := make([]draw.Canvas, len(f.rows))
	top := dc.Max.Y
	for i, wt := range f.weights {
		bottom := top - vg.Length(wt/total)*height
		if i == len(f.rows)-1 {
			bottom = dc.Min.Y
		}
		cs[i] = draw.Canvas{
			Canvas: dc.Canvas,
			Rectangle: vg.Rectangle{
				Min: vg.Point{X: dc.Min.X, Y: bottom},
				Max: vg.Point{X: dc.Max.X, Y: top},
			},
		}
		top = bottom
	}
	return cs
}

// alignColumn equalizes the horizontal data-area extents across rows
// so a shared numeric x-domain maps to the same pixels in every row.
// Cropping shifts the glyph padding, so the extents are re-measured
// until they settle.
func alignColumn(rows []*plot.Plot, cs []draw.Canvas) []draw.Canvas {
	for iter := 0; iter < 10; iter++ {
		var left, right vg.Length
		dataMin := make([]vg.Length, len(rows))
		dataMax := make([]vg.Length, len(rows))
		for i, p := range rows {
			dataC := p.DataCanvas(cs[i])
			dataMin[i] = dataC.Min.X
			dataMax[i] = dataC.Max.X
			if i == 0 || dataC.Min.X > left {
				left = dataC.Min.X
			}
			if i == 0 || dataC.Max.X < right {
				right = dataC.Max.X
			}
		}
		var worst vg.Length
		for i := range rows {
			dl := left - dataMin[i]
			dr := dataMax[i] - right
			if dl > worst {
				worst = dl
			}
			if dr > worst {
				worst = dr
			}
			cs[i] = draw.Crop(cs[i], dl, -dr, 0, 0)
		}
		if worst < 0.01 {
			break
		}
	}
	return cs
}
