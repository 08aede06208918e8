package chart

import (
	"image/color"

	"gonum.org/v1/plot/plotutil"
)

var (
	// Gene schematic fills. UTRs take a lighter shade of the exon
	// family so the two read as one gene.
	exonFill = color.NRGBA{R: 0x3b, G: 0x6e, B: 0xa5, A: 0xff}
	utrFill  = color.NRGBA{R: 0xa9, G: 0xc4, B: 0xde, A: 0xff}

	// trendColor draws the smoothed trend overlay.
	trendColor = color.NRGBA{R: 0x33, G: 0x66, B: 0xff, A: 0xff}

	// neutralFill marks points whose color-by value is missing.
	neutralFill = color.NRGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}
)

// bucketColor returns the fill for the i-th bucket, smallest first.
func bucketColor(i int) color.Color {
	return plotutil.Color(i)
}
