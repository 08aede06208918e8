package metrics

import (
	"math"

	"github.com/inodb/mhapviz/internal/table"
)

// LongPoint is one (window, metric, value) observation in long form.
type LongPoint struct {
	Start  float64
	Metric string
	Value  float64
}

// Reshape flattens wide summary rows into long form, one point per row
// per requested metric name. A metric missing from a row's values is
// emitted as NaN so every row stays visible to downstream filters.
func Reshape(rows []table.Row, names []string) []LongPoint {
	points := make([]LongPoint, 0, len(rows)*len(names))
	for _, row := range rows {
		for _, name := range names {
			v, ok := row.Values[name]
			if !ok {
				v = math.NaN()
			}
			points = append(points, LongPoint{Start: row.Start, Metric: name, Value: v})
		}
	}
	return points
}
