package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/mhapviz/internal/table"
)

func TestReshape(t *testing.T) {
	rows := []table.Row{
		{Line: 2, Start: 100, Values: map[string]float64{"He": 0.61, "Score": 0.8}},
		{Line: 3, Start: 200, Values: map[string]float64{"He": 0.82}},
	}

	points := Reshape(rows, []string{"He", "Score"})
	require.Len(t, points, 4)

	assert.Equal(t, LongPoint{Start: 100, Metric: "He", Value: 0.61}, points[0])
	assert.Equal(t, LongPoint{Start: 100, Metric: "Score", Value: 0.8}, points[1])
	assert.Equal(t, LongPoint{Start: 200, Metric: "He", Value: 0.82}, points[2])

	// the second row has no Score; the point survives as NaN
	assert.Equal(t, 200.0, points[3].Start)
	assert.Equal(t, "Score", points[3].Metric)
	assert.True(t, math.IsNaN(points[3].Value))
}

func TestReshape_Empty(t *testing.T) {
	assert.Empty(t, Reshape(nil, []string{"He"}))
	assert.Empty(t, Reshape([]table.Row{{Start: 1}}, nil))
}
