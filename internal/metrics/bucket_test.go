package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketer_Assign(t *testing.T) {
	b, err := NewBucketer(
		[]float64{5, 10, 20},
		[]string{"3-5", "6-10", "11-20", "21+"},
	)
	require.NoError(t, err)

	tests := []struct {
		value float64
		want  string
	}{
		{3, "3-5"},
		{12, "11-20"},
		{25, "21+"},
		{5, "3-5"},   // on a breakpoint the lower bucket wins
		{10, "6-10"},
		{20, "11-20"},
		{20.0001, "21+"},
		{-1, "3-5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.Assign(tt.value), "value %v", tt.value)
	}
}

func TestBucketer_NaNTakesCatchAll(t *testing.T) {
	b, err := NewBucketer([]float64{1}, []string{"low", "high"})
	require.NoError(t, err)
	assert.Equal(t, "high", b.Assign(math.NaN()))
}

func TestNewBucketer_Validation(t *testing.T) {
	tests := []struct {
		name    string
		breaks  []float64
		labels  []string
		wantErr string
	}{
		{
			name:    "no breakpoints",
			breaks:  nil,
			labels:  []string{"all"},
			wantErr: "at least one breakpoint",
		},
		{
			name:    "descending breaks",
			breaks:  []float64{10, 5},
			labels:  []string{"a", "b", "c"},
			wantErr: "strictly ascending",
		},
		{
			name:    "duplicate breaks",
			breaks:  []float64{5, 5},
			labels:  []string{"a", "b", "c"},
			wantErr: "strictly ascending",
		},
		{
			name:    "label arity",
			breaks:  []float64{5, 10},
			labels:  []string{"a", "b"},
			wantErr: "want 3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBucketer(tt.breaks, tt.labels)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBucketer_LegendOrder(t *testing.T) {
	b, err := NewBucketer([]float64{5, 10}, []string{"small", "mid", "large"})
	require.NoError(t, err)

	assert.Equal(t, []string{"small", "mid", "large"}, b.Labels())
	assert.Equal(t, []string{"large", "mid", "small"}, b.LegendOrder())
}

func TestDefaultLabels(t *testing.T) {
	assert.Equal(t, []string{"<=5", "5-10", "10-20", ">20"}, DefaultLabels([]float64{5, 10, 20}))
	assert.Equal(t, []string{"<=0.5", ">0.5"}, DefaultLabels([]float64{0.5}))
	assert.Nil(t, DefaultLabels(nil))
}
