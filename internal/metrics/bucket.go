package metrics

import (
	"fmt"
	"sort"
	"strconv"
)

// Bucketer bins values over ordered breakpoints. The buckets are
// contiguous and total: a value lands in the first bucket whose
// breakpoint is >= the value, and everything above the last breakpoint
// takes the final, catch-all label.
type Bucketer struct {
	breaks []float64
	labels []string
}

// NewBucketer builds a Bucketer from strictly ascending breakpoints and
// exactly len(breaks)+1 labels.
func NewBucketer(breaks []float64, labels []string) (*Bucketer, error) {
	if len(breaks) == 0 {
		return nil, fmt.Errorf("bucketer needs at least one breakpoint")
	}
	for i := 1; i < len(breaks); i++ {
		if breaks[i] <= breaks[i-1] {
			return nil, fmt.Errorf("breakpoints must be strictly ascending: %v is not above %v", breaks[i], breaks[i-1])
		}
	}
	if len(labels) != len(breaks)+1 {
		return nil, fmt.Errorf("got %d bucket labels for %d breakpoints, want %d", len(labels), len(breaks), len(breaks)+1)
	}
	return &Bucketer{
		breaks: append([]float64(nil), breaks...),
		labels: append([]string(nil), labels...),
	}, nil
}

// Assign returns the label of the bucket v falls into. NaN sorts above
// every breakpoint and takes the catch-all label; callers that want NaN
// excluded filter before assigning.
func (b *Bucketer) Assign(v float64) string {
	return b.labels[sort.SearchFloat64s(b.breaks, v)]
}

// Index returns the bucket index of v, 0-based from the smallest bucket.
func (b *Bucketer) Index(v float64) int {
	return sort.SearchFloat64s(b.breaks, v)
}

// Labels returns the bucket labels from smallest bucket to catch-all.
func (b *Bucketer) Labels() []string {
	return append([]string(nil), b.labels...)
}

// LegendOrder returns the bucket labels largest-first, the order legends
// present them in.
func (b *Bucketer) LegendOrder() []string {
	out := make([]string, len(b.labels))
	for i, l := range b.labels {
		out[len(b.labels)-1-i] = l
	}
	return out
}

// DefaultLabels derives bucket labels from the breakpoints alone:
// "<=b0", "b0-b1", ..., ">bn". Nil for no breakpoints.
func DefaultLabels(breaks []float64) []string {
	if len(breaks) == 0 {
		return nil
	}
	labels := make([]string, 0, len(breaks)+1)
	labels = append(labels, "<="+formatBreak(breaks[0]))
	for i := 1; i < len(breaks); i++ {
		labels = append(labels, formatBreak(breaks[i-1])+"-"+formatBreak(breaks[i]))
	}
	return append(labels, ">"+formatBreak(breaks[len(breaks)-1]))
}

func formatBreak(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
