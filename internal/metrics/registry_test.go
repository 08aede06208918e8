package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "Expected heterozygosity (He)", Label("He"))
	assert.Equal(t, "Effective alleles (Ae)", Label("Ae"))
	// alias labels the same as its canonical column
	assert.Equal(t, "Effective alleles (Ae)", Label("Neff"))
	// unknown columns label as themselves
	assert.Equal(t, "custom_stat", Label("custom_stat"))
}

func TestResolve(t *testing.T) {
	columns := []string{"start", "num_alleles", "Neff", "He", "Score"}

	tests := []struct {
		name    string
		wantCol string
		wantHit bool
	}{
		{"He", "He", true},
		{"Ae", "Neff", true},   // canonical resolves through its alias
		{"Neff", "Neff", true}, // alias present directly
		{"Ho", "Ho", false},    // known metric, column absent
		{"mystery", "mystery", false},
	}
	for _, tt := range tests {
		col, ok := Resolve(tt.name, columns)
		assert.Equal(t, tt.wantCol, col, "column for %s", tt.name)
		assert.Equal(t, tt.wantHit, ok, "hit for %s", tt.name)
	}
}

func TestResolve_AliasToCanonical(t *testing.T) {
	col, ok := Resolve("Neff", []string{"start", "Ae"})
	assert.True(t, ok)
	assert.Equal(t, "Ae", col)
}
