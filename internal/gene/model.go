// Package gene models a gene's exon and UTR structure for the
// schematic panel.
package gene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Interval kinds understood by the schematic.
const (
	KindExon = "exon"
	KindUTR  = "utr"
)

// Interval is one sub-span of a gene.
type Interval struct {
	Start int64  `yaml:"start"`
	End   int64  `yaml:"end"`
	Kind  string `yaml:"kind"`
	Label string `yaml:"label,omitempty"`
}

// Mid returns the interval midpoint, where exon ticks sit.
func (iv Interval) Mid() float64 {
	return float64(iv.Start+iv.End) / 2
}

// Model is a gene span plus its internal structure. Intervals keep
// their declaration order.
type Model struct {
	Name      string     `yaml:"name"`
	Start     int64      `yaml:"start"`
	End       int64      `yaml:"end"`
	Intervals []Interval `yaml:"intervals"`
}

// Load reads a gene model from a YAML file and validates it.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gene model: %w", err)
	}
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse gene model %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("gene model %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks the gene span and every interval. It runs before any
// rendering so a bad model never produces a partial figure.
func (m *Model) Validate() error {
	if m.Start >= m.End {
		return fmt.Errorf("gene start %d is not below end %d", m.Start, m.End)
	}
	for i, iv := range m.Intervals {
		switch iv.Kind {
		case KindExon, KindUTR:
		default:
			return fmt.Errorf("interval %d: unknown kind %q (want %q or %q)", i+1, iv.Kind, KindExon, KindUTR)
		}
		if iv.Start >= iv.End {
			return fmt.Errorf("interval %d: start %d is not below end %d", i+1, iv.Start, iv.End)
		}
		if iv.Start < m.Start || iv.End > m.End {
			return fmt.Errorf("interval %d: [%d,%d] falls outside gene span [%d,%d]", i+1, iv.Start, iv.End, m.Start, m.End)
		}
		if iv.Kind == KindUTR && iv.Label != "" {
			return fmt.Errorf("interval %d: label %q not allowed on a %s interval", i+1, iv.Label, KindUTR)
		}
	}
	return nil
}
