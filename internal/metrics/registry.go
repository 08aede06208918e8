// Package metrics describes the per-window summary statistics and the
// transforms that prepare them for plotting.
package metrics

// Metric describes a known summary-table column.
type Metric struct {
	Name    string   // canonical column name, e.g. "He"
	Label   string   // display label for axis and facet titles
	Aliases []string // alternate column names from older pipeline runs
}

// Known lists the summary columns produced by the window pipeline.
// Columns outside this list are still plottable; the registry only
// supplies nicer labels and alias resolution.
var Known = []Metric{
	{Name: "num_alleles", Label: "Number of alleles"},
	{Name: "Ae", Label: "Effective alleles (Ae)", Aliases: []string{"Neff"}},
	{Name: "He", Label: "Expected heterozygosity (He)"},
	{Name: "Ho", Label: "Observed heterozygosity (Ho)"},
	{Name: "Fis", Label: "Inbreeding coefficient (Fis)"},
	{Name: "PIC", Label: "Polymorphism information content (PIC)"},
	{Name: "HWE", Label: "HWE p-value"},
	{Name: "MP", Label: "Match probability (MP)"},
	{Name: "PD", Label: "Power of discrimination (PD)"},
	{Name: "prob_2_diff", Label: "Prob. 2 alleles distinct"},
	{Name: "prob_3_diff", Label: "Prob. 3 alleles distinct"},
	{Name: "prob_4_diff", Label: "Prob. 4 alleles distinct"},
	{Name: "Score", Label: "Score"},
}

// byName indexes Known by canonical name and by every alias.
var byName map[string]*Metric

func init() {
	byName = make(map[string]*Metric, 2*len(Known))
	for i := range Known {
		m := &Known[i]
		byName[m.Name] = m
		for _, a := range m.Aliases {
			byName[a] = m
		}
	}
}

// Label returns the display label for a column name or alias. Unknown
// columns label as themselves.
func Label(name string) string {
	if m, ok := byName[name]; ok {
		return m.Label
	}
	return name
}

// Resolve maps a requested metric name to the table column that carries
// it, trying registry aliases in both directions. The second return
// reports whether any matching column exists.
func Resolve(name string, columns []string) (string, bool) {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	if set[name] {
		return name, true
	}
	m, ok := byName[name]
	if !ok {
		return name, false
	}
	if set[m.Name] {
		return m.Name, true
	}
	for _, a := range m.Aliases {
		if set[a] {
			return a, true
		}
	}
	return name, false
}
