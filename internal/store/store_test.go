package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/mhapviz/internal/table"
)

const screenTSV = `start	end	num_alleles	He	Score
100	150	3	0.50	0.91
200	250	12	0.82	0.75
300	350	25	NA	0.88
400	450	7	0.64	0.42
`

func openWithTable(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "summary.tsv")
	require.NoError(t, os.WriteFile(path, []byte(screenTSV), 0o644))

	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.LoadTable(path, '\t'))
	return s
}

func TestScreen_AllColumns(t *testing.T) {
	s := openWithTable(t)

	header, rows, err := s.Screen(Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "end", "num_alleles", "He", "Score"}, header)
	require.Len(t, rows, 4)
	assert.Equal(t, "100", rows[0][0])
}

func TestScreen_SelectedColumns(t *testing.T) {
	s := openWithTable(t)

	header, rows, err := s.Screen(Query{Columns: []string{"start", "Score"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "Score"}, header)
	require.Len(t, rows, 4)
	require.Len(t, rows[0], 2)
}

func TestScreen_WhereOrderLimit(t *testing.T) {
	s := openWithTable(t)

	_, rows, err := s.Screen(Query{
		Columns: []string{"start", "He", "Score"},
		Where:   "He >= 0.5",
		OrderBy: "Score DESC",
		Limit:   2,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// ranked by Score among rows passing the He threshold
	assert.Equal(t, "100", rows[0][0])
	assert.Equal(t, "200", rows[1][0])
}

func TestScreen_NullsRenderEmpty(t *testing.T) {
	s := openWithTable(t)

	_, rows, err := s.Screen(Query{
		Columns: []string{"start", "He"},
		Where:   "start = 300",
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0][1])
}

func TestScreen_BadWhereFails(t *testing.T) {
	s := openWithTable(t)

	_, _, err := s.Screen(Query{Where: "no_such_column > 1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "screen windows")
}

func TestScreen_RoundTripsThroughParser(t *testing.T) {
	s := openWithTable(t)

	header, rows, err := s.Screen(Query{OrderBy: "start"})
	require.NoError(t, err)

	var buf strings.Builder
	w := table.NewWriter(&buf, header)
	require.NoError(t, w.WriteHeader())
	for _, row := range rows {
		require.NoError(t, w.WriteRow(row))
	}
	require.NoError(t, w.Flush())

	p, err := table.NewParserFromReader(strings.NewReader(buf.String()))
	require.NoError(t, err)
	parsed, err := p.ReadAll()
	require.NoError(t, err)

	require.Len(t, parsed.Rows, 4)
	assert.Equal(t, 100.0, parsed.Rows[0].Start)
	assert.Equal(t, 0.82, parsed.Rows[1].Values["He"])
	assert.Equal(t, 25.0, parsed.Rows[2].Values["num_alleles"])
}
