package table

import (
	"compress/gzip"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const summaryTSV = `start_1based	end_1based	num_alleles	He	alleles_freqs
100	120	3	0.61	A1(0.52), A2(0.31), A3(0.17)
300	320	25	0.93	A1(0.20), A2(0.11), A3(0.09)
200	220	12	0.82	A1(0.40), A2(0.33), A3(0.27)
`

func writeTable(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParser_TSV(t *testing.T) {
	path := writeTable(t, "windows.tsv", summaryTSV)

	tbl, err := ReadFile(path, nil)
	require.NoError(t, err)

	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, []string{"start_1based", "end_1based", "num_alleles", "He", "alleles_freqs"}, tbl.Columns)

	// Source order is preserved; sorting is the consumer's job.
	assert.Equal(t, 100.0, tbl.Rows[0].Start)
	assert.Equal(t, 300.0, tbl.Rows[1].Start)
	assert.Equal(t, 200.0, tbl.Rows[2].Start)

	assert.Equal(t, 120.0, tbl.Rows[0].End)
	assert.Equal(t, 3.0, tbl.Rows[0].Values["num_alleles"])
	assert.Equal(t, 0.61, tbl.Rows[0].Values["He"])

	// Free-text columns are sniffed out of the numeric set.
	_, ok := tbl.Rows[0].Values["alleles_freqs"]
	assert.False(t, ok)
}

func TestParser_CSV(t *testing.T) {
	path := writeTable(t, "windows.csv", "start,He\n100,0.5\n200,0.7\n")

	p, err := NewParser(path)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, byte(','), p.Delim())

	tbl, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, 0.7, tbl.Rows[1].Values["He"])
	assert.True(t, math.IsNaN(tbl.Rows[1].End), "no end column means NaN end")
}

func TestParser_TabWinsOverComma(t *testing.T) {
	// Commas inside a tab-separated text column must not flip the delimiter.
	p, err := NewParserFromReader(strings.NewReader("start\tfreqs,notes\n10\tx,y\n"))
	require.NoError(t, err)
	assert.Equal(t, byte('\t'), p.Delim())
	assert.Equal(t, []string{"start", "freqs,notes"}, p.Columns())
}

func TestParser_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "windows.tsv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(summaryTSV))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	tbl, err := ReadFile(path, nil)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 3)
}

func TestParser_MissingStartColumn(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("chrom\tHe\n1\t0.5\n"))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, `"start"`)
}

func TestParser_SkipsRowMissingStart(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	p, err := NewParserFromReader(strings.NewReader("start\tHe\n100\t0.5\n\t0.6\n300\t0.7\n"))
	require.NoError(t, err)
	p.SetLogger(logger)

	tbl, err := p.ReadAll()
	require.NoError(t, err)

	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, 100.0, tbl.Rows[0].Start)
	assert.Equal(t, 300.0, tbl.Rows[1].Start)

	warnings := logs.FilterMessage("row skipped: missing start coordinate").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, int64(3), warnings[0].ContextMap()["line"])
}

func TestParser_NonNumericCellBecomesNaN(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	p, err := NewParserFromReader(strings.NewReader("start\tHe\n100\t0.5\n200\toops\n"))
	require.NoError(t, err)
	p.SetLogger(logger)

	tbl, err := p.ReadAll()
	require.NoError(t, err)

	require.Len(t, tbl.Rows, 2)
	assert.True(t, math.IsNaN(tbl.Rows[1].Values["He"]))

	warnings := logs.FilterMessage("non-numeric cell").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "He", warnings[0].ContextMap()["column"])
	assert.Equal(t, "oops", warnings[0].ContextMap()["value"])
}

func TestParser_MissingMarkersQuiet(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	p, err := NewParserFromReader(strings.NewReader("start\tHWE\n100\t0.9\n200\tNA\n300\tNaN\n"))
	require.NoError(t, err)
	p.SetLogger(logger)

	tbl, err := p.ReadAll()
	require.NoError(t, err)

	require.Len(t, tbl.Rows, 3)
	assert.True(t, math.IsNaN(tbl.Rows[1].Values["HWE"]))
	assert.True(t, math.IsNaN(tbl.Rows[2].Values["HWE"]))
	assert.Empty(t, logs.All(), "conventional missing markers are not data-quality events")
}

func TestParser_CommentsAndBlankLines(t *testing.T) {
	in := "# produced by the window pipeline\n\nstart\tHe\n100\t0.5\n\n# trailing note\n200\t0.6\n"
	p, err := NewParserFromReader(strings.NewReader(in))
	require.NoError(t, err)

	tbl, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, 4, tbl.Rows[0].Line)
	assert.Equal(t, 7, tbl.Rows[1].Line)
}

func TestParser_NoHeader(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader(""))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "no header")
}

func TestTable_HasColumn(t *testing.T) {
	tbl := &Table{Columns: []string{"start", "He", "PIC"}}
	assert.True(t, tbl.HasColumn("PIC"))
	assert.False(t, tbl.HasColumn("Fis"))
}
