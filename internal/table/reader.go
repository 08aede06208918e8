// Package table provides microhaplotype summary-table parsing functionality.
package table

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Coordinate column names. The upstream pipeline writes 1-based coordinates
// under the *_1based names; plain start/end are accepted as well.
const (
	ColStart       = "start"
	ColEnd         = "end"
	ColStart1Based = "start_1based"
	ColEnd1Based   = "end_1based"
)

// Row holds one genomic window of the summary table. Values maps column
// names to parsed numbers; missing or unparsable cells are NaN. Start is
// never NaN for rows returned by the parser.
type Row struct {
	Line   int // 1-based source line, for diagnostics
	Start  float64
	End    float64 // NaN when the table has no end column
	Values map[string]float64
}

// Table is a fully parsed summary table.
type Table struct {
	Path    string
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the table header contains the given column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Parser reads rows from a delimited summary table.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	logger     *zap.Logger
	lineNumber int
	delim      byte
	columns    []string
	numeric    []bool // per column, decided on the first non-missing cell
	sniffed    []bool
	startIdx   int
	endIdx     int
}

// NewParser creates a parser for the given file. Gzipped input is detected
// by magic bytes; the delimiter (tab or comma) is sniffed from the header
// line, with tab winning when both occur.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open summary table: %w", err)
	}

	p := &Parser{file: file, logger: zap.NewNop()}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	_, err = file.Read(buf)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read table header: %w", err)
	}

	// Seek back to beginning
	_, err = file.Seek(0, 0)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("seek summary table: %w", err)
	}

	// Gzip magic number is 0x1f, 0x8b
	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{
		reader: bufio.NewReader(r),
		logger: zap.NewNop(),
	}

	if err := p.parseHeader(); err != nil {
		return nil, err
	}

	return p, nil
}

// SetLogger sets the logger for data-quality warnings.
func (p *Parser) SetLogger(l *zap.Logger) {
	p.logger = l
}

// DetectDelim returns the delimiter for a header line: tab when the line
// contains any tab, comma otherwise.
func DetectDelim(header string) byte {
	if strings.ContainsRune(header, '\t') {
		return '\t'
	}
	return ','
}

// parseHeader reads the header line, sniffs the delimiter, and resolves
// the coordinate columns.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && line == "" {
				return &ParseError{
					Line:    p.lineNumber,
					Message: "no header line found",
				}
			}
			if err != io.EOF {
				return fmt.Errorf("read header: %w", err)
			}
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")

		// Skip comment and empty lines
		if strings.HasPrefix(line, "#") || line == "" {
			if err == io.EOF {
				return &ParseError{
					Line:    p.lineNumber,
					Message: "no header line found",
				}
			}
			continue
		}

		p.delim = DetectDelim(line)
		p.columns = strings.Split(line, string(p.delim))
		p.numeric = make([]bool, len(p.columns))
		p.sniffed = make([]bool, len(p.columns))
		return p.resolveCoordinates()
	}
}

// resolveCoordinates locates the start (required) and end (optional)
// columns, honoring the upstream 1-based aliases.
func (p *Parser) resolveCoordinates() error {
	p.startIdx = -1
	p.endIdx = -1

	for i, col := range p.columns {
		switch col {
		case ColStart, ColStart1Based:
			if p.startIdx == -1 {
				p.startIdx = i
			}
		case ColEnd, ColEnd1Based:
			if p.endIdx == -1 {
				p.endIdx = i
			}
		}
	}

	if p.startIdx == -1 {
		return &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("required column %q (or %q) not found in header", ColStart, ColStart1Based),
		}
	}

	return nil
}

// Columns returns the header columns in file order.
func (p *Parser) Columns() []string {
	return p.columns
}

// HasColumn reports whether the header contains the given column.
func (p *Parser) HasColumn(name string) bool {
	for _, c := range p.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Delim returns the sniffed delimiter.
func (p *Parser) Delim() byte {
	return p.delim
}

// Next reads the next row. Rows with a missing or unparsable start
// coordinate are skipped with a warning; a non-numeric cell in a numeric
// column becomes NaN with a warning. Returns nil, nil at end of input.
func (p *Parser) Next() (*Row, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read table line: %w", err)
		}
		atEOF := err == io.EOF

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			if atEOF {
				return nil, nil
			}
			p.lineNumber++
			continue
		}
		p.lineNumber++

		row, ok := p.parseLine(line)
		if ok {
			return row, nil
		}
		if atEOF {
			return nil, nil
		}
	}
}

// parseLine parses one data line. The boolean result is false when the row
// must be skipped (missing coordinate).
func (p *Parser) parseLine(line string) (*Row, bool) {
	fields := strings.Split(line, string(p.delim))

	start, ok := parseCell(cellAt(fields, p.startIdx))
	if !ok || math.IsNaN(start) {
		p.logger.Warn("row skipped: missing start coordinate",
			zap.Int("line", p.lineNumber),
			zap.String("value", cellAt(fields, p.startIdx)))
		return nil, false
	}

	row := &Row{
		Line:   p.lineNumber,
		Start:  start,
		End:    math.NaN(),
		Values: make(map[string]float64, len(p.columns)),
	}

	if p.endIdx >= 0 {
		if end, ok := parseCell(cellAt(fields, p.endIdx)); ok {
			row.End = end
		}
	}

	for i, col := range p.columns {
		if i == p.startIdx || i == p.endIdx {
			continue
		}
		cell := cellAt(fields, i)

		// Decide numeric vs. free-text per column on its first
		// non-missing cell, so text columns such as alleles_freqs
		// do not warn on every row.
		if !p.sniffed[i] && !isMissing(cell) {
			_, err := strconv.ParseFloat(cell, 64)
			p.numeric[i] = err == nil
			p.sniffed[i] = true
		}
		if !p.numeric[i] {
			continue
		}

		v, ok := parseCell(cell)
		if !ok {
			p.logger.Warn("non-numeric cell",
				zap.Int("line", p.lineNumber),
				zap.String("column", col),
				zap.String("value", cell))
			v = math.NaN()
		}
		row.Values[col] = v
	}

	return row, true
}

// ReadAll consumes the remaining rows into a Table.
func (p *Parser) ReadAll() (*Table, error) {
	t := &Table{Columns: p.columns}
	if p.file != nil {
		t.Path = p.file.Name()
	}
	for {
		row, err := p.Next()
		if err != nil {
			return nil, err
		}
		if row == nil {
			return t, nil
		}
		t.Rows = append(t.Rows, *row)
	}
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ReadFile parses a whole summary table from disk.
func ReadFile(path string, logger *zap.Logger) (*Table, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	if logger != nil {
		p.SetLogger(logger)
	}
	return p.ReadAll()
}

// cellAt returns fields[i] or "" when the line is short.
func cellAt(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}

// isMissing reports whether a cell uses one of the conventional
// missing-value markers.
func isMissing(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "", ".", "NA", "NaN", "nan":
		return true
	}
	return false
}

// parseCell parses a numeric cell. Missing markers yield (NaN, true);
// anything else unparsable yields (NaN, false).
func parseCell(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if isMissing(cell) {
		return math.NaN(), true
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}

// ParseError represents a structural parsing failure with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("table parse error at line %d: %s", e.Line, e.Message)
}
