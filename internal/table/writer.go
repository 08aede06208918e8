package table

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Writer writes summary rows back out in tab-delimited format, as produced
// by the upstream window pipeline.
type Writer struct {
	w       *bufio.Writer
	columns []string
}

// NewWriter creates a tab-delimited writer for the given columns.
func NewWriter(w io.Writer, columns []string) *Writer {
	return &Writer{
		w:       bufio.NewWriter(w),
		columns: columns,
	}
}

// WriteHeader writes the header line.
func (w *Writer) WriteHeader() error {
	_, err := w.w.WriteString(strings.Join(w.columns, "\t") + "\n")
	return err
}

// WriteRow writes one data row. The number of cells must match the header.
func (w *Writer) WriteRow(cells []string) error {
	if len(cells) != len(w.columns) {
		return fmt.Errorf("row has %d cells, header has %d columns", len(cells), len(w.columns))
	}
	_, err := w.w.WriteString(strings.Join(cells, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
