// Package store screens summary tables through DuckDB before plotting.
// The table is ingested once and queried with SELECT passthrough, the
// same ranking step the window pipeline runs upstream.
package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding one ingested summary table.
type Store struct {
	db *sql.DB
}

// Open opens a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadTable ingests a delimited summary table into the windows table
// through DuckDB's CSV reader. Empty, NA and NaN cells become NULL.
func (s *Store) LoadTable(path string, delim byte) error {
	query := fmt.Sprintf(
		`CREATE OR REPLACE TABLE windows AS
		SELECT * FROM read_csv('%s', delim='%c', header=true, nullstr=['', 'NA', 'NaN'])`,
		path, delim)
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("loading summary table %s: %w", path, err)
	}
	return nil
}

// Query selects, filters and orders window rows for screening. Where
// and OrderBy are raw SQL fragments passed through unchanged.
type Query struct {
	Columns []string // empty selects every column
	Where   string
	OrderBy string
	Limit   int // 0 means no limit
}

// Screen runs the query against the windows table and returns the
// result header plus one string slice per row. NULLs render as empty
// cells so the output stays a valid summary table.
func (s *Store) Screen(q Query) ([]string, [][]string, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(q.Columns) == 0 {
		sb.WriteString("*")
	} else {
		for i, c := range q.Columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(quoteIdent(c))
		}
	}
	sb.WriteString(" FROM windows")
	if q.Where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(q.Where)
	}
	if q.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(q.OrderBy)
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(q.Limit))
	}

	rows, err := s.db.Query(sb.String())
	if err != nil {
		return nil, nil, fmt.Errorf("screen windows: %w", err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("read result columns: %w", err)
	}

	var out [][]string
	for rows.Next() {
		cells := make([]any, len(header))
		ptrs := make([]any, len(header))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan window row: %w", err)
		}
		rec := make([]string, len(header))
		for i, c := range cells {
			rec[i] = formatCell(c)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("screen windows: %w", err)
	}
	return header, out, nil
}

// quoteIdent quotes a column name as a SQL identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// formatCell renders one scanned value as a table cell.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
