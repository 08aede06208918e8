package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inodb/mhapviz/internal/store"
	"github.com/inodb/mhapviz/internal/table"
)

func newScreenCmd() *cobra.Command {
	var (
		columns string
		where   string
		orderBy string
		top     int
		out     string
	)

	cmd := &cobra.Command{
		Use:   "screen <table>",
		Short: "Filter and rank summary windows",
		Long: `Screen a summary table before plotting: select columns, filter rows
with a SQL expression, order, and keep the top N. The reduced table is
written as TSV to stdout or --out.`,
		Example: `  mhapviz screen --where "He >= 0.5" summary.tsv
  mhapviz screen --order-by "Score DESC" --top 20 summary.tsv
  mhapviz screen --columns start,He,Score -o screened.tsv summary.tsv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreen(args[0], columns, where, orderBy, top, out)
		},
	}

	cmd.Flags().StringVar(&columns, "columns", "", "Comma-separated columns to keep (default all)")
	cmd.Flags().StringVar(&where, "where", "", "SQL filter expression over the summary columns")
	cmd.Flags().StringVar(&orderBy, "order-by", "", "SQL ordering expression")
	cmd.Flags().IntVar(&top, "top", 0, "Keep only the first n rows after ordering (0 keeps all)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output TSV path (default stdout)")

	return cmd
}

func runScreen(path, columns, where, orderBy string, top int, out string) error {
	// Sniff the delimiter (and fail on an unreadable table) before the
	// path goes to DuckDB.
	p, err := table.NewParser(path)
	if err != nil {
		return err
	}
	delim := p.Delim()
	p.Close()

	st, err := store.Open("")
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.LoadTable(path, delim); err != nil {
		return err
	}

	header, rows, err := st.Screen(store.Query{
		Columns: splitList(columns),
		Where:   where,
		OrderBy: orderBy,
		Limit:   top,
	})
	if err != nil {
		return err
	}

	dst := os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output file %s: %w", out, err)
		}
		defer f.Close()
		dst = f
	}

	w := table.NewWriter(dst, header)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return w.Flush()
}
