package main

import (
	"fmt"
	"io"
	"os"

	"github.com/javajack/gridedit"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <book.xlsx>",
		Short: "Show columns, semantic types and editability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s.Describe())
			return nil
		},
	}
}

func newAggregateCmd() *cobra.Command {
	var where, format string
	cmd := &cobra.Command{
		Use:   "aggregate <book.xlsx>",
		Short: "Summarize numeric columns over the rows matching --where",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			result, err := s.Aggregate(cfg.AggregationMode(), where)
			if err != nil {
				return err
			}
			switch format {
			case "tsv":
				for _, col := range s.Columns() {
					if agg, ok := result[col.Name]; ok {
						fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", col.DisplayName(), agg.Formatted)
					}
				}
			case "table":
				renderAggregates(cmd.OutOrStdout(), s.Columns(), result)
			default:
				return fmt.Errorf("invalid format %q (must be tsv or table)", format)
			}
			return nil
		},
	}
	cmd.Flags().String("mode", "sum", "Aggregation: none, sum, avg, count")
	cmd.Flags().StringVar(&where, "where", "", `Row filter expression, e.g. 'amount > 100 && region == "EU"'`)
	cmd.Flags().StringVar(&format, "format", "tsv", "Output format: tsv, table")
	return cmd
}

func renderAggregates(w io.Writer, cols []gridedit.Column, result gridedit.AggregationResult) {
	if len(result) == 0 {
		_, _ = fmt.Fprintln(w, "(no numeric columns)")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Field", "Result"})
	for _, col := range cols {
		if agg, ok := result[col.Name]; ok {
			t.AppendRow(table.Row{col.DisplayName(), col.Name, agg.Formatted})
		}
	}
	t.Render()
}

func newPasteCmd() *cobra.Command {
	var textFile, htmlFile, at, out string
	cmd := &cobra.Command{
		Use:   "paste <book.xlsx>",
		Short: "Paste tab-separated text or an HTML table at a cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if textFile == "" && htmlFile == "" {
				return fmt.Errorf("one of --text or --html is required")
			}
			anchor, err := gridedit.ParseCellRef(at)
			if err != nil {
				return err
			}
			var clip gridedit.Clipboard
			if textFile != "" {
				b, err := os.ReadFile(textFile)
				if err != nil {
					return fmt.Errorf("read %s: %w", textFile, err)
				}
				clip.Text = string(b)
			}
			if htmlFile != "" {
				b, err := os.ReadFile(htmlFile)
				if err != nil {
					return fmt.Errorf("read %s: %w", htmlFile, err)
				}
				clip.HTML = string(b)
			}

			s, cfg, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := s.Paste(cmd.Context(), clip, anchor.Row, anchor.Col)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Pasted %d cells, skipped %d\n", res.Written, res.Skipped)
			printChanges(w, s)
			return saveIfRequested(w, s, cfg, args[0], out)
		},
	}
	cmd.Flags().StringVar(&textFile, "text", "", "File with tab-separated text")
	cmd.Flags().StringVar(&htmlFile, "html", "", "File with an HTML table")
	cmd.Flags().StringVar(&at, "at", "A1", "Anchor cell; row 1 is the first record")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the edited workbook to this file")
	return cmd
}

func newFillCmd() *cobra.Command {
	var column, out string
	var anchor, target int
	cmd := &cobra.Command{
		Use:   "fill <book.xlsx>",
		Short: "Copy one record's value of a column into a range of records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := s.Fill(cmd.Context(), resolveColumn(s, column), anchor-1, target-1)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Filled %d cells, skipped %d\n", res.Written, res.Skipped)
			printChanges(w, s)
			return saveIfRequested(w, s, cfg, args[0], out)
		},
	}
	cmd.Flags().StringVar(&column, "column", "", "Column name, label or letter")
	cmd.Flags().IntVar(&anchor, "anchor", 1, "Record number holding the source value")
	cmd.Flags().IntVar(&target, "target", 1, "Record number the fill extends to")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the edited workbook to this file")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

// resolveColumn accepts a canonical name, a display label or a column letter.
func resolveColumn(s *gridedit.Session, ref string) string {
	cols := s.Columns()
	for _, c := range cols {
		if c.Name == ref {
			return ref
		}
	}
	for _, c := range cols {
		if c.Label == ref || gridedit.ColumnKey(ref) == c.Name {
			return c.Name
		}
	}
	if idx, err := gridedit.NameToCol(ref); err == nil && idx < len(cols) {
		return cols[idx].Name
	}
	return ref
}
