package main

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sells-group/leads-cli/internal/model"
)

var (
	whereTable  string
	whereFilter string
	whereFormat string
)

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "List the records of a collection matching a filter",
	Long:  "Lists records matching --filter. The filter is an Airtable formula, a JSON Notion property filter, or a SQL expression with {Field} references, depending on store.backend.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		tbl, closeFn, err := openTable(ctx, whereTable)
		if err != nil {
			return err
		}
		defer closeFn()

		recs, err := tbl.Where(ctx, whereFilter)
		if err != nil {
			return err
		}

		if whereFormat == formatTable {
			renderRecords(cmd.OutOrStdout(), recs)
			return nil
		}
		return writeFormatted(cmd.OutOrStdout(), whereFormat, recs)
	},
}

func init() {
	whereCmd.Flags().StringVar(&whereTable, "table", "", "collection to query (default: intake.table)")
	whereCmd.Flags().StringVar(&whereFilter, "filter", "", "backend filter expression (empty matches all)")
	whereCmd.Flags().StringVar(&whereFormat, "format", formatTable, "output format: table, json or yaml")
	rootCmd.AddCommand(whereCmd)
}

// renderRecords prints records as a table with one column per field name
// seen across all records.
func renderRecords(w io.Writer, recs []model.Record) {
	seen := map[string]bool{}
	var names []string
	for _, r := range recs {
		for _, n := range r.Fields.Names() {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"ID", "Created"}
	for _, n := range names {
		header = append(header, n)
	}
	t.AppendHeader(header)

	for _, r := range recs {
		row := table.Row{r.ID, r.CreatedTime.UTC().Format(time.RFC3339)}
		for _, n := range names {
			row = append(row, r.Fields.String(n))
		}
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
