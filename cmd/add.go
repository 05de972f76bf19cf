package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/leads-cli/internal/intake"
)

var addTable string

var addCmd = &cobra.Command{
	Use:   "add <line>",
	Short: "Parse one lead line and create it as a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		tbl, closeFn, err := openTable(ctx, addTable)
		if err != nil {
			return err
		}
		defer closeFn()

		rec, err := intake.NewProcessor(tbl).Process(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addTable, "table", "", "collection to write to (default: intake.table)")
	rootCmd.AddCommand(addCmd)
}
