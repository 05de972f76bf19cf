package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/leads-cli/internal/lineparse"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse <line>",
	Short: "Parse a lead line and print its fields without storing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lead, err := lineparse.Parse(args[0])
		if err != nil {
			return err
		}
		return writeFormatted(cmd.OutOrStdout(), parseFormat, lead)
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", formatJSON, "output format: json or yaml")
	rootCmd.AddCommand(parseCmd)
}
