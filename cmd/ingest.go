package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leads-cli/internal/intake"
	"github.com/sells-group/leads-cli/internal/resilience"
)

var (
	ingestFile        string
	ingestTable       string
	ingestConcurrency int
	ingestDeadLetter  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Create a record for every lead line in a file or stdin",
	Long:  "Reads lead lines from --file (or stdin with \"-\"), skipping blank lines and # comments. Unparseable lines are reported and skipped; the command fails if the store rejected any record.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		var r io.Reader
		if ingestFile == "" || ingestFile == "-" {
			r = cmd.InOrStdin()
		} else {
			f, err := os.Open(ingestFile)
			if err != nil {
				return eris.Wrap(err, "ingest: open file")
			}
			defer f.Close() //nolint:errcheck
			r = f
		}

		concurrency := ingestConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Intake.Concurrency
		}

		tbl, closeFn, err := openTable(ctx, ingestTable)
		if err != nil {
			return err
		}
		defer closeFn()

		var opts []intake.Option
		if ingestDeadLetter != "" {
			f, err := os.OpenFile(ingestDeadLetter, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return eris.Wrap(err, "ingest: open dead letter file")
			}
			defer f.Close() //nolint:errcheck
			opts = append(opts, intake.WithDeadLetter(resilience.NewDeadLetterWriter(f)))
		}

		sum, err := intake.NewProcessor(tbl, opts...).ProcessAll(ctx, r, concurrency)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created=%d rejected=%d failed=%d\n", sum.Created, sum.Rejected, sum.Failed)
		if sum.Failed > 0 {
			return eris.Errorf("ingest: %d of %d lines failed to store", sum.Failed, sum.Total())
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "-", "file of lead lines (\"-\" for stdin)")
	ingestCmd.Flags().StringVar(&ingestTable, "table", "", "collection to write to (default: intake.table)")
	ingestCmd.Flags().StringVar(&ingestDeadLetter, "dead-letter", "", "append lines that were not stored to this JSON-lines file")
	ingestCmd.Flags().IntVar(&ingestConcurrency, "concurrency", 0, "max lines in flight (default: intake.concurrency)")
	rootCmd.AddCommand(ingestCmd)
}
