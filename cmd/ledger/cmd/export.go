package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/dailybalance/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		start, end string
		outFile    string
		statement  bool
	)

	c := &cobra.Command{
		Use:   "export",
		Short: "Export the history as CSV or a plain-text statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := parseRange(start, end)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()

			if outFile != "" {
				f, err := os.Create(outFile)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outFile, err)
				}
				defer f.Close()

				w = f
			}

			svc := export.NewService(a.svc)

			if statement {
				txs, err := svc.Transactions(a.ctx(cmd), r)
				if err != nil {
					return err
				}

				_, err = io.WriteString(w, export.Statement(txs, a.cfg.App.Currency))

				return err
			}

			return svc.WriteCSV(a.ctx(cmd), r, w)
		},
	}

	c.Flags().StringVar(&start, "from", "", "first date to include (YYYY-MM-DD)")
	c.Flags().StringVar(&end, "to", "", "last date to include (YYYY-MM-DD)")
	c.Flags().StringVarP(&outFile, "file", "f", "", "write to a file instead of stdout")
	c.Flags().BoolVar(&statement, "statement", false, "write a plain-text statement instead of CSV")

	return c
}

func parseRange(start, end string) (export.Range, error) {
	var r export.Range

	if start != "" {
		t, err := time.Parse(time.DateOnly, start)
		if err != nil {
			return r, fmt.Errorf("invalid --from %q: use YYYY-MM-DD", start)
		}

		r.Start = &t
	}

	if end != "" {
		t, err := time.Parse(time.DateOnly, end)
		if err != nil {
			return r, fmt.Errorf("invalid --to %q: use YYYY-MM-DD", end)
		}

		r.End = &t
	}

	return r, nil
}
