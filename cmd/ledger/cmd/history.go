package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MrJamesThe3rd/dailybalance/internal/ledger"
)

type record struct {
	ID          int64  `json:"id" yaml:"id"`
	Date        string `json:"date" yaml:"date"`
	Type        string `json:"type" yaml:"type"`
	Amount      string `json:"amount" yaml:"amount"`
	Balance     string `json:"balance" yaml:"balance"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
	CompanyName string `json:"company_name,omitempty" yaml:"company_name,omitempty"`
}

func toRecords(txs []*ledger.Transaction) []record {
	out := make([]record, len(txs))
	for i, tx := range txs {
		out[i] = record{
			ID:          tx.ID,
			Date:        tx.Date.Format(time.DateOnly),
			Type:        tx.Label(),
			Amount:      tx.Amount.StringFixed(2),
			Balance:     tx.Balance.StringFixed(2),
			Location:    tx.Location,
			CompanyName: tx.Counterparty,
		}
	}

	return out
}

func newHistoryCmd(a *app) *cobra.Command {
	var output string

	c := &cobra.Command{
		Use:   "history",
		Short: "Show every transaction in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, err := a.svc.History(a.ctx(cmd))
			if err != nil {
				return err
			}

			return writeHistory(cmd.OutOrStdout(), output, toRecords(txs))
		},
	}

	c.Flags().StringVarP(&output, "output", "o", "table", "output format: table, yaml or json")

	return c
}

func writeHistory(w io.Writer, format string, records []record) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}

		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(records)
	case "table":
		if len(records) == 0 {
			_, err := fmt.Fprintln(w, "No transactions recorded.")
			return err
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Date", "Type", "Amount", "Balance")

		for _, r := range records {
			t.Row(r.Date, r.Type, r.Amount, r.Balance)
		}

		_, err := fmt.Fprintln(w, t.Render())

		return err
	}

	return fmt.Errorf("unknown output format %q", format)
}
