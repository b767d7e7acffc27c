package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/dailybalance/internal/ledger"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the transactions table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The root pre-run already initialised the schema.
			fmt.Fprintf(cmd.OutOrStdout(), "Ledger ready (%s).\n", a.cfg.DB.Driver)
			return nil
		},
	}
}

func newBalanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the current balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			balance, err := a.svc.CurrentBalance(a.ctx(cmd))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Current Balance: %s%s\n", a.cfg.App.Currency, balance.StringFixed(2))

			return nil
		},
	}
}

func newDepositCmd(a *app) *cobra.Command {
	var date, location, amount string

	c := &cobra.Command{
		Use:   "deposit",
		Short: "Record a cash deposit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, amt, err := parseEntry(date, amount)
			if err != nil {
				return err
			}

			tx, err := a.svc.RecordDeposit(a.ctx(cmd), ledger.DepositParams{
				Date:     d,
				Location: location,
				Amount:   amt,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cash Deposit of %s at %s added. Balance: %s\n",
				tx.Amount.StringFixed(2), tx.Location, tx.Balance.StringFixed(2))

			return nil
		},
	}

	c.Flags().StringVar(&date, "date", "", "transaction date YYYY-MM-DD (default today)")
	c.Flags().StringVar(&location, "location", "", fmt.Sprintf("deposit location %v", ledger.Locations))
	c.Flags().StringVar(&amount, "amount", "", "deposit amount")
	_ = c.MarkFlagRequired("location")
	_ = c.MarkFlagRequired("amount")

	return c
}

func newChequeCmd(a *app) *cobra.Command {
	var date, company, amount string

	c := &cobra.Command{
		Use:   "cheque",
		Short: "Record a passed cheque",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, amt, err := parseEntry(date, amount)
			if err != nil {
				return err
			}

			tx, err := a.svc.RecordChequePayment(a.ctx(cmd), ledger.ChequeParams{
				Date:         d,
				Counterparty: company,
				Amount:       amt,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cheque of %s from %s added. Balance: %s\n",
				tx.Amount.Neg().StringFixed(2), tx.Counterparty, tx.Balance.StringFixed(2))

			return nil
		},
	}

	c.Flags().StringVar(&date, "date", "", "transaction date YYYY-MM-DD (default today)")
	c.Flags().StringVar(&company, "company", "", "company name on the cheque")
	c.Flags().StringVar(&amount, "amount", "", "cheque amount")
	_ = c.MarkFlagRequired("amount")

	return c
}

// parseEntry parses the shared --date and --amount flags. An empty date means today.
func parseEntry(date, amount string) (time.Time, decimal.Decimal, error) {
	var d time.Time

	if date != "" {
		parsed, err := time.Parse(time.DateOnly, date)
		if err != nil {
			return time.Time{}, decimal.Zero, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
		}

		d = parsed
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return time.Time{}, decimal.Zero, fmt.Errorf("invalid --amount %q", amount)
	}

	return d, amt, nil
}
