package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/dailybalance/internal/ledger"
)

// Header is the column layout of the CSV export, matching the history view.
var Header = []string{"id", "date", "type", "amount", "balance"}

// Range restricts an export to transactions dated within [Start, End]. Nil bounds are open.
type Range struct {
	Start *time.Time
	End   *time.Time
}

func (r Range) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(ledger.DateOnly(*r.Start)) {
		return false
	}

	if r.End != nil && t.After(ledger.DateOnly(*r.End)) {
		return false
	}

	return true
}

// Service exports the ledger history.
type Service struct {
	ledger *ledger.Service
}

// NewService creates a new export Service.
func NewService(ledgerService *ledger.Service) *Service {
	return &Service{ledger: ledgerService}
}

// Transactions returns the history filtered by r, still in insertion order.
func (s *Service) Transactions(ctx context.Context, r Range) ([]*ledger.Transaction, error) {
	txs, err := s.ledger.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	// Pre-allocate to avoid reallocations.
	out := make([]*ledger.Transaction, 0, len(txs))

	for _, tx := range txs {
		if r.Contains(tx.Date) {
			out = append(out, tx)
		}
	}

	return out, nil
}

// WriteCSV writes the filtered history as CSV with a header row.
func (s *Service) WriteCSV(ctx context.Context, r Range, w io.Writer) error {
	txs, err := s.Transactions(ctx, r)
	if err != nil {
		return err
	}

	return EncodeCSV(w, txs)
}

// EncodeCSV writes txs as CSV with a header row.
func EncodeCSV(w io.Writer, txs []*ledger.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		row := []string{
			fmt.Sprintf("%d", tx.ID),
			tx.Date.Format(time.DateOnly),
			tx.Label(),
			tx.Amount.StringFixed(2),
			tx.Balance.StringFixed(2),
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing transaction %d: %w", tx.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// Statement renders a plain-text statement, one line per transaction.
func Statement(txs []*ledger.Transaction, currency string) string {
	var sb strings.Builder

	for _, tx := range txs {
		sign := ""
		if tx.Kind == ledger.KindDeposit {
			sign = "+"
		}

		sb.WriteString(fmt.Sprintf("* %s | %s | %s%s %s | Balance %s\n",
			tx.Date.Format(time.DateOnly), tx.Label(), sign, tx.Amount.StringFixed(2), currency, tx.Balance.StringFixed(2)))
	}

	return sb.String()
}
