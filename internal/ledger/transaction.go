package ledger

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Kind represents the kind of ledger transaction (deposit or cheque payment).
type Kind string

const (
	KindDeposit       Kind = "deposit"
	KindChequePayment Kind = "cheque"
)

// Locations lists the branches a cash deposit can be made at.
var Locations = []string{"Gampaha", "Nittambuwa"}

// ValidLocation reports whether loc is one of Locations.
func ValidLocation(loc string) bool {
	return slices.Contains(Locations, loc)
}

// Transaction is a persisted ledger entry. Balance is the running total
// immediately after the entry was applied.
type Transaction struct {
	ID           int64
	Date         time.Time
	Kind         Kind
	Amount       decimal.Decimal // Signed: negative for cheque payments
	Balance      decimal.Decimal
	Location     string // Deposits only
	Counterparty string // Cheque payments only
}

// Label renders the display string stored in the type column.
func (t *Transaction) Label() string {
	return label(t.Kind, t.Location, t.Counterparty)
}

// Draft is a transaction that has not been assigned an ID yet.
type Draft struct {
	Date         time.Time
	Kind         Kind
	Amount       decimal.Decimal
	Balance      decimal.Decimal
	Location     string
	Counterparty string
}

func (d Draft) Label() string {
	return label(d.Kind, d.Location, d.Counterparty)
}

// Materialize returns the transaction the draft becomes once stored under id.
func (d Draft) Materialize(id int64) *Transaction {
	return &Transaction{
		ID:           id,
		Date:         d.Date,
		Kind:         d.Kind,
		Amount:       d.Amount,
		Balance:      d.Balance,
		Location:     d.Location,
		Counterparty: d.Counterparty,
	}
}

func label(kind Kind, location, counterparty string) string {
	if kind == KindDeposit {
		return fmt.Sprintf("Deposit (%s)", location)
	}

	return fmt.Sprintf("Cheque Passed (Company: %s)", counterparty)
}

// Summary aggregates the ledger history.
type Summary struct {
	Count          int
	TotalDeposits  decimal.Decimal
	TotalCheques   decimal.Decimal // Sum of magnitudes, non-negative
	CurrentBalance decimal.Decimal
}

// MaxAmount is the largest magnitude an amount or balance may hold. It matches the
// NUMERIC(14,2) columns and stays exact through SQLite's REAL storage.
var MaxAmount = decimal.RequireFromString("999999999999.99")

// Money normalises an amount to two decimal places.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// DateOnly truncates t to a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
