package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dbTimeout = 5 * time.Second

var printer = message.NewPrinter(language.English)

// FormatAmount formats an amount with thousands separators and two decimals.
func FormatAmount(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// FormatMoney prefixes FormatAmount with a currency code.
func FormatMoney(currency string, d decimal.Decimal) string {
	return currency + " " + FormatAmount(d)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
