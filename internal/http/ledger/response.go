package ledger

import (
	"time"

	"github.com/MrJamesThe3rd/dailybalance/internal/ledger"
)

type transactionResponse struct {
	ID          int64       `json:"id"`
	Date        string      `json:"date"`
	Type        string      `json:"type"`
	Kind        ledger.Kind `json:"kind"`
	Amount      string      `json:"amount"`
	Balance     string      `json:"balance"`
	Location    string      `json:"location,omitempty"`
	CompanyName string      `json:"company_name,omitempty"`
}

type balanceResponse struct {
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

type summaryResponse struct {
	Count          int    `json:"count"`
	TotalDeposits  string `json:"total_deposits"`
	TotalCheques   string `json:"total_cheques"`
	CurrentBalance string `json:"current_balance"`
	Currency       string `json:"currency"`
}

func toResponse(tx *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Date:        tx.Date.Format(time.DateOnly),
		Type:        tx.Label(),
		Kind:        tx.Kind,
		Amount:      tx.Amount.StringFixed(2),
		Balance:     tx.Balance.StringFixed(2),
		Location:    tx.Location,
		CompanyName: tx.Counterparty,
	}
}

func toResponseList(txs []*ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

func toSummaryResponse(sum *ledger.Summary, currency string) summaryResponse {
	return summaryResponse{
		Count:          sum.Count,
		TotalDeposits:  sum.TotalDeposits.StringFixed(2),
		TotalCheques:   sum.TotalCheques.StringFixed(2),
		CurrentBalance: sum.CurrentBalance.StringFixed(2),
		Currency:       currency,
	}
}
