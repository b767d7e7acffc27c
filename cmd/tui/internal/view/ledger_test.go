package view

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/dailybalance/internal/ledger"
)

func sampleHistory() []*ledger.Transaction {
	return []*ledger.Transaction{
		{
			ID:       1,
			Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Kind:     ledger.KindDeposit,
			Amount:   decimal.RequireFromString("500"),
			Balance:  decimal.RequireFromString("500"),
			Location: "Gampaha",
		},
		{
			ID:           2,
			Date:         time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Kind:         ledger.KindChequePayment,
			Amount:       decimal.RequireFromString("-200"),
			Balance:      decimal.RequireFromString("300"),
			Counterparty: "Acme Corp",
		},
	}
}

func TestLedgerModel_Load(t *testing.T) {
	m := NewLedgerModel(nil, "LKR")

	updated, cmd := m.Update(loadLedgerMsg{txs: sampleHistory(), balance: decimal.RequireFromString("300")})
	assert.Nil(t, cmd)

	got := updated.(LedgerModel)
	assert.False(t, got.loading)
	assert.Len(t, got.table.Rows(), 2)
	assert.Equal(t, "Cheque Passed (Company: Acme Corp)", got.table.Rows()[1][1])
	assert.Equal(t, "-200.00", got.table.Rows()[1][2])

	view := got.View()
	assert.Contains(t, view, "Current Balance: LKR 300.00")
	assert.Contains(t, view, "Deposit (Gampaha)")
}

func TestLedgerModel_LoadError(t *testing.T) {
	m := NewLedgerModel(nil, "LKR")

	updated, _ := m.Update(loadLedgerMsg{err: errors.New("no such table: transactions")})
	assert.Contains(t, updated.View(), "Error: no such table: transactions")
}

func TestLedgerModel_OpenAndCancelForms(t *testing.T) {
	m := NewLedgerModel(nil, "LKR")
	updated, _ := m.Update(loadLedgerMsg{txs: sampleHistory(), balance: decimal.RequireFromString("300")})

	updated, cmd := updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.NotNil(t, cmd)

	got := updated.(LedgerModel)
	assert.Equal(t, ledgerStateDeposit, got.state)
	require.NotNil(t, got.entry)
	assert.Equal(t, "Gampaha", got.entry.Location)
	assert.Equal(t, time.Now().Format(time.DateOnly), got.entry.Date)
	assert.Contains(t, got.View(), "Cash Deposit")

	updated, cmd = got.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())

	updated, _ = updated.Update(cmd())
	got = updated.(LedgerModel)
	assert.Equal(t, ledgerStateBrowse, got.state)
	assert.Nil(t, got.form)

	updated, _ = got.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	got = updated.(LedgerModel)
	assert.Equal(t, ledgerStateCheque, got.state)
	assert.Contains(t, got.View(), "Pass Cheque")
}

func TestLedgerModel_Saved(t *testing.T) {
	m := NewLedgerModel(nil, "LKR")

	deposit := sampleHistory()[0]
	updated, cmd := m.Update(savedMsg{tx: deposit})
	assert.NotNil(t, cmd)
	assert.Equal(t, "Cash Deposit of 500.00 at Gampaha added.", updated.(LedgerModel).status)

	cheque := sampleHistory()[1]
	updated, _ = m.Update(savedMsg{tx: cheque})
	assert.Equal(t, "Cheque of 200.00 from Acme Corp added.", updated.(LedgerModel).status)

	updated, cmd = m.Update(savedMsg{err: ledger.ErrInvalidLocation})
	assert.Nil(t, cmd)
	assert.Equal(t, "Error: invalid location", updated.(LedgerModel).status)
}

func TestLedgerModel_SubmitRecordsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	atx := ledger.NewMockAppendTx(ctrl)

	// gomock fails the test if a second append is attempted.
	repo.EXPECT().BeginAppend(gomock.Any()).Return(atx, nil)
	atx.EXPECT().CurrentBalance(gomock.Any()).Return(decimal.RequireFromString("300"), nil)
	atx.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d ledger.Draft) (*ledger.Transaction, error) {
			return d.Materialize(3), nil
		})
	atx.EXPECT().Commit().Return(nil)
	atx.EXPECT().Rollback().Return(nil)

	m := NewLedgerModel(ledger.NewService(repo), "LKR")
	updated, _ := m.Update(loadLedgerMsg{txs: sampleHistory(), balance: decimal.RequireFromString("300")})
	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})

	got := updated.(LedgerModel)
	got.entry.Amount = "100"
	got.form.State = huh.StateCompleted

	updated, save := got.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, save)

	got = updated.(LedgerModel)
	assert.Equal(t, ledgerStateSaving, got.state)
	assert.Contains(t, got.View(), "Recording transaction...")

	for _, msg := range []tea.Msg{
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")},
		tea.KeyMsg{Type: tea.KeyEsc},
	} {
		next, cmd := updated.Update(msg)
		assert.Nil(t, cmd)
		assert.Equal(t, ledgerStateSaving, next.(LedgerModel).state)
	}

	saved, ok := save().(savedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)
	assert.Equal(t, "400.00", saved.tx.Balance.StringFixed(2))

	updated, _ = updated.Update(saved)
	got = updated.(LedgerModel)
	assert.Equal(t, ledgerStateBrowse, got.state)
	assert.Equal(t, "Cash Deposit of 100.00 at Gampaha added.", got.status)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "500", want: "500.00"},
		{in: " 12.5 ", want: "12.50"},
		{in: "0", want: "0.00"},
		{in: "-1", wantErr: true},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "12345678901234567.89", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, validateDate("2024-01-31"))
	assert.Error(t, validateDate("2024-02-30"))
	assert.Error(t, validateDate("31/01/2024"))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "300.00", FormatAmount(decimal.RequireFromString("300")))
	assert.Equal(t, "-200.50", FormatAmount(decimal.RequireFromString("-200.5")))
	assert.Equal(t, "1,234,567.89", FormatAmount(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "LKR 0.00", FormatMoney("LKR", decimal.Zero))
}
