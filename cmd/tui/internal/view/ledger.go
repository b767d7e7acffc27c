package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dailybalance/internal/ledger"
)

type ledgerState int

const (
	ledgerStateBrowse ledgerState = iota
	ledgerStateDeposit
	ledgerStateCheque
	ledgerStateSaving
)

// entryForm holds the huh field bindings. It lives behind a pointer so the
// bindings survive the model being copied on every Update.
type entryForm struct {
	Date     string
	Location string
	Company  string
	Amount   string
}

type LedgerModel struct {
	CommonModel
	svc      *ledger.Service
	currency string

	state ledgerState
	table table.Model
	form  *huh.Form
	entry *entryForm

	txs     []*ledger.Transaction
	balance decimal.Decimal
	loading bool
	err     error
	status  string
}

func NewLedgerModel(svc *ledger.Service, currency string) LedgerModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 40},
		{Title: "Amount", Width: 14},
		{Title: "Balance", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return LedgerModel{
		svc:      svc,
		currency: currency,
		table:    t,
		loading:  true,
	}
}

func (m LedgerModel) Title() string { return "Daily Account Balance Tracker" }

func (m LedgerModel) ShortHelp() string {
	switch m.state {
	case ledgerStateSaving:
		return "Saving..."
	case ledgerStateDeposit, ledgerStateCheque:
		return "Navigate form | Esc: cancel"
	}

	return "d: cash deposit | c: pass cheque | r: refresh | q: quit"
}

func (m LedgerModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadLedgerMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.txs = msg.txs
		m.balance = msg.balance
		m.refreshTable()

		return m, nil

	case savedMsg:
		m.state = ledgerStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = m.savedStatus(msg.tx)

		return m, m.loadCmd()

	case BackMsg:
		m.state = ledgerStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-14, 5))

		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.state {
	case ledgerStateBrowse:
		return m.updateBrowse(msg)
	case ledgerStateDeposit, ledgerStateCheque:
		return m.updateForm(msg)
	case ledgerStateSaving:
		return m, nil
	}

	return m, nil
}

func (m LedgerModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "d":
			return m.openDepositForm()
		case "c":
			return m.openChequeForm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m LedgerModel) openDepositForm() (tea.Model, tea.Cmd) {
	m.entry = &entryForm{Date: FormatDate(time.Now()), Location: ledger.Locations[0]}

	options := make([]huh.Option[string], len(ledger.Locations))
	for i, loc := range ledger.Locations {
		options[i] = huh.NewOption(loc, loc)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("Transaction Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.entry.Date).
				Validate(validateDate),

			huh.NewSelect[string]().
				Key("location").
				Title("Deposit Location").
				Options(options...).
				Value(&m.entry.Location),

			huh.NewInput().
				Key("amount").
				Title("Deposit Amount").
				Placeholder("0.00").
				Value(&m.entry.Amount).
				Validate(validateAmount),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ledgerStateDeposit
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m LedgerModel) openChequeForm() (tea.Model, tea.Cmd) {
	m.entry = &entryForm{Date: FormatDate(time.Now())}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("Transaction Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.entry.Date).
				Validate(validateDate),

			huh.NewInput().
				Key("company").
				Title("Company Name on Cheque").
				Value(&m.entry.Company),

			huh.NewInput().
				Key("amount").
				Title("Cheque Amount").
				Placeholder("0.00").
				Value(&m.entry.Amount).
				Validate(validateAmount),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ledgerStateCheque
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m LedgerModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	// Leave the form states before the save runs so later input cannot submit again.
	save := m.saveCmd()
	m.state = ledgerStateSaving

	return m, save
}

func (m LedgerModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render(m.Title())
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Render("Current Balance: " + FormatMoney(m.currency, m.balance))

	var body string

	switch {
	case m.loading:
		body = "Loading transactions..."
	case m.err != nil:
		body = fmt.Sprintf("Error: %v", m.err)
	default:
		body = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View())
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		header,
		"",
		"Transaction History",
		body,
	)

	if m.state != ledgerStateBrowse && m.form != nil {
		heading := "Cash Deposit"
		if m.state == ledgerStateCheque {
			heading = "Pass Cheque"
		}

		body := m.form.View()
		if m.state == ledgerStateSaving {
			heading, body = "Saving", "Recording transaction..."
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(heading + "\n\n" + body)

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	footer := lipgloss.NewStyle().Faint(true).Render(m.ShortHelp())
	if m.status != "" {
		footer = m.status + "\n" + footer
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + footer)
}

func (m LedgerModel) savedStatus(tx *ledger.Transaction) string {
	if tx.Kind == ledger.KindDeposit {
		return fmt.Sprintf("Cash Deposit of %s at %s added.", FormatAmount(tx.Amount), tx.Location)
	}

	return fmt.Sprintf("Cheque of %s from %s added.", FormatAmount(tx.Amount.Neg()), tx.Counterparty)
}

func (m *LedgerModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			tx.Label(),
			FormatAmount(tx.Amount),
			FormatAmount(tx.Balance),
		})
	}

	m.table.SetRows(rows)
}

func validateDate(s string) error {
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}

	return nil
}

func validateAmount(s string) error {
	_, err := parseAmount(s)
	return err
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount must be a number")
	}

	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must be non-negative")
	}

	if ledger.Money(d).GreaterThan(ledger.MaxAmount) {
		return decimal.Zero, ledger.ErrAmountTooLarge
	}

	return d, nil
}

// Messages

type loadLedgerMsg struct {
	txs     []*ledger.Transaction
	balance decimal.Decimal
	err     error
}

func (m LedgerModel) loadCmd() tea.Cmd {
	svc := m.svc

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := svc.History(ctx)
		if err != nil {
			return loadLedgerMsg{err: err}
		}

		balance, err := svc.CurrentBalance(ctx)

		return loadLedgerMsg{txs: txs, balance: balance, err: err}
	}
}

type savedMsg struct {
	tx  *ledger.Transaction
	err error
}

func (m LedgerModel) saveCmd() tea.Cmd {
	svc := m.svc
	state := m.state
	entry := *m.entry

	return func() tea.Msg {
		date, err := time.Parse(time.DateOnly, strings.TrimSpace(entry.Date))
		if err != nil {
			return savedMsg{err: err}
		}

		amount, err := parseAmount(entry.Amount)
		if err != nil {
			return savedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		var tx *ledger.Transaction

		if state == ledgerStateDeposit {
			tx, err = svc.RecordDeposit(ctx, ledger.DepositParams{
				Date:     date,
				Location: entry.Location,
				Amount:   amount,
			})
		} else {
			tx, err = svc.RecordChequePayment(ctx, ledger.ChequeParams{
				Date:         date,
				Counterparty: entry.Company,
				Amount:       amount,
			})
		}

		return savedMsg{tx: tx, err: err}
	}
}
