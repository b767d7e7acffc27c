package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	Initialize(ctx context.Context) error
	CurrentBalance(ctx context.Context) (decimal.Decimal, error)
	Append(ctx context.Context, draft Draft) (*Transaction, error)
	History(ctx context.Context) ([]*Transaction, error)

	BeginAppend(ctx context.Context) (AppendTx, error)
}

// AppendTx holds the ledger's write lock. Reading the balance and appending
// through it happens as one unit, so concurrent writers cannot interleave.
type AppendTx interface {
	CurrentBalance(ctx context.Context) (decimal.Decimal, error)
	Append(ctx context.Context, draft Draft) (*Transaction, error)
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type DepositParams struct {
	Date     time.Time // Zero means today
	Location string
	Amount   decimal.Decimal
}

type ChequeParams struct {
	Date         time.Time // Zero means today
	Counterparty string
	Amount       decimal.Decimal
}

func (s *Service) Initialize(ctx context.Context) error {
	return s.repo.Initialize(ctx)
}

func (s *Service) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	return s.repo.CurrentBalance(ctx)
}

func (s *Service) History(ctx context.Context) ([]*Transaction, error) {
	return s.repo.History(ctx)
}

// RecordDeposit adds a cash deposit. A zero amount is accepted and leaves the balance unchanged.
func (s *Service) RecordDeposit(ctx context.Context, params DepositParams) (*Transaction, error) {
	if params.Amount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	if !ValidLocation(params.Location) {
		return nil, ErrInvalidLocation
	}

	amount := Money(params.Amount)
	if amount.GreaterThan(MaxAmount) {
		return nil, ErrAmountTooLarge
	}
	date := s.dateOrToday(params.Date)

	return s.apply(ctx, func(current decimal.Decimal) Draft {
		return Draft{
			Date:     date,
			Kind:     KindDeposit,
			Amount:   amount,
			Balance:  Money(current.Add(amount)),
			Location: params.Location,
		}
	})
}

// RecordChequePayment deducts a passed cheque. The balance may go negative.
func (s *Service) RecordChequePayment(ctx context.Context, params ChequeParams) (*Transaction, error) {
	if params.Amount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	amount := Money(params.Amount)
	if amount.GreaterThan(MaxAmount) {
		return nil, ErrAmountTooLarge
	}

	date := s.dateOrToday(params.Date)
	counterparty := strings.TrimSpace(params.Counterparty)

	return s.apply(ctx, func(current decimal.Decimal) Draft {
		return Draft{
			Date:         date,
			Kind:         KindChequePayment,
			Amount:       amount.Neg(),
			Balance:      Money(current.Sub(amount)),
			Counterparty: counterparty,
		}
	})
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	txs, err := s.repo.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	sum := &Summary{
		Count:          len(txs),
		TotalDeposits:  decimal.Zero,
		TotalCheques:   decimal.Zero,
		CurrentBalance: decimal.Zero,
	}

	for _, tx := range txs {
		switch tx.Kind {
		case KindDeposit:
			sum.TotalDeposits = sum.TotalDeposits.Add(tx.Amount)
		case KindChequePayment:
			sum.TotalCheques = sum.TotalCheques.Sub(tx.Amount)
		}
	}

	if len(txs) > 0 {
		sum.CurrentBalance = txs[len(txs)-1].Balance
	}

	return sum, nil
}

func (s *Service) apply(ctx context.Context, build func(current decimal.Decimal) Draft) (*Transaction, error) {
	atx, err := s.repo.BeginAppend(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin append: %w", err)
	}
	defer atx.Rollback()

	current, err := atx.CurrentBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading balance: %w", err)
	}

	draft := build(current)
	if draft.Balance.Abs().GreaterThan(MaxAmount) {
		return nil, ErrBalanceRange
	}

	tx, err := atx.Append(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("append: %w", err)
	}

	if err := atx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}

	return tx, nil
}

func (s *Service) dateOrToday(d time.Time) time.Time {
	if d.IsZero() {
		d = s.now()
	}

	return DateOnly(d)
}
