package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dailybalance/internal/database"
	"github.com/MrJamesThe3rd/dailybalance/internal/ledger"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL,                -- YYYY-MM-DD
    type TEXT NOT NULL,                -- display label
    amount REAL NOT NULL,              -- signed
    balance REAL NOT NULL,             -- running total after this row
    location TEXT,
    company_name TEXT
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    date TEXT NOT NULL,
    type TEXT NOT NULL,
    amount NUMERIC(14, 2) NOT NULL,
    balance NUMERIC(14, 2) NOT NULL,
    location TEXT,
    company_name TEXT
);
`

// appendLockKey is the advisory lock serialising appends on Postgres.
const appendLockKey int64 = 0x6c6564676572

type Store struct {
	db     *sql.DB
	driver database.Driver
}

func New(db *sql.DB, driver database.Driver) *Store {
	return &Store{db: db, driver: driver}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `id, date, amount, balance, location, company_name`

// scanTransaction reads a row in selectTransactionColumns order. The kind is
// derived from which of location / company_name is set.
func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var tx ledger.Transaction

	var date string

	var location, company sql.NullString

	if err := s.Scan(&tx.ID, &date, &tx.Amount, &tx.Balance, &location, &company); err != nil {
		return nil, err
	}

	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", date, err)
	}

	tx.Date = d
	tx.Amount = ledger.Money(tx.Amount)
	tx.Balance = ledger.Money(tx.Balance)

	if location.Valid {
		tx.Kind = ledger.KindDeposit
		tx.Location = location.String
	} else {
		tx.Kind = ledger.KindChequePayment
		tx.Counterparty = company.String
	}

	return &tx, nil
}

// bind rewrites ? placeholders to $n for Postgres.
func (s *Store) bind(query string) string {
	if s.driver != database.DriverPostgres {
		return query
	}

	var b strings.Builder

	n := 0

	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}

		n++
		b.WriteString("$" + strconv.Itoa(n))
	}

	return b.String()
}

func (s *Store) Initialize(ctx context.Context) error {
	schema := sqliteSchema
	if s.driver == database.DriverPostgres {
		schema = postgresSchema
	}

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return &ledger.PersistenceError{Op: "initializing schema", Err: err}
	}

	return nil
}

func (s *Store) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	return s.currentBalance(ctx, s.db)
}

func (s *Store) currentBalance(ctx context.Context, q querier) (decimal.Decimal, error) {
	var balance decimal.Decimal

	err := q.QueryRowContext(ctx, `SELECT balance FROM transactions ORDER BY id DESC LIMIT 1`).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}

		return decimal.Zero, &ledger.PersistenceError{Op: "reading current balance", Err: err}
	}

	return ledger.Money(balance), nil
}

// Append inserts a single draft in its own transaction. Callers deriving the
// balance from the current one should use BeginAppend instead.
func (s *Store) Append(ctx context.Context, draft ledger.Draft) (*ledger.Transaction, error) {
	atx, err := s.BeginAppend(ctx)
	if err != nil {
		return nil, err
	}
	defer atx.Rollback()

	tx, err := atx.Append(ctx, draft)
	if err != nil {
		return nil, err
	}

	if err := atx.Commit(); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Store) append(ctx context.Context, q querier, draft ledger.Draft) (*ledger.Transaction, error) {
	query := s.bind(`
		INSERT INTO transactions (date, type, amount, balance, location, company_name)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	var location, company sql.NullString
	if draft.Kind == ledger.KindDeposit {
		location = sql.NullString{String: draft.Location, Valid: true}
	} else {
		company = sql.NullString{String: draft.Counterparty, Valid: true}
	}

	var id int64

	err := q.QueryRowContext(ctx, query,
		draft.Date.Format(time.DateOnly),
		draft.Label(),
		draft.Amount.StringFixed(2),
		draft.Balance.StringFixed(2),
		location,
		company,
	).Scan(&id)
	if err != nil {
		return nil, &ledger.PersistenceError{Op: "appending transaction", Err: err}
	}

	return draft.Materialize(id), nil
}

func (s *Store) History(ctx context.Context) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &ledger.PersistenceError{Op: "listing transactions", Err: err}
	}
	defer rows.Close()

	txs := []*ledger.Transaction{}

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, &ledger.PersistenceError{Op: "scanning transaction", Err: err}
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, &ledger.PersistenceError{Op: "iterating transactions", Err: err}
	}

	return txs, nil
}

type appendTx struct {
	store *Store
	tx    *sql.Tx
}

// BeginAppend opens a write transaction holding the ledger's append lock.
func (s *Store) BeginAppend(ctx context.Context) (ledger.AppendTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &ledger.PersistenceError{Op: "beginning append", Err: err}
	}

	if s.driver == database.DriverPostgres {
		if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", appendLockKey); err != nil {
			dbTx.Rollback()
			return nil, &ledger.PersistenceError{Op: "acquiring append lock", Err: err}
		}
	}

	return &appendTx{store: s, tx: dbTx}, nil
}

func (a *appendTx) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	return a.store.currentBalance(ctx, a.tx)
}

func (a *appendTx) Append(ctx context.Context, draft ledger.Draft) (*ledger.Transaction, error) {
	return a.store.append(ctx, a.tx, draft)
}

func (a *appendTx) Commit() error {
	if err := a.tx.Commit(); err != nil {
		return &ledger.PersistenceError{Op: "committing append", Err: err}
	}

	return nil
}

// Rollback is a no-op after a successful Commit.
func (a *appendTx) Rollback() error {
	err := a.tx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return &ledger.PersistenceError{Op: "rolling back append", Err: err}
	}

	return nil
}
