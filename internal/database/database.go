package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Driver is a database/sql driver name.
type Driver string

const (
	DriverPostgres Driver = "pgx"
	DriverSQLite   Driver = "sqlite3"
)

// SQLiteDSN builds a DSN for a ledger file. Writes are synced before commit returns,
// and transactions take the write lock up front (BEGIN IMMEDIATE).
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=FULL&_txlock=immediate&_busy_timeout=5000", path)
}

func New(driver Driver, connStr string) (*sql.DB, error) {
	db, err := sql.Open(string(driver), connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	switch driver {
	case DriverSQLite:
		// Single writer; one connection keeps BEGIN IMMEDIATE from contending with itself.
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	return db, nil
}

// EnsureDir creates the parent directory of a SQLite ledger file.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	return nil
}
