// Package cmd provides the ledger command-line interface.
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/dailybalance/internal/config"
	"github.com/MrJamesThe3rd/dailybalance/internal/database"
	"github.com/MrJamesThe3rd/dailybalance/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/dailybalance/internal/ledger/store"
)

// app carries what every subcommand needs once the root pre-run has opened the ledger.
type app struct {
	envFile string
	debug   bool

	cfg    *config.Config
	db     *sql.DB
	svc    *ledger.Service
	closed bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ledger",
		Short: "Record cash deposits and cheque payments against a running balance",
		Long: `ledger records cash deposits and passed cheques in an append-only
transactions table, keeping a running balance on every row.

Example:
  ledger deposit --location Gampaha --amount 500
  ledger cheque --company "Acme Corp" --amount 200 --date 2024-01-02
  ledger history -o yaml
  ledger export --from 2024-01-01 -f january.csv`,
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env", "", "env file to load (default is .env)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newInitCmd(a),
		newBalanceCmd(a),
		newDepositCmd(a),
		newChequeCmd(a),
		newHistoryCmd(a),
		newExportCmd(a),
	)

	// Cobra skips the post-run hooks when RunE fails, so failing commands close the ledger themselves.
	for _, c := range root.Commands() {
		if c.RunE != nil {
			c.RunE = a.closeOnError(c.RunE)
		}
	}

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	logLevel := slog.LevelInfo
	if a.debug {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil {
			return fmt.Errorf("loading %s: %w", a.envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if !a.debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()})))
	}

	if cfg.DB.Driver == database.DriverSQLite {
		if err := database.EnsureDir(cfg.DB.Path); err != nil {
			return err
		}
	}

	db, err := database.New(cfg.DB.Driver, cfg.ConnectionString())
	if err != nil {
		return err
	}

	svc := ledger.NewService(ledgerStore.New(db, cfg.DB.Driver))
	if err := svc.Initialize(cmd.Context()); err != nil {
		db.Close()
		return err
	}

	slog.Debug("ledger opened", "driver", cfg.DB.Driver, "path", cfg.DB.Path)

	a.cfg, a.db, a.svc = cfg, db, svc

	return nil
}

func (a *app) closeOnError(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if err != nil {
			if cerr := a.close(); cerr != nil {
				slog.Error("failed to close ledger", "error", cerr)
			}
		}

		return err
	}
}

func (a *app) close() error {
	if a.db == nil || a.closed {
		return nil
	}

	a.closed = true

	return a.db.Close()
}

func (a *app) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
