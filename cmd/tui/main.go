package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/dailybalance/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/dailybalance/internal/config"
	"github.com/MrJamesThe3rd/dailybalance/internal/database"
	"github.com/MrJamesThe3rd/dailybalance/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/dailybalance/internal/ledger/store"
)

func initialModel() view.LedgerModel {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.DB.Driver == database.DriverSQLite {
		if err := database.EnsureDir(cfg.DB.Path); err != nil {
			slog.Error("failed to prepare database directory", "error", err)
			os.Exit(1)
		}
	}

	db, err := database.New(cfg.DB.Driver, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	svc := ledger.NewService(ledgerStore.New(db, cfg.DB.Driver))
	if err := svc.Initialize(context.Background()); err != nil {
		slog.Error("failed to initialize ledger", "error", err)
		os.Exit(1)
	}

	return view.NewLedgerModel(svc, cfg.App.Currency)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
