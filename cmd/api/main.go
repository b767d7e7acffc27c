package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/dailybalance/internal/config"
	"github.com/MrJamesThe3rd/dailybalance/internal/database"
	"github.com/MrJamesThe3rd/dailybalance/internal/export"
	dailyHttp "github.com/MrJamesThe3rd/dailybalance/internal/http"
	exportHandler "github.com/MrJamesThe3rd/dailybalance/internal/http/export"
	ledgerHandler "github.com/MrJamesThe3rd/dailybalance/internal/http/ledger"
	"github.com/MrJamesThe3rd/dailybalance/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/dailybalance/internal/ledger/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()})))

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
	defer db.Close()

	ledgerService := ledger.NewService(ledgerStore.New(db, cfg.DB.Driver))
	if err := ledgerService.Initialize(context.Background()); err != nil {
		slog.Error("failed to initialize ledger", "error", err)
		os.Exit(1)
	}

	exportService := export.NewService(ledgerService)

	router := dailyHttp.New(
		ledgerHandler.NewHandler(ledgerService, cfg.App.Currency),
		exportHandler.NewHandler(exportService, cfg.App.Currency),
		dailyHttp.Options{
			AllowedOrigins: cfg.Server.CORSOrigins,
			Timeout:        cfg.Server.Timeout,
		},
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port, "driver", cfg.DB.Driver)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
