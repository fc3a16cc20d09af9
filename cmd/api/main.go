package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/lobofinance/lobo/internal/catalog"
	catalogStore "github.com/lobofinance/lobo/internal/catalog/store"
	"github.com/lobofinance/lobo/internal/company"
	companyStore "github.com/lobofinance/lobo/internal/company/store"
	"github.com/lobofinance/lobo/internal/config"
	"github.com/lobofinance/lobo/internal/dashboard"
	"github.com/lobofinance/lobo/internal/database"
	loboHttp "github.com/lobofinance/lobo/internal/http"
	catalogHandler "github.com/lobofinance/lobo/internal/http/catalog"
	companyHandler "github.com/lobofinance/lobo/internal/http/company"
	dashboardHandler "github.com/lobofinance/lobo/internal/http/dashboard"
	importHandler "github.com/lobofinance/lobo/internal/http/importcsv"
	reportHandler "github.com/lobofinance/lobo/internal/http/report"
	txHandler "github.com/lobofinance/lobo/internal/http/transaction"
	"github.com/lobofinance/lobo/internal/importer"
	"github.com/lobofinance/lobo/internal/report"
	"github.com/lobofinance/lobo/internal/transaction"
	txStore "github.com/lobofinance/lobo/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.Level})))

	if cfg.Auth.JWTSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, database.Up); err != nil {
			return err
		}
	}

	var (
		transactionService = transaction.NewService(txStore.New(db))
		catalogService     = catalog.NewService(catalogStore.New(db))
		companyService     = company.NewService(companyStore.New(db), catalogService)
		dashboardService   = dashboard.NewService(transactionService, catalogService)
		importService      = importer.NewService(catalogService, transactionService)
		reportService      = report.NewService(transactionService, catalogService)
	)

	router := loboHttp.New(
		loboHttp.Options{
			JWTSecret:      []byte(cfg.Auth.JWTSecret),
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Timeout:        cfg.Server.Timeout,
			Companies:      companyService,
		},
		loboHttp.Handlers{
			Companies:    companyHandler.NewHandler(companyService),
			Catalogs:     catalogHandler.NewHandler(catalogService),
			Transactions: txHandler.NewHandler(transactionService),
			Dashboard:    dashboardHandler.NewHandler(dashboardService),
			Import:       importHandler.NewHandler(importService),
			Reports:      reportHandler.NewHandler(reportService),
		},
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
