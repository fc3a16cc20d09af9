package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lobofinance/lobo/internal/config"
	"github.com/lobofinance/lobo/internal/database"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lobo",
	Short: "Administer the Lobo bookkeeping database",
	Long: `Lobo is the admin tool for the Lobo bookkeeping service. It applies
schema migrations and checks or loads CSV spreadsheets of transactions.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd, importCmd)
}

func openDB(ctx context.Context) (*sql.DB, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	return database.New(ctx, cfg.ConnectionString())
}
