package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lobofinance/lobo/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate up|down",
	Short:     "Apply or roll back the database schema",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(database.Up), string(database.Down)},
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		dir := database.Direction(args[0])
		if err := database.Migrate(db, dir); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "migrations %s: done\n", dir)

		return nil
	},
}
