package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lobofinance/lobo/internal/catalog"
	catalogStore "github.com/lobofinance/lobo/internal/catalog/store"
	"github.com/lobofinance/lobo/internal/importer"
	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
	txStore "github.com/lobofinance/lobo/internal/transaction/store"
)

var (
	importUser    string
	importCompany string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Validate or load a CSV spreadsheet of transactions",
}

var importCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a spreadsheet without saving it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0], false)
	},
}

var importCommitCmd = &cobra.Command{
	Use:   "commit <file>",
	Short: "Validate a spreadsheet and save every row when none is invalid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0], true)
	},
}

func init() {
	importCmd.PersistentFlags().StringVar(&importUser, "user", "", "owner user id")
	importCmd.PersistentFlags().StringVar(&importCompany, "company", "", "company id")
	_ = importCmd.MarkPersistentFlagRequired("user")
	_ = importCmd.MarkPersistentFlagRequired("company")

	importCmd.AddCommand(importCheckCmd, importCommitCmd)
}

func parseScope(user, company string) (tenant.Scope, error) {
	userID, err := uuid.Parse(user)
	if err != nil {
		return tenant.Scope{}, fmt.Errorf("invalid --user: %w", err)
	}

	companyID, err := uuid.Parse(company)
	if err != nil {
		return tenant.Scope{}, fmt.Errorf("invalid --company: %w", err)
	}

	return tenant.Scope{UserID: userID, CompanyID: companyID}, nil
}

func runImport(cmd *cobra.Command, path string, commit bool) error {
	scope, err := parseScope(importUser, importCompany)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	db, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	svc := importer.NewService(
		catalog.NewService(catalogStore.New(db)),
		transaction.NewService(txStore.New(db)),
	)

	out := cmd.OutOrStdout()

	if !commit {
		res, err := svc.Check(cmd.Context(), scope, f)
		if err != nil {
			return err
		}

		return report(out, res)
	}

	res, txs, err := svc.Commit(cmd.Context(), scope, f)
	if errors.Is(err, importer.ErrRejected) {
		return report(out, res)
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d transactions imported\n", len(txs))

	return nil
}

// report prints the validation outcome and fails when the file is not
// importable.
func report(w io.Writer, res importer.Result) error {
	for _, msg := range res.Errors {
		fmt.Fprintln(w, msg)
	}

	if !res.Valid() {
		if len(res.Errors) == 0 {
			return errors.New("no rows to import")
		}

		return fmt.Errorf("%d invalid rows", len(res.Errors))
	}

	fmt.Fprintf(w, "%d rows valid\n", len(res.Items))

	return nil
}
