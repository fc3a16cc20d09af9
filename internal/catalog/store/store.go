package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lobofinance/lobo/internal/catalog"
	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// tables whitelists the table behind every catalog kind.
var tables = map[catalog.Kind]string{
	catalog.KindCategories:     "categories",
	catalog.KindSubcategories:  "subcategories",
	catalog.KindCostCenters:    "cost_centers",
	catalog.KindAccounts:       "accounts",
	catalog.KindPaymentMethods: "payment_methods",
	catalog.KindFees:           "fees",
}

func tableFor(kind catalog.Kind) (string, error) {
	t, ok := tables[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", catalog.ErrInvalidKind, kind)
	}

	return t, nil
}

func (s *Store) ListCategories(ctx context.Context, scope tenant.Scope) ([]catalog.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type FROM categories
		WHERE user_id = $1 AND company_id = $2
		ORDER BY name`, scope.UserID, scope.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []catalog.Category

	for rows.Next() {
		var (
			c   catalog.Category
			typ string
		)

		if err := rows.Scan(&c.ID, &c.Name, &typ); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		c.Type = transaction.Type(typ)
		out = append(out, c)
	}

	return out, rows.Err()
}

func (s *Store) ListSubcategories(ctx context.Context, scope tenant.Scope) ([]catalog.Subcategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_id, name FROM subcategories
		WHERE user_id = $1 AND company_id = $2
		ORDER BY name`, scope.UserID, scope.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("listing subcategories: %w", err)
	}
	defer rows.Close()

	var out []catalog.Subcategory

	for rows.Next() {
		var sc catalog.Subcategory
		if err := rows.Scan(&sc.ID, &sc.CategoryID, &sc.Name); err != nil {
			return nil, fmt.Errorf("scanning subcategory: %w", err)
		}

		out = append(out, sc)
	}

	return out, rows.Err()
}

func (s *Store) ListCostCenters(ctx context.Context, scope tenant.Scope) ([]catalog.CostCenter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name FROM cost_centers
		WHERE user_id = $1 AND company_id = $2
		ORDER BY name`, scope.UserID, scope.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("listing cost centers: %w", err)
	}
	defer rows.Close()

	var out []catalog.CostCenter

	for rows.Next() {
		var cc catalog.CostCenter
		if err := rows.Scan(&cc.ID, &cc.Name); err != nil {
			return nil, fmt.Errorf("scanning cost center: %w", err)
		}

		out = append(out, cc)
	}

	return out, rows.Err()
}

func (s *Store) ListAccounts(ctx context.Context, scope tenant.Scope) ([]catalog.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, initial_balance, is_default FROM accounts
		WHERE user_id = $1 AND company_id = $2
		ORDER BY created_at, name`, scope.UserID, scope.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var out []catalog.Account

	for rows.Next() {
		var a catalog.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.InitialBalance, &a.IsDefault); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		out = append(out, a)
	}

	return out, rows.Err()
}

func (s *Store) ListPaymentMethods(ctx context.Context, scope tenant.Scope) ([]catalog.PaymentMethod, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name FROM payment_methods
		WHERE user_id = $1 AND company_id = $2
		ORDER BY name`, scope.UserID, scope.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("listing payment methods: %w", err)
	}
	defer rows.Close()

	var out []catalog.PaymentMethod

	for rows.Next() {
		var pm catalog.PaymentMethod
		if err := rows.Scan(&pm.ID, &pm.Name); err != nil {
			return nil, fmt.Errorf("scanning payment method: %w", err)
		}

		out = append(out, pm)
	}

	return out, rows.Err()
}

func (s *Store) ListFees(ctx context.Context, scope tenant.Scope) ([]catalog.Fee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, payment_method_id, name, percent FROM fees
		WHERE user_id = $1 AND company_id = $2
		ORDER BY percent, name`, scope.UserID, scope.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("listing fees: %w", err)
	}
	defer rows.Close()

	var out []catalog.Fee

	for rows.Next() {
		var f catalog.Fee
		if err := rows.Scan(&f.ID, &f.PaymentMethodID, &f.Name, &f.Percent); err != nil {
			return nil, fmt.Errorf("scanning fee: %w", err)
		}

		out = append(out, f)
	}

	return out, rows.Err()
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func demoteAccounts(ctx context.Context, q querier, scope tenant.Scope) error {
	_, err := q.ExecContext(ctx, `
		UPDATE accounts SET is_default = FALSE
		WHERE user_id = $1 AND company_id = $2 AND is_default`, scope.UserID, scope.CompanyID)
	if err != nil {
		return fmt.Errorf("demoting default account: %w", err)
	}

	return nil
}

func insertItem(ctx context.Context, q querier, scope tenant.Scope, item *catalog.Item) error {
	var row *sql.Row

	switch item.Kind {
	case catalog.KindCategories:
		row = q.QueryRowContext(ctx, `
			INSERT INTO categories (user_id, company_id, name, type)
			VALUES ($1, $2, $3, $4) RETURNING id`,
			scope.UserID, scope.CompanyID, item.Name, item.Type)
	case catalog.KindSubcategories:
		row = q.QueryRowContext(ctx, `
			INSERT INTO subcategories (user_id, company_id, category_id, name)
			SELECT $1::uuid, $2::uuid, c.id, $4::text FROM categories c
			WHERE c.id = $3 AND c.user_id = $1 AND c.company_id = $2
			RETURNING id`,
			scope.UserID, scope.CompanyID, item.ParentID, item.Name)
	case catalog.KindCostCenters:
		row = q.QueryRowContext(ctx, `
			INSERT INTO cost_centers (user_id, company_id, name)
			VALUES ($1, $2, $3) RETURNING id`,
			scope.UserID, scope.CompanyID, item.Name)
	case catalog.KindAccounts:
		row = q.QueryRowContext(ctx, `
			INSERT INTO accounts (user_id, company_id, name, initial_balance, is_default, created_at)
			VALUES ($1, $2, $3, $4, $5, clock_timestamp()) RETURNING id`,
			scope.UserID, scope.CompanyID, item.Name, item.InitialBalance, item.IsDefault)
	case catalog.KindPaymentMethods:
		row = q.QueryRowContext(ctx, `
			INSERT INTO payment_methods (user_id, company_id, name)
			VALUES ($1, $2, $3) RETURNING id`,
			scope.UserID, scope.CompanyID, item.Name)
	case catalog.KindFees:
		row = q.QueryRowContext(ctx, `
			INSERT INTO fees (user_id, company_id, payment_method_id, name, percent)
			SELECT $1::uuid, $2::uuid, pm.id, $4::text, $5::numeric FROM payment_methods pm
			WHERE pm.id = $3 AND pm.user_id = $1 AND pm.company_id = $2
			RETURNING id`,
			scope.UserID, scope.CompanyID, item.ParentID, item.Name, item.Percent)
	default:
		return fmt.Errorf("%w: %q", catalog.ErrInvalidKind, item.Kind)
	}

	if err := row.Scan(&item.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.ErrNotFound
		}

		return fmt.Errorf("creating %s: %w", item.Kind, err)
	}

	return nil
}

func (s *Store) CreateItem(ctx context.Context, scope tenant.Scope, item *catalog.Item) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if item.Kind == catalog.KindAccounts && item.IsDefault {
		if err := demoteAccounts(ctx, dbTx, scope); err != nil {
			return err
		}
	}

	if err := insertItem(ctx, dbTx, scope, item); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// patchColumns builds the SET clause for the fields a kind supports. Values
// start at placeholder $1.
func patchColumns(kind catalog.Kind, patch catalog.Patch) ([]string, []any) {
	var (
		sets []string
		args []any
	)

	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}

	switch kind {
	case catalog.KindCategories:
		if patch.Type != nil {
			set("type", *patch.Type)
		}
	case catalog.KindAccounts:
		if patch.InitialBalance != nil {
			set("initial_balance", *patch.InitialBalance)
		}

		if patch.IsDefault != nil {
			set("is_default", *patch.IsDefault)
		}
	case catalog.KindFees:
		if patch.Percent != nil {
			set("percent", *patch.Percent)
		}
	}

	return sets, args
}

func (s *Store) UpdateItem(ctx context.Context, scope tenant.Scope, kind catalog.Kind, id uuid.UUID, patch catalog.Patch) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	sets, args := patchColumns(kind, patch)
	if len(sets) == 0 {
		return nil
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if kind == catalog.KindAccounts && patch.IsDefault != nil && *patch.IsDefault {
		if err := demoteAccounts(ctx, dbTx, scope); err != nil {
			return err
		}
	}

	args = append(args, id, scope.UserID, scope.CompanyID)
	n := len(args)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d AND user_id = $%d AND company_id = $%d",
		table, strings.Join(sets, ", "), n-2, n-1, n)

	res, err := dbTx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating %s: %w", kind, err)
	}

	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("updating %s: %w", kind, err)
	} else if affected == 0 {
		return catalog.ErrNotFound
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteItem(ctx context.Context, scope tenant.Scope, kind catalog.Kind, id uuid.UUID) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE id = $1 AND user_id = $2 AND company_id = $3",
		id, scope.UserID, scope.CompanyID)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", kind, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s: %w", kind, err)
	}

	if n == 0 {
		return catalog.ErrNotFound
	}

	return nil
}

// Seed writes the whole starter catalog in one transaction.
func (s *Store) Seed(ctx context.Context, scope tenant.Scope, d catalog.Defaults) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	insert := func(item *catalog.Item) error {
		return insertItem(ctx, dbTx, scope, item)
	}

	for _, c := range d.Categories {
		cat := &catalog.Item{Kind: catalog.KindCategories, Name: c.Name, Type: c.Type}
		if err := insert(cat); err != nil {
			return err
		}

		for _, name := range c.Subcategories {
			if err := insert(&catalog.Item{Kind: catalog.KindSubcategories, Name: name, ParentID: &cat.ID}); err != nil {
				return err
			}
		}
	}

	for _, name := range d.CostCenters {
		if err := insert(&catalog.Item{Kind: catalog.KindCostCenters, Name: name}); err != nil {
			return err
		}
	}

	for i, name := range d.Accounts {
		if err := insert(&catalog.Item{Kind: catalog.KindAccounts, Name: name, IsDefault: i == 0}); err != nil {
			return err
		}
	}

	for _, pm := range d.PaymentMethods {
		method := &catalog.Item{Kind: catalog.KindPaymentMethods, Name: pm.Name}
		if err := insert(method); err != nil {
			return err
		}

		for _, f := range pm.Fees {
			fee := &catalog.Item{Kind: catalog.KindFees, Name: f.Name, Percent: f.Percent, ParentID: &method.ID}
			if err := insert(fee); err != nil {
				return err
			}
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}

	return nil
}
