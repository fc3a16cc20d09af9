package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"

	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanTransaction reads a transaction row from the scanner.
// Expected column order matches selectTransactionColumns.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr string

	if err := s.Scan(
		&tx.ID, &typeStr, &tx.Description, &tx.Amount, &tx.Date, &tx.Paid,
		&tx.AccountID, &tx.CategoryID, &tx.SubcategoryID, &tx.CostCenterID, &tx.PaymentMethodID,
		&tx.FeePercent, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.type, t.description, t.amount, t.date, t.paid,
	t.account_id, t.category_id, t.subcategory_id, t.cost_center_id, t.payment_method_id,
	CASE WHEN t.amount > 0 THEN t.fee_amount / t.amount ELSE 0 END AS fee_percent,
	t.created_at, t.updated_at
`

const insertTransaction = `
	INSERT INTO transactions (
		user_id, company_id, type, description, amount, date, paid,
		account_id, category_id, subcategory_id, cost_center_id, payment_method_id,
		fee_amount, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
	RETURNING id, created_at
`

func insert(ctx context.Context, db querier, scope tenant.Scope, tx *transaction.Transaction) error {
	return db.QueryRowContext(ctx, insertTransaction,
		scope.UserID,
		scope.CompanyID,
		tx.Type,
		tx.Description,
		tx.Amount,
		tx.Date,
		tx.Paid,
		tx.AccountID,
		tx.CategoryID,
		tx.SubcategoryID,
		tx.CostCenterID,
		tx.PaymentMethodID,
		tx.CardFee(),
	).Scan(&tx.ID, &tx.CreatedAt)
}

func (s *Store) CreateTransaction(ctx context.Context, scope tenant.Scope, tx *transaction.Transaction) error {
	if err := insert(ctx, s.db, scope, tx); err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1 AND t.user_id = $2 AND t.company_id = $3`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id, scope.UserID, scope.CompanyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, scope tenant.Scope, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.user_id = $1 AND t.company_id = $2`

	args := []any{scope.UserID, scope.CompanyID}

	where := func(clause string, arg any) {
		args = append(args, arg)
		query += fmt.Sprintf(" AND "+clause, len(args))
	}

	if filter.Status != nil {
		where("t.paid = $%d", *filter.Status == transaction.StatusRealized)
	}

	if filter.Type != nil {
		where("t.type = $%d", *filter.Type)
	}

	if filter.AccountID != nil {
		where("t.account_id = $%d", *filter.AccountID)
	}

	if filter.CategoryID != nil {
		where("t.category_id = $%d", *filter.CategoryID)
	}

	if filter.CostCenterID != nil {
		where("t.cost_center_id = $%d", *filter.CostCenterID)
	}

	if filter.Year != nil {
		where("EXTRACT(YEAR FROM t.date) = $%d", *filter.Year)
	}

	if filter.Month != nil {
		where("EXTRACT(MONTH FROM t.date) = $%d", *filter.Month)
	}

	if filter.StartDate != nil {
		where("t.date >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		where("t.date <= $%d", *filter.EndDate)
	}

	query += " ORDER BY t.date DESC, t.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, scope tenant.Scope, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET type = $1, description = $2, amount = $3, date = $4, paid = $5,
			account_id = $6, category_id = $7, subcategory_id = $8, cost_center_id = $9,
			payment_method_id = $10, fee_amount = $11, updated_at = NOW()
		WHERE id = $12 AND user_id = $13 AND company_id = $14
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.Type,
		tx.Description,
		tx.Amount,
		tx.Date,
		tx.Paid,
		tx.AccountID,
		tx.CategoryID,
		tx.SubcategoryID,
		tx.CostCenterID,
		tx.PaymentMethodID,
		tx.CardFee(),
		tx.ID,
		scope.UserID,
		scope.CompanyID,
	).Scan(&tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transaction.ErrNotFound
		}

		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, scope tenant.Scope, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2 AND company_id = $3`,
		id, scope.UserID, scope.CompanyID)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

// batchLockKey serializes concurrent batch imports of the same company.
func batchLockKey(scope tenant.Scope) int64 {
	h := fnv.New64a()
	h.Write(scope.UserID[:])
	h.Write(scope.CompanyID[:])

	return int64(h.Sum64())
}

type batchTx struct {
	tx    *sql.Tx
	scope tenant.Scope
}

func (s *Store) BeginBatch(ctx context.Context, scope tenant.Scope) (transaction.BatchTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning batch tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", batchLockKey(scope)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring batch lock: %w", err)
	}

	return &batchTx{tx: dbTx, scope: scope}, nil
}

func (b *batchTx) Commit() error   { return b.tx.Commit() }
func (b *batchTx) Rollback() error { return b.tx.Rollback() }

func (b *batchTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	for _, tx := range txs {
		if err := insert(ctx, b.tx, b.scope, tx); err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	return nil
}
