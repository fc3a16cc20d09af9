package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lobofinance/lobo/internal/tenant"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, scope tenant.Scope, tx *Transaction) error
	GetTransaction(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, scope tenant.Scope, tx *Transaction) error
	ListTransactions(ctx context.Context, scope tenant.Scope, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, scope tenant.Scope, id uuid.UUID) error

	BeginBatch(ctx context.Context, scope tenant.Scope) (BatchTx, error)
}

// BatchTx persists many transactions atomically.
type BatchTx interface {
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Type            Type
	Description     string
	Amount          decimal.Decimal
	Date            time.Time
	Paid            bool
	AccountID       *uuid.UUID
	CategoryID      *uuid.UUID
	SubcategoryID   *uuid.UUID
	CostCenterID    *uuid.UUID
	PaymentMethodID *uuid.UUID
	FeePercent      decimal.Decimal
}

// UpdateParams carries a partial update; nil fields are left untouched.
type UpdateParams struct {
	Type            *Type
	Description     *string
	Amount          *decimal.Decimal
	Date            *time.Time
	Paid            *bool
	AccountID       *uuid.UUID
	CategoryID      *uuid.UUID
	SubcategoryID   *uuid.UUID
	CostCenterID    *uuid.UUID
	PaymentMethodID *uuid.UUID
	FeePercent      *decimal.Decimal
}

type ListFilter struct {
	Status       *Status
	Type         *Type
	AccountID    *uuid.UUID
	CategoryID   *uuid.UUID
	CostCenterID *uuid.UUID
	Year         *int
	Month        *int
	StartDate    *time.Time
	EndDate      *time.Time
}

func (s *Service) Create(ctx context.Context, scope tenant.Scope, params CreateParams) (*Transaction, error) {
	tx := newTransaction(params)
	if err := validate(tx); err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransaction(ctx, scope, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, scope, id)
}

func (s *Service) List(ctx context.Context, scope tenant.Scope, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, scope, filter)
}

func (s *Service) Delete(ctx context.Context, scope tenant.Scope, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, scope, id)
}

// Update applies the supplied fields on top of the stored transaction. The
// card fee follows the resulting amount, type and fee percent.
func (s *Service) Update(ctx context.Context, scope tenant.Scope, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(tx, params)

	if err := validate(tx); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTransaction(ctx, scope, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// CreateBatch stores every params entry or none of them.
func (s *Service) CreateBatch(ctx context.Context, scope tenant.Scope, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = newTransaction(p)
		if err := validate(txs[i]); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}

	btx, err := s.repo.BeginBatch(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	defer btx.Rollback()

	if err := btx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := btx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	return txs, nil
}

func newTransaction(p CreateParams) *Transaction {
	tx := &Transaction{
		Type:            p.Type,
		Description:     strings.TrimSpace(p.Description),
		Amount:          p.Amount,
		Date:            p.Date,
		Paid:            p.Paid,
		AccountID:       p.AccountID,
		CategoryID:      p.CategoryID,
		SubcategoryID:   p.SubcategoryID,
		CostCenterID:    p.CostCenterID,
		PaymentMethodID: p.PaymentMethodID,
		FeePercent:      p.FeePercent,
	}

	if tx.Type != TypeIncome {
		tx.FeePercent = decimal.Zero
	}

	return tx
}

func applyUpdate(tx *Transaction, p UpdateParams) {
	if p.Type != nil {
		tx.Type = *p.Type
	}

	if p.Description != nil {
		tx.Description = strings.TrimSpace(*p.Description)
	}

	if p.Amount != nil {
		tx.Amount = *p.Amount
	}

	if p.Date != nil {
		tx.Date = *p.Date
	}

	if p.Paid != nil {
		tx.Paid = *p.Paid
	}

	if p.AccountID != nil {
		tx.AccountID = p.AccountID
	}

	if p.CategoryID != nil {
		tx.CategoryID = p.CategoryID
	}

	if p.SubcategoryID != nil {
		tx.SubcategoryID = p.SubcategoryID
	}

	if p.CostCenterID != nil {
		tx.CostCenterID = p.CostCenterID
	}

	if p.PaymentMethodID != nil {
		tx.PaymentMethodID = p.PaymentMethodID
	}

	if p.FeePercent != nil {
		tx.FeePercent = *p.FeePercent
	}

	if tx.Type != TypeIncome {
		tx.FeePercent = decimal.Zero
	}
}

func validate(tx *Transaction) error {
	switch {
	case !tx.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalid, tx.Type)
	case tx.Description == "":
		return fmt.Errorf("%w: description is required", ErrInvalid)
	case !tx.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalid)
	case tx.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalid)
	case tx.FeePercent.IsNegative() || tx.FeePercent.GreaterThan(decimal.NewFromInt(1)):
		return fmt.Errorf("%w: fee percent must be between 0 and 1", ErrInvalid)
	}

	return nil
}
