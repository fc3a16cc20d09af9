package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lobofinance/lobo/internal/catalog"
	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
)

var ErrAccountNotFound = errors.New("account not found")

type TransactionLister interface {
	List(ctx context.Context, scope tenant.Scope, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type CatalogProvider interface {
	Snapshot(ctx context.Context, scope tenant.Scope) (catalog.Snapshot, error)
}

type Service struct {
	transactions TransactionLister
	catalogs     CatalogProvider
}

func NewService(transactions TransactionLister, catalogs CatalogProvider) *Service {
	return &Service{
		transactions: transactions,
		catalogs:     catalogs,
	}
}

func (s *Service) Build(ctx context.Context, scope tenant.Scope, kind Kind, filter Filter) (Report, error) {
	if !kind.Valid() {
		return Report{}, ErrUnknownKind
	}

	txs, err := s.transactions.List(ctx, scope, transaction.ListFilter{
		Status:    filter.Status,
		StartDate: filter.From,
		EndDate:   filter.To,
	})
	if err != nil {
		return Report{}, fmt.Errorf("listing transactions: %w", err)
	}

	snap, err := s.catalogs.Snapshot(ctx, scope)
	if err != nil {
		return Report{}, fmt.Errorf("loading catalog: %w", err)
	}

	return Build(kind, txs, filter, snap)
}

func (s *Service) Statement(ctx context.Context, scope tenant.Scope, accountID uuid.UUID, year int, month *int) (Statement, error) {
	snap, err := s.catalogs.Snapshot(ctx, scope)
	if err != nil {
		return Statement{}, fmt.Errorf("loading catalog: %w", err)
	}

	account, ok := snap.Account(accountID)
	if !ok {
		return Statement{}, ErrAccountNotFound
	}

	status := transaction.StatusRealized

	txs, err := s.transactions.List(ctx, scope, transaction.ListFilter{
		Status:    &status,
		AccountID: &accountID,
	})
	if err != nil {
		return Statement{}, fmt.Errorf("listing transactions: %w", err)
	}

	return BuildStatement(account, txs, year, month, snap), nil
}
