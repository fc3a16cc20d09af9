package dashboard

import (
	"context"
	"fmt"

	"github.com/lobofinance/lobo/internal/catalog"
	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
)

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

// Load fetches the scope's transactions and catalog and aggregates them.
// The filter is pushed down to the store and applied again in Aggregate.
func (s *Service) Load(ctx context.Context, scope tenant.Scope, filter Filter) (Result, error) {
	txs, err := s.transactions.List(ctx, scope, transaction.ListFilter{
		Status:       filter.Status,
		Type:         filter.Type,
		AccountID:    filter.AccountID,
		CategoryID:   filter.CategoryID,
		CostCenterID: filter.CostCenterID,
		Year:         filter.Year,
		Month:        filter.Month,
	})
	if err != nil {
		return Result{}, fmt.Errorf("listing transactions: %w", err)
	}

	snap, err := s.catalogs.Snapshot(ctx, scope)
	if err != nil {
		return Result{}, fmt.Errorf("loading catalog: %w", err)
	}

	return Aggregate(txs, filter, snap), nil
}
