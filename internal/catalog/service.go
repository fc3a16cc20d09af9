package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
)

type Repository interface {
	ListCategories(ctx context.Context, scope tenant.Scope) ([]Category, error)
	ListSubcategories(ctx context.Context, scope tenant.Scope) ([]Subcategory, error)
	ListCostCenters(ctx context.Context, scope tenant.Scope) ([]CostCenter, error)
	ListAccounts(ctx context.Context, scope tenant.Scope) ([]Account, error)
	ListPaymentMethods(ctx context.Context, scope tenant.Scope) ([]PaymentMethod, error)
	ListFees(ctx context.Context, scope tenant.Scope) ([]Fee, error)

	CreateItem(ctx context.Context, scope tenant.Scope, item *Item) error
	UpdateItem(ctx context.Context, scope tenant.Scope, kind Kind, id uuid.UUID, patch Patch) error
	DeleteItem(ctx context.Context, scope tenant.Scope, kind Kind, id uuid.UUID) error

	Seed(ctx context.Context, scope tenant.Scope, defaults Defaults) error
}

// Item is a catalog entry of any kind. Only the fields relevant to Kind are
// read: Type for categories, ParentID for subcategories and fees, Percent for
// fees, InitialBalance and IsDefault for accounts.
type Item struct {
	Kind           Kind
	ID             uuid.UUID
	Name           string
	Type           transaction.Type
	ParentID       *uuid.UUID
	Percent        decimal.Decimal
	InitialBalance decimal.Decimal
	IsDefault      bool
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Name           *string
	Type           *transaction.Type
	Percent        *decimal.Decimal
	InitialBalance *decimal.Decimal
	IsDefault      *bool
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Snapshot loads the whole catalog of the scope, with subcategories nested
// under their category and fees under their payment method.
func (s *Service) Snapshot(ctx context.Context, scope tenant.Scope) (Snapshot, error) {
	var (
		snap          Snapshot
		subcategories []Subcategory
		fees          []Fee
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Categories, err = s.repo.ListCategories(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		subcategories, err = s.repo.ListSubcategories(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		snap.CostCenters, err = s.repo.ListCostCenters(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		snap.Accounts, err = s.repo.ListAccounts(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		snap.PaymentMethods, err = s.repo.ListPaymentMethods(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		fees, err = s.repo.ListFees(gctx, scope)
		return err
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("loading catalog: %w", err)
	}

	for i := range snap.Categories {
		for _, sub := range subcategories {
			if sub.CategoryID == snap.Categories[i].ID {
				snap.Categories[i].Subcategories = append(snap.Categories[i].Subcategories, sub)
			}
		}
	}

	for i := range snap.PaymentMethods {
		for _, f := range fees {
			if f.PaymentMethodID == snap.PaymentMethods[i].ID {
				snap.PaymentMethods[i].Fees = append(snap.PaymentMethods[i].Fees, f)
			}
		}
	}

	return snap, nil
}

// Create stores a new catalog item. The first account of a company, or any
// account created while no default exists, becomes the default.
func (s *Service) Create(ctx context.Context, scope tenant.Scope, item Item) (*Item, error) {
	item.Name = strings.TrimSpace(item.Name)
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if item.Kind == KindAccounts && !item.IsDefault {
		accounts, err := s.repo.ListAccounts(ctx, scope)
		if err != nil {
			return nil, fmt.Errorf("listing accounts: %w", err)
		}

		item.IsDefault = !hasDefault(accounts)
	}

	if err := s.repo.CreateItem(ctx, scope, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

func (s *Service) Update(ctx context.Context, scope tenant.Scope, kind Kind, id uuid.UUID, patch Patch) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return fmt.Errorf("%w: name is required", ErrInvalid)
		}

		patch.Name = &name
	}

	if patch.Type != nil && !patch.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalid, *patch.Type)
	}

	if patch.Percent != nil && !validPercent(*patch.Percent) {
		return fmt.Errorf("%w: percent must be between 0 and 1", ErrInvalid)
	}

	return s.repo.UpdateItem(ctx, scope, kind, id, patch)
}

func (s *Service) Delete(ctx context.Context, scope tenant.Scope, kind Kind, id uuid.UUID) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	return s.repo.DeleteItem(ctx, scope, kind, id)
}

// SeedDefaults installs the starter catalog for a company that has no
// categories yet. It is a no-op otherwise.
func (s *Service) SeedDefaults(ctx context.Context, scope tenant.Scope) error {
	categories, err := s.repo.ListCategories(ctx, scope)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}

	if len(categories) > 0 {
		return nil
	}

	if err := s.repo.Seed(ctx, scope, DefaultCatalog()); err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}

	return nil
}

func hasDefault(accounts []Account) bool {
	for _, a := range accounts {
		if a.IsDefault {
			return true
		}
	}

	return false
}

func validPercent(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(decimal.NewFromInt(1))
}

func validateItem(item Item) error {
	if !item.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, item.Kind)
	}

	if item.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}

	switch item.Kind {
	case KindCategories:
		if !item.Type.Valid() {
			return fmt.Errorf("%w: unknown type %q", ErrInvalid, item.Type)
		}
	case KindSubcategories, KindFees:
		if item.ParentID == nil {
			return fmt.Errorf("%w: parent is required", ErrInvalid)
		}

		if item.Kind == KindFees && !validPercent(item.Percent) {
			return fmt.Errorf("%w: percent must be between 0 and 1", ErrInvalid)
		}
	}

	return nil
}
