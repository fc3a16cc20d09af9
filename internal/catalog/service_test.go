package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lobofinance/lobo/internal/catalog"
	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
)

// fakeRepo is an in-memory Repository.
type fakeRepo struct {
	categories     []catalog.Category
	subcategories  []catalog.Subcategory
	costCenters    []catalog.CostCenter
	accounts       []catalog.Account
	paymentMethods []catalog.PaymentMethod
	fees           []catalog.Fee

	created []catalog.Item
	seeded  *catalog.Defaults
	listErr error
}

func (f *fakeRepo) ListCategories(context.Context, tenant.Scope) ([]catalog.Category, error) {
	return f.categories, f.listErr
}

func (f *fakeRepo) ListSubcategories(context.Context, tenant.Scope) ([]catalog.Subcategory, error) {
	return f.subcategories, nil
}

func (f *fakeRepo) ListCostCenters(context.Context, tenant.Scope) ([]catalog.CostCenter, error) {
	return f.costCenters, nil
}

func (f *fakeRepo) ListAccounts(context.Context, tenant.Scope) ([]catalog.Account, error) {
	return f.accounts, nil
}

func (f *fakeRepo) ListPaymentMethods(context.Context, tenant.Scope) ([]catalog.PaymentMethod, error) {
	return f.paymentMethods, nil
}

func (f *fakeRepo) ListFees(context.Context, tenant.Scope) ([]catalog.Fee, error) {
	return f.fees, nil
}

func (f *fakeRepo) CreateItem(_ context.Context, _ tenant.Scope, item *catalog.Item) error {
	item.ID = uuid.New()
	f.created = append(f.created, *item)

	return nil
}

func (f *fakeRepo) UpdateItem(context.Context, tenant.Scope, catalog.Kind, uuid.UUID, catalog.Patch) error {
	return nil
}

func (f *fakeRepo) DeleteItem(context.Context, tenant.Scope, catalog.Kind, uuid.UUID) error {
	return catalog.ErrNotFound
}

func (f *fakeRepo) Seed(_ context.Context, _ tenant.Scope, d catalog.Defaults) error {
	f.seeded = &d
	return nil
}

var scope = tenant.Scope{UserID: uuid.New(), CompanyID: uuid.New()}

func TestService_Snapshot(t *testing.T) {
	insumos := catalog.Category{ID: uuid.New(), Name: "Insumos", Type: transaction.TypeExpense}
	vendas := catalog.Category{ID: uuid.New(), Name: "Vendas", Type: transaction.TypeIncome}
	card := catalog.PaymentMethod{ID: uuid.New(), Name: "Cartão"}

	repo := &fakeRepo{
		categories: []catalog.Category{insumos, vendas},
		subcategories: []catalog.Subcategory{
			{ID: uuid.New(), CategoryID: insumos.ID, Name: "Matéria-Prima"},
		},
		paymentMethods: []catalog.PaymentMethod{card},
		fees: []catalog.Fee{
			{ID: uuid.New(), PaymentMethodID: card.ID, Name: "Débito", Percent: decimal.RequireFromString("0.02")},
			{ID: uuid.New(), PaymentMethodID: card.ID, Name: "Crédito", Percent: decimal.RequireFromString("0.035")},
		},
		accounts: []catalog.Account{{ID: uuid.New(), Name: "Conta Principal", IsDefault: true}},
	}

	snap, err := catalog.NewService(repo).Snapshot(context.Background(), scope)
	require.NoError(t, err)

	require.Len(t, snap.Categories, 2)
	assert.Len(t, snap.Categories[0].Subcategories, 1)
	assert.Empty(t, snap.Categories[1].Subcategories)
	require.Len(t, snap.PaymentMethods, 1)
	assert.Len(t, snap.PaymentMethods[0].Fees, 2)
	assert.Len(t, snap.Accounts, 1)
}

func TestService_Snapshot_Error(t *testing.T) {
	repo := &fakeRepo{listErr: errors.New("connection refused")}

	_, err := catalog.NewService(repo).Snapshot(context.Background(), scope)
	assert.ErrorContains(t, err, "connection refused")
}

func TestService_Create(t *testing.T) {
	parent := uuid.New()

	type testCase struct {
		name        string
		accounts    []catalog.Account
		item        catalog.Item
		wantDefault bool
		wantErr     error
	}

	tests := []testCase{
		{
			name:        "FirstAccountBecomesDefault",
			item:        catalog.Item{Kind: catalog.KindAccounts, Name: "Caixa"},
			wantDefault: true,
		},
		{
			name:        "AccountWithoutAnyDefaultBecomesDefault",
			accounts:    []catalog.Account{{ID: uuid.New(), Name: "Banco"}},
			item:        catalog.Item{Kind: catalog.KindAccounts, Name: "Caixa"},
			wantDefault: true,
		},
		{
			name:        "SecondAccountStaysRegular",
			accounts:    []catalog.Account{{ID: uuid.New(), Name: "Banco", IsDefault: true}},
			item:        catalog.Item{Kind: catalog.KindAccounts, Name: "Caixa"},
			wantDefault: false,
		},
		{
			name:        "ExplicitDefaultKept",
			accounts:    []catalog.Account{{ID: uuid.New(), Name: "Banco", IsDefault: true}},
			item:        catalog.Item{Kind: catalog.KindAccounts, Name: "Caixa", IsDefault: true},
			wantDefault: true,
		},
		{
			name: "Fee",
			item: catalog.Item{Kind: catalog.KindFees, Name: "Débito", ParentID: &parent, Percent: decimal.RequireFromString("0.02")},
		},
		{
			name:    "BlankName",
			item:    catalog.Item{Kind: catalog.KindCostCenters, Name: "  "},
			wantErr: catalog.ErrInvalid,
		},
		{
			name:    "CategoryWithoutType",
			item:    catalog.Item{Kind: catalog.KindCategories, Name: "Vendas"},
			wantErr: catalog.ErrInvalid,
		},
		{
			name:    "SubcategoryWithoutParent",
			item:    catalog.Item{Kind: catalog.KindSubcategories, Name: "Anúncios"},
			wantErr: catalog.ErrInvalid,
		},
		{
			name:    "FeeAboveOne",
			item:    catalog.Item{Kind: catalog.KindFees, Name: "Absurda", ParentID: &parent, Percent: decimal.NewFromInt(2)},
			wantErr: catalog.ErrInvalid,
		},
		{
			name:    "UnknownKind",
			item:    catalog.Item{Kind: "users", Name: "root"},
			wantErr: catalog.ErrInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{accounts: tt.accounts}
			svc := catalog.NewService(repo)

			got, err := svc.Create(context.Background(), scope, tt.item)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.created)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, tt.wantDefault, got.IsDefault)
		})
	}
}

func TestService_Update_Validation(t *testing.T) {
	svc := catalog.NewService(&fakeRepo{})
	blank := " "
	badType := transaction.Type("transfer")

	err := svc.Update(context.Background(), scope, catalog.KindCostCenters, uuid.New(), catalog.Patch{Name: &blank})
	assert.ErrorIs(t, err, catalog.ErrInvalid)

	err = svc.Update(context.Background(), scope, catalog.KindCategories, uuid.New(), catalog.Patch{Type: &badType})
	assert.ErrorIs(t, err, catalog.ErrInvalid)

	err = svc.Update(context.Background(), scope, "nope", uuid.New(), catalog.Patch{})
	assert.ErrorIs(t, err, catalog.ErrInvalidKind)
}

func TestService_Delete(t *testing.T) {
	svc := catalog.NewService(&fakeRepo{})

	assert.ErrorIs(t, svc.Delete(context.Background(), scope, catalog.KindFees, uuid.New()), catalog.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), scope, "nope", uuid.New()), catalog.ErrInvalidKind)
}

func TestService_SeedDefaults(t *testing.T) {
	t.Run("EmptyCompany", func(t *testing.T) {
		repo := &fakeRepo{}
		require.NoError(t, catalog.NewService(repo).SeedDefaults(context.Background(), scope))
		require.NotNil(t, repo.seeded)

		assert.Len(t, repo.seeded.Categories, 6)
		assert.Equal(t, []string{"Geral", "Loja"}, repo.seeded.CostCenters)
		assert.Equal(t, []string{"Conta Principal"}, repo.seeded.Accounts)
		require.Len(t, repo.seeded.PaymentMethods, 3)
		assert.Len(t, repo.seeded.PaymentMethods[2].Fees, 3)
	})

	t.Run("AlreadySeeded", func(t *testing.T) {
		repo := &fakeRepo{categories: []catalog.Category{{ID: uuid.New(), Name: "Vendas"}}}
		require.NoError(t, catalog.NewService(repo).SeedDefaults(context.Background(), scope))
		assert.Nil(t, repo.seeded)
	})
}
