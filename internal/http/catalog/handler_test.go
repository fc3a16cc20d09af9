package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lobofinance/lobo/internal/catalog"
	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
)

var scope = tenant.Scope{UserID: uuid.New(), CompanyID: uuid.New()}

type memRepo struct {
	categories []catalog.Category
	created    []catalog.Item
	patched    []catalog.Patch
}

func (m *memRepo) ListCategories(context.Context, tenant.Scope) ([]catalog.Category, error) {
	return m.categories, nil
}

func (m *memRepo) ListSubcategories(context.Context, tenant.Scope) ([]catalog.Subcategory, error) {
	return nil, nil
}

func (m *memRepo) ListCostCenters(context.Context, tenant.Scope) ([]catalog.CostCenter, error) {
	return nil, nil
}

func (m *memRepo) ListAccounts(context.Context, tenant.Scope) ([]catalog.Account, error) {
	return nil, nil
}

func (m *memRepo) ListPaymentMethods(context.Context, tenant.Scope) ([]catalog.PaymentMethod, error) {
	return nil, nil
}

func (m *memRepo) ListFees(context.Context, tenant.Scope) ([]catalog.Fee, error) {
	return nil, nil
}

func (m *memRepo) CreateItem(_ context.Context, _ tenant.Scope, item *catalog.Item) error {
	item.ID = uuid.New()
	m.created = append(m.created, *item)

	return nil
}

func (m *memRepo) UpdateItem(_ context.Context, _ tenant.Scope, _ catalog.Kind, _ uuid.UUID, patch catalog.Patch) error {
	m.patched = append(m.patched, patch)
	return nil
}

func (m *memRepo) DeleteItem(context.Context, tenant.Scope, catalog.Kind, uuid.UUID) error {
	return catalog.ErrNotFound
}

func (m *memRepo) Seed(context.Context, tenant.Scope, catalog.Defaults) error {
	return nil
}

func serve(repo *memRepo, method, target, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/catalogs", NewHandler(catalog.NewService(repo)).Routes)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(tenant.WithScope(req.Context(), scope))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Snapshot(t *testing.T) {
	repo := &memRepo{categories: []catalog.Category{{ID: uuid.New(), Name: "Vendas", Type: transaction.TypeIncome}}}

	rec := serve(repo, http.MethodGet, "/catalogs/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp snapshotResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	require.Len(t, resp.Categories, 1)
	assert.Equal(t, "Vendas", resp.Categories[0].Name)
	assert.NotNil(t, resp.Categories[0].Subcategories)
	assert.NotNil(t, resp.Accounts)
}

func TestHandler_Create(t *testing.T) {
	type testCase struct {
		name       string
		target     string
		body       string
		wantStatus int
	}

	testCases := []testCase{
		{name: "category", target: "/catalogs/categories", body: `{"name":" Aluguel ","type":"expense"}`, wantStatus: http.StatusCreated},
		{name: "first account becomes default", target: "/catalogs/accounts", body: `{"name":"Caixa"}`, wantStatus: http.StatusCreated},
		{name: "unknown kind", target: "/catalogs/tags", body: `{"name":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "fee without parent", target: "/catalogs/fees", body: `{"name":"x","percent":"0.1"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed", target: "/catalogs/categories", body: `[`, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &memRepo{}

			rec := serve(repo, http.MethodPost, tc.target, tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code)

			if tc.wantStatus != http.StatusCreated {
				assert.Empty(t, repo.created)
				return
			}

			require.Len(t, repo.created, 1)

			var resp itemResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, repo.created[0].ID, resp.ID)

			if resp.Kind == catalog.KindAccounts {
				assert.True(t, resp.IsDefault)
			}
		})
	}
}

func TestHandler_UpdateAndDelete(t *testing.T) {
	repo := &memRepo{}
	id := uuid.New()

	rec := serve(repo, http.MethodPatch, "/catalogs/accounts/"+id.String(), `{"is_default":true}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, repo.patched, 1)
	assert.Equal(t, new(true), repo.patched[0].IsDefault)
	assert.Nil(t, repo.patched[0].Name)

	rec = serve(repo, http.MethodPatch, "/catalogs/accounts/nope", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(repo, http.MethodDelete, "/catalogs/cost_centers/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
