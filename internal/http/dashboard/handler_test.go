package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lobofinance/lobo/internal/catalog"
	"github.com/lobofinance/lobo/internal/dashboard"
	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
)

type lister struct {
	seen transaction.ListFilter
}

func (l *lister) List(_ context.Context, _ tenant.Scope, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	l.seen = filter

	return []*transaction.Transaction{{
		ID:          uuid.New(),
		Type:        transaction.TypeIncome,
		Description: "Venda",
		Amount:      decimal.NewFromInt(500),
		Date:        time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC),
		Paid:        true,
	}}, nil
}

type emptyCatalog struct{}

func (emptyCatalog) Snapshot(context.Context, tenant.Scope) (catalog.Snapshot, error) {
	return catalog.Snapshot{}, nil
}

func TestHandler_Get(t *testing.T) {
	l := &lister{}

	r := chi.NewRouter()
	r.Route("/dashboard", NewHandler(dashboard.NewService(l, emptyCatalog{})).Routes)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/?year=2024&month=5&status=realizado", nil)
	req = req.WithContext(tenant.WithScope(req.Context(), tenant.Scope{UserID: uuid.New(), CompanyID: uuid.New()}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, new(2024), l.seen.Year)
	assert.Equal(t, new(transaction.StatusRealized), l.seen.Status)

	var res struct {
		Summary struct {
			Income decimal.Decimal `json:"income"`
		} `json:"summary"`
		Trend struct {
			Labels []string `json:"labels"`
		} `json:"trend"`
		LastTransactions []json.RawMessage `json:"last_transactions"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))

	assert.True(t, decimal.NewFromInt(500).Equal(res.Summary.Income))
	assert.Len(t, res.Trend.Labels, 31)
	assert.Len(t, res.LastTransactions, 1)
}

func TestHandler_MissingScope(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/dashboard", NewHandler(dashboard.NewService(&lister{}, emptyCatalog{})).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
