package importcsv

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lobofinance/lobo/internal/catalog"
	"github.com/lobofinance/lobo/internal/importer"
	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
)

var scope = tenant.Scope{UserID: uuid.New(), CompanyID: uuid.New()}

type staticCatalog struct{}

func (staticCatalog) Snapshot(context.Context, tenant.Scope) (catalog.Snapshot, error) {
	return catalog.Snapshot{
		Categories: []catalog.Category{{ID: uuid.New(), Name: "Vendas", Type: transaction.TypeIncome}},
		Accounts:   []catalog.Account{{ID: uuid.New(), Name: "Conta Principal", IsDefault: true}},
	}, nil
}

type countingCreator struct {
	calls int
}

func (c *countingCreator) CreateBatch(_ context.Context, _ tenant.Scope, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	c.calls++

	txs := make([]*transaction.Transaction, len(params))
	for i := range params {
		txs[i] = &transaction.Transaction{ID: uuid.New()}
	}

	return txs, nil
}

func upload(t *testing.T, target, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "lancamentos.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req.WithContext(tenant.WithScope(req.Context(), scope))
}

func newRouter(creator *countingCreator) http.Handler {
	r := chi.NewRouter()
	r.Route("/import", NewHandler(importer.NewService(staticCatalog{}, creator)).Routes)

	return r
}

const (
	validFile   = "Data;Tipo;Descrição;Valor;Categoria\n05/03/2024;Receita;Venda;\"1.200,00\";Vendas\n"
	invalidFile = "Data;Tipo;Descrição;Valor;Categoria\n05/03/2024;Receita;Venda;100;Brindes\n"
)

func TestHandler_Check(t *testing.T) {
	type testCase struct {
		name       string
		content    string
		wantStatus int
		wantValid  bool
		wantErrors int
	}

	testCases := []testCase{
		{name: "valid", content: validFile, wantStatus: http.StatusOK, wantValid: true},
		{name: "unknown category", content: invalidFile, wantStatus: http.StatusUnprocessableEntity, wantErrors: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			creator := &countingCreator{}
			rec := httptest.NewRecorder()

			newRouter(creator).ServeHTTP(rec, upload(t, "/import/", tc.content))

			require.Equal(t, tc.wantStatus, rec.Code)

			var resp checkResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

			assert.Equal(t, tc.wantValid, resp.Valid)
			assert.Len(t, resp.Errors, tc.wantErrors)
			assert.Zero(t, creator.calls)
		})
	}
}

func TestHandler_Confirm(t *testing.T) {
	t.Run("stores a clean file", func(t *testing.T) {
		creator := &countingCreator{}
		rec := httptest.NewRecorder()

		newRouter(creator).ServeHTTP(rec, upload(t, "/import/confirm", validFile))

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp importSuccessResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

		assert.Equal(t, 1, resp.Imported)
		assert.Len(t, resp.IDs, 1)
		assert.Equal(t, 1, creator.calls)
	})

	t.Run("rejects a file with errors", func(t *testing.T) {
		creator := &countingCreator{}
		rec := httptest.NewRecorder()

		newRouter(creator).ServeHTTP(rec, upload(t, "/import/confirm", invalidFile))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Zero(t, creator.calls)
	})
}

func TestHandler_MissingFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/import/", nil)
	req = req.WithContext(tenant.WithScope(req.Context(), scope))

	rec := httptest.NewRecorder()
	newRouter(&countingCreator{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_OversizedUpload(t *testing.T) {
	big := validFile + strings.Repeat("x", maxUploadSize)

	for _, target := range []string{"/import", "/import/confirm"} {
		t.Run(target, func(t *testing.T) {
			creator := &countingCreator{}
			rec := httptest.NewRecorder()

			newRouter(creator).ServeHTTP(rec, upload(t, target, big))

			assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
			assert.Zero(t, creator.calls)
		})
	}
}
