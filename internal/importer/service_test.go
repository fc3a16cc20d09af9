package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lobofinance/lobo/internal/catalog"
	"github.com/lobofinance/lobo/internal/importer"
	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
)

type staticCatalog struct {
	snap catalog.Snapshot
	err  error
}

func (s staticCatalog) Snapshot(context.Context, tenant.Scope) (catalog.Snapshot, error) {
	return s.snap, s.err
}

type recordingCreator struct {
	params []transaction.CreateParams
	err    error
}

func (r *recordingCreator) CreateBatch(_ context.Context, _ tenant.Scope, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	if r.err != nil {
		return nil, r.err
	}

	r.params = params

	txs := make([]*transaction.Transaction, len(params))
	for i := range params {
		txs[i] = &transaction.Transaction{ID: uuid.New(), Description: params[i].Description}
	}

	return txs, nil
}

var scope = tenant.Scope{UserID: uuid.New(), CompanyID: uuid.New()}

func TestService_Commit(t *testing.T) {
	good := "Data,Tipo,Descricao,Valor,Categoria\n01/01/2024,Receita,Venda,100,Vendas\n02/01/2024,Despesa,Farinha,\"12,50\",Insumos\n"
	bad := good + "03/01/2024,Despesa,Sal,1,Temperos\n"

	type testCase struct {
		name      string
		input     string
		catalog   staticCatalog
		createErr error
		wantErr   error
		wantSaved int
	}

	tests := []testCase{
		{name: "all valid", input: good, catalog: staticCatalog{snap: snapshot}, wantSaved: 2},
		{name: "one invalid row rejects all", input: bad, catalog: staticCatalog{snap: snapshot}, wantErr: importer.ErrRejected},
		{name: "header only", input: "Data,Tipo,Descricao,Valor,Categoria\n", catalog: staticCatalog{snap: snapshot}, wantErr: importer.ErrRejected},
		{name: "catalog failure", input: good, catalog: staticCatalog{err: errors.New("db down")}, wantErr: errors.New("db down")},
		{name: "store failure", input: good, catalog: staticCatalog{snap: snapshot}, createErr: errors.New("insert failed"), wantErr: errors.New("insert failed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := &recordingCreator{err: tt.createErr}
			svc := importer.NewService(tt.catalog, creator)

			res, txs, err := svc.Commit(context.Background(), scope, strings.NewReader(tt.input))

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				assert.Nil(t, txs)
				assert.Empty(t, creator.params)

				return
			}

			require.NoError(t, err)
			assert.Empty(t, res.Errors)
			assert.Len(t, txs, tt.wantSaved)
			require.Len(t, creator.params, tt.wantSaved)
			assert.Equal(t, "Farinha", creator.params[1].Description)
		})
	}
}

func TestService_Check_Latin1(t *testing.T) {
	// "Descrição" and "Serviços" encoded as Windows-1252.
	input := []byte("Data,Tipo,Descri\xe7\xe3o,Valor,Categoria\n01/01/2024,Receita,Servi\xe7o,100,Vendas\n")

	svc := importer.NewService(staticCatalog{snap: snapshot}, &recordingCreator{})

	res, err := svc.Check(context.Background(), scope, strings.NewReader(string(input)))
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Serviço", res.Items[0].Description)
}
