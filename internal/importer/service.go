package importer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/lobofinance/lobo/internal/catalog"
	enc "github.com/lobofinance/lobo/internal/encoding"
	"github.com/lobofinance/lobo/internal/tenant"
	"github.com/lobofinance/lobo/internal/transaction"
)

// ErrRejected is returned by Commit when the file has any invalid row or no
// rows at all. Nothing is stored in that case.
var ErrRejected = errors.New("import rejected")

// maxFileSize bounds how much of an uploaded file is read.
const maxFileSize = 10 << 20

type CatalogProvider interface {
	Snapshot(ctx context.Context, scope tenant.Scope) (catalog.Snapshot, error)
}

type BatchCreator interface {
	CreateBatch(ctx context.Context, scope tenant.Scope, params []transaction.CreateParams) ([]*transaction.Transaction, error)
}

type Service struct {
	catalogs     CatalogProvider
	transactions BatchCreator
}

func NewService(catalogs CatalogProvider, transactions BatchCreator) *Service {
	return &Service{
		catalogs:     catalogs,
		transactions: transactions,
	}
}

// Check decodes r to UTF-8 and validates it against the scope's catalog.
func (s *Service) Check(ctx context.Context, scope tenant.Scope, r io.Reader) (Result, error) {
	text, err := readText(r)
	if err != nil {
		return Result{}, err
	}

	snap, err := s.catalogs.Snapshot(ctx, scope)
	if err != nil {
		return Result{}, fmt.Errorf("loading catalog: %w", err)
	}

	return Validate(text, snap), nil
}

// Commit validates r and stores every row, or none when any row is invalid.
func (s *Service) Commit(ctx context.Context, scope tenant.Scope, r io.Reader) (Result, []*transaction.Transaction, error) {
	res, err := s.Check(ctx, scope, r)
	if err != nil {
		return Result{}, nil, err
	}

	if !res.Valid() {
		return res, nil, ErrRejected
	}

	params := make([]transaction.CreateParams, len(res.Items))
	for i, d := range res.Items {
		params[i] = d.Params()
	}

	txs, err := s.transactions.CreateBatch(ctx, scope, params)
	if err != nil {
		return res, nil, fmt.Errorf("storing import: %w", err)
	}

	return res, txs, nil
}

func readText(r io.Reader) (string, error) {
	text, err := enc.ReadText(r, maxFileSize)
	if err != nil {
		return "", fmt.Errorf("reading import file: %w", err)
	}

	return text, nil
}
