// Package report builds the income statement (DRE), cash-flow and account
// statement reports of a company.
package report

import (
	"cmp"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lobofinance/lobo/internal/catalog"
	"github.com/lobofinance/lobo/internal/transaction"
)

var ErrUnknownKind = errors.New("unknown report kind")

type Kind string

const (
	KindDRE         Kind = "dre"
	KindCashDaily   Kind = "cash-daily"
	KindCashMonthly Kind = "cash-monthly"
)

func (k Kind) Valid() bool {
	return k == KindDRE || k == KindCashDaily || k == KindCashMonthly
}

func (k Kind) Title() string {
	switch k {
	case KindDRE:
		return "DRE - Demonstrativo de Resultados"
	case KindCashDaily:
		return "Fluxo de Caixa Diário"
	case KindCashMonthly:
		return "Fluxo de Caixa Mensal"
	}

	return string(k)
}

const uncategorized = "Sem categoria"

// Filter selects the transactions of a report. Empty id lists match all.
type Filter struct {
	From          *time.Time
	To            *time.Time
	Status        *transaction.Status
	AccountIDs    []uuid.UUID
	CostCenterIDs []uuid.UUID
}

func (f Filter) Match(tx *transaction.Transaction) bool {
	switch {
	case f.From != nil && tx.Date.Before(*f.From):
		return false
	case f.To != nil && tx.Date.After(*f.To):
		return false
	case f.Status != nil && tx.Status() != *f.Status:
		return false
	case !inIDs(f.AccountIDs, tx.AccountID):
		return false
	case !inIDs(f.CostCenterIDs, tx.CostCenterID):
		return false
	}

	return true
}

func inIDs(ids []uuid.UUID, id *uuid.UUID) bool {
	if len(ids) == 0 {
		return true
	}

	return id != nil && slices.Contains(ids, *id)
}

type Row struct {
	Label   string          `json:"label"`
	Type    string          `json:"type"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
	Running decimal.Decimal `json:"running"`
}

type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

type Report struct {
	Kind   Kind   `json:"kind"`
	Title  string `json:"title"`
	Rows   []Row  `json:"rows"`
	Totals Totals `json:"totals"`
}

// Build runs the report of the given kind over the transactions that pass
// filter. Income is always reported net of its card fee.
func Build(kind Kind, txs []*transaction.Transaction, filter Filter, snap catalog.Snapshot) (Report, error) {
	var items []*transaction.Transaction

	for _, tx := range txs {
		if filter.Match(tx) {
			items = append(items, tx)
		}
	}

	var r Report

	switch kind {
	case KindDRE:
		r = dre(items, snap)
	case KindCashDaily:
		r = cashFlow(items, func(d time.Time) string { return d.Format(time.DateOnly) }, "day", "02/01/2006")
	case KindCashMonthly:
		r = cashFlow(items, func(d time.Time) string { return d.Format("2006-01") }, "month", "01/2006")
	default:
		return Report{}, ErrUnknownKind
	}

	r.Kind = kind
	r.Title = kind.Title()
	r.Totals.Net = r.Totals.Income.Sub(r.Totals.Expense)

	return r, nil
}

func dre(items []*transaction.Transaction, snap catalog.Snapshot) Report {
	type key struct {
		typ      transaction.Type
		category uuid.UUID
	}

	var (
		order []key
		nets  = make(map[key]decimal.Decimal)
		r     Report
	)

	names := snap.CategoryNames()

	for _, tx := range items {
		k := key{typ: tx.Type}
		if tx.CategoryID != nil {
			if _, ok := names[*tx.CategoryID]; ok {
				k.category = *tx.CategoryID
			}
		}

		if _, ok := nets[k]; !ok {
			order = append(order, k)
		}

		net := tx.Net()
		nets[k] = nets[k].Add(net)

		if tx.Type == transaction.TypeIncome {
			r.Totals.Income = r.Totals.Income.Add(net)
		} else {
			r.Totals.Expense = r.Totals.Expense.Sub(net)
		}
	}

	r.Rows = make([]Row, 0, len(order))

	for _, k := range order {
		net := nets[k]
		row := Row{Label: uncategorized, Type: string(k.typ), Net: net}

		if name, ok := names[k.category]; ok {
			row.Label = name
		}

		if k.typ == transaction.TypeIncome {
			row.Income = net.Abs()
		} else {
			row.Expense = net.Abs()
		}

		r.Rows = append(r.Rows, row)
	}

	slices.SortStableFunc(r.Rows, func(a, b Row) int {
		return b.Net.Abs().Cmp(a.Net.Abs())
	})

	return r
}

// cashFlow groups items by period key, oldest first, carrying a running
// balance.
func cashFlow(items []*transaction.Transaction, keyOf func(time.Time) string, rowType, labelLayout string) Report {
	type bucket struct {
		date    time.Time
		income  decimal.Decimal
		expense decimal.Decimal
	}

	buckets := make(map[string]*bucket)

	for _, tx := range items {
		k := keyOf(tx.Date)

		b, ok := buckets[k]
		if !ok {
			b = &bucket{date: tx.Date}
			buckets[k] = b
		}

		if tx.Type == transaction.TypeIncome {
			b.income = b.income.Add(tx.Net().Abs())
		} else {
			b.expense = b.expense.Add(tx.Net().Abs())
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, cmp.Compare[string])

	var (
		r       Report
		running decimal.Decimal
	)

	r.Rows = make([]Row, 0, len(keys))

	for _, k := range keys {
		b := buckets[k]
		net := b.income.Sub(b.expense)
		running = running.Add(net)

		r.Totals.Income = r.Totals.Income.Add(b.income)
		r.Totals.Expense = r.Totals.Expense.Add(b.expense)
		r.Rows = append(r.Rows, Row{
			Label:   b.date.Format(labelLayout),
			Type:    rowType,
			Income:  b.income,
			Expense: b.expense,
			Net:     net,
			Running: running,
		})
	}

	return r
}
