// Package dashboard turns a company's transactions into the figures shown on
// its dashboard: a summary, a trend series, category breakdowns and the most
// recent entries.
package dashboard

import (
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lobofinance/lobo/internal/catalog"
	"github.com/lobofinance/lobo/internal/money"
	"github.com/lobofinance/lobo/internal/transaction"
)

// UncategorizedLabel names the breakdown bucket of transactions without a
// category.
const UncategorizedLabel = "Uncategorized"

const lastTransactionsLimit = 5

var monthLabels = []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

type Summary struct {
	Income   decimal.Decimal `json:"income"`
	CardFees decimal.Decimal `json:"card_fees"`
	Expense  decimal.Decimal `json:"expense"`
	Profit   decimal.Decimal `json:"profit"`
	Margin   decimal.Decimal `json:"margin"`
}

type Trend struct {
	Labels  []string          `json:"labels"`
	Income  []decimal.Decimal `json:"income"`
	Expense []decimal.Decimal `json:"expense"`
}

type Breakdown struct {
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
}

type Categories struct {
	Income  Breakdown `json:"income"`
	Expense Breakdown `json:"expense"`
}

type LastTransaction struct {
	Description string           `json:"description"`
	Type        transaction.Type `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
}

type Result struct {
	Summary          Summary           `json:"summary"`
	Trend            Trend             `json:"trend"`
	Categories       Categories        `json:"categories"`
	LastTransactions []LastTransaction `json:"last_transactions"`
}

// Aggregate builds the dashboard of the transactions that pass filter.
//
// Card fees of income transactions are folded into the expense side of the
// summary and of the trend, while category breakdowns report raw amounts.
func Aggregate(txs []*transaction.Transaction, filter Filter, snap catalog.Snapshot) Result {
	var items []*transaction.Transaction

	for _, tx := range txs {
		if filter.Match(tx) {
			items = append(items, tx)
		}
	}

	return Result{
		Summary:          summarize(items),
		Trend:            trend(items, filter),
		Categories:       categories(items, snap),
		LastTransactions: lastTransactions(items),
	}
}

func summarize(items []*transaction.Transaction) Summary {
	var s Summary

	for _, tx := range items {
		switch tx.Type {
		case transaction.TypeIncome:
			s.Income = s.Income.Add(tx.Amount)
			s.CardFees = s.CardFees.Add(tx.CardFee())
		case transaction.TypeExpense:
			s.Expense = s.Expense.Add(tx.Amount)
		}
	}

	s.Expense = s.Expense.Add(s.CardFees)
	s.Profit = s.Income.Sub(s.Expense)

	if s.Income.IsPositive() {
		s.Margin = s.Profit.Div(s.Income)
	}

	return s
}

// trend buckets by month when no month is selected, otherwise by day of the
// selected month.
func trend(items []*transaction.Transaction, filter Filter) Trend {
	var (
		labels []string
		bucket func(time.Time) int
	)

	if filter.Month == nil {
		labels = monthLabels
		bucket = func(d time.Time) int { return int(d.Month()) - 1 }
	} else {
		// Without a year, February keeps its 29th day.
		year := 2024
		if filter.Year != nil {
			year = *filter.Year
		}

		days := money.DaysIn(year, time.Month(*filter.Month))

		labels = make([]string, days)
		for i := range labels {
			labels[i] = strconv.Itoa(i + 1)
		}

		bucket = func(d time.Time) int { return d.Day() - 1 }
	}

	t := Trend{
		Labels:  slices.Clone(labels),
		Income:  zeros(len(labels)),
		Expense: zeros(len(labels)),
	}

	for _, tx := range items {
		i := bucket(tx.Date)
		if i < 0 || i >= len(labels) {
			continue
		}

		switch tx.Type {
		case transaction.TypeIncome:
			t.Income[i] = t.Income[i].Add(tx.Amount)
			t.Expense[i] = t.Expense[i].Add(tx.CardFee())
		case transaction.TypeExpense:
			t.Expense[i] = t.Expense[i].Add(tx.Amount)
		}
	}

	return t
}

func zeros(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.Zero
	}

	return out
}

// categories groups raw amounts by category. Transactions whose category is
// missing or no longer in the catalog share the uncategorized bucket.
func categories(items []*transaction.Transaction, snap catalog.Snapshot) Categories {
	names := snap.CategoryNames()
	income := newGrouping()
	expense := newGrouping()

	for _, tx := range items {
		g := expense
		if tx.Type == transaction.TypeIncome {
			g = income
		}

		key := uuid.Nil
		if tx.CategoryID != nil {
			if _, ok := names[*tx.CategoryID]; ok {
				key = *tx.CategoryID
			}
		}

		g.add(key, tx.Amount)
	}

	return Categories{
		Income:  income.breakdown(names),
		Expense: expense.breakdown(names),
	}
}

// grouping sums amounts per category, remembering first-seen order.
type grouping struct {
	order []uuid.UUID
	sums  map[uuid.UUID]decimal.Decimal
}

func newGrouping() *grouping {
	return &grouping{sums: make(map[uuid.UUID]decimal.Decimal)}
}

func (g *grouping) add(key uuid.UUID, amount decimal.Decimal) {
	sum, ok := g.sums[key]
	if !ok {
		g.order = append(g.order, key)
	}

	g.sums[key] = sum.Add(amount)
}

func (g *grouping) breakdown(names map[uuid.UUID]string) Breakdown {
	b := Breakdown{
		Labels: make([]string, 0, len(g.order)),
		Values: make([]decimal.Decimal, 0, len(g.order)),
	}

	for _, key := range g.order {
		label := UncategorizedLabel
		if name, ok := names[key]; ok {
			label = name
		}

		b.Labels = append(b.Labels, label)
		b.Values = append(b.Values, g.sums[key])
	}

	return b
}

func lastTransactions(items []*transaction.Transaction) []LastTransaction {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b *transaction.Transaction) int {
		return b.Date.Compare(a.Date)
	})

	out := make([]LastTransaction, 0, lastTransactionsLimit)

	for _, tx := range sorted[:min(len(sorted), lastTransactionsLimit)] {
		out = append(out, LastTransaction{
			Description: tx.Description,
			Type:        tx.Type,
			Amount:      tx.Amount,
		})
	}

	return out
}
