package dashboard

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/lobofinance/lobo/internal/transaction"
)

// Filter narrows the transactions a dashboard is built from. A nil field
// matches everything.
type Filter struct {
	Year         *int
	Month        *int
	Status       *transaction.Status
	Type         *transaction.Type
	CostCenterID *uuid.UUID
	CategoryID   *uuid.UUID
	AccountID    *uuid.UUID
}

func (f Filter) Match(tx *transaction.Transaction) bool {
	switch {
	case f.Year != nil && tx.Date.Year() != *f.Year:
		return false
	case f.Month != nil && int(tx.Date.Month()) != *f.Month:
		return false
	case f.Status != nil && tx.Status() != *f.Status:
		return false
	case f.Type != nil && tx.Type != *f.Type:
		return false
	case f.CostCenterID != nil && !sameID(tx.CostCenterID, *f.CostCenterID):
		return false
	case f.CategoryID != nil && !sameID(tx.CategoryID, *f.CategoryID):
		return false
	case f.AccountID != nil && !sameID(tx.AccountID, *f.AccountID):
		return false
	}

	return true
}

func sameID(got *uuid.UUID, want uuid.UUID) bool {
	return got != nil && *got == want
}

// ParseFilter reads filter values from query parameters. Missing, "all" and
// malformed values leave the corresponding filter unset.
func ParseFilter(q url.Values) Filter {
	var f Filter

	if y, err := strconv.Atoi(value(q, "year")); err == nil && y > 0 {
		f.Year = &y
	}

	if m, err := strconv.Atoi(value(q, "month")); err == nil && m >= 1 && m <= 12 {
		f.Month = &m
	}

	switch value(q, "status") {
	case "realized", "realizado", "paid":
		f.Status = new(transaction.StatusRealized)
	case "projected", "projetado", "pending":
		f.Status = new(transaction.StatusProjected)
	}

	switch value(q, "type") {
	case "income", "receita":
		f.Type = new(transaction.TypeIncome)
	case "expense", "despesa":
		f.Type = new(transaction.TypeExpense)
	}

	f.CostCenterID = parseID(value(q, "cost_center"))
	f.CategoryID = parseID(value(q, "category_id"))
	f.AccountID = parseID(value(q, "account_id"))

	return f
}

func value(q url.Values, key string) string {
	return strings.ToLower(strings.TrimSpace(q.Get(key)))
}

func parseID(s string) *uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}

	return &id
}
