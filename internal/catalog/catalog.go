package catalog

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lobofinance/lobo/internal/transaction"
)

var (
	ErrNotFound    = errors.New("catalog item not found")
	ErrInvalidKind = errors.New("unknown catalog kind")
	ErrInvalid     = errors.New("invalid catalog item")
)

// Kind names one of the catalog collections.
type Kind string

const (
	KindCategories     Kind = "categories"
	KindSubcategories  Kind = "subcategories"
	KindCostCenters    Kind = "cost_centers"
	KindAccounts       Kind = "accounts"
	KindPaymentMethods Kind = "payment_methods"
	KindFees           Kind = "fees"
)

func (k Kind) Valid() bool {
	switch k {
	case KindCategories, KindSubcategories, KindCostCenters, KindAccounts, KindPaymentMethods, KindFees:
		return true
	}

	return false
}

type Category struct {
	ID            uuid.UUID
	Name          string
	Type          transaction.Type
	Subcategories []Subcategory
}

type Subcategory struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Name       string
}

type CostCenter struct {
	ID   uuid.UUID
	Name string
}

type Account struct {
	ID             uuid.UUID
	Name           string
	InitialBalance decimal.Decimal
	IsDefault      bool
}

type PaymentMethod struct {
	ID   uuid.UUID
	Name string
	Fees []Fee
}

// Fee is a named percentage charged by a payment method, e.g. 0.035 for 3.5%.
type Fee struct {
	ID              uuid.UUID
	PaymentMethodID uuid.UUID
	Name            string
	Percent         decimal.Decimal
}

// Snapshot is the read-only catalog of one company.
type Snapshot struct {
	Categories     []Category
	CostCenters    []CostCenter
	Accounts       []Account
	PaymentMethods []PaymentMethod
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (s Snapshot) CategoryByName(name string) (Category, bool) {
	for _, c := range s.Categories {
		if sameName(c.Name, name) {
			return c, true
		}
	}

	return Category{}, false
}

func (s Snapshot) CostCenterByName(name string) (CostCenter, bool) {
	for _, c := range s.CostCenters {
		if sameName(c.Name, name) {
			return c, true
		}
	}

	return CostCenter{}, false
}

func (s Snapshot) AccountByName(name string) (Account, bool) {
	for _, a := range s.Accounts {
		if sameName(a.Name, name) {
			return a, true
		}
	}

	return Account{}, false
}

func (s Snapshot) PaymentMethodByName(name string) (PaymentMethod, bool) {
	for _, pm := range s.PaymentMethods {
		if sameName(pm.Name, name) {
			return pm, true
		}
	}

	return PaymentMethod{}, false
}

// DefaultAccount returns the flagged default account, falling back to the
// first account when none is flagged.
func (s Snapshot) DefaultAccount() (Account, bool) {
	for _, a := range s.Accounts {
		if a.IsDefault {
			return a, true
		}
	}

	if len(s.Accounts) > 0 {
		return s.Accounts[0], true
	}

	return Account{}, false
}

func (s Snapshot) Account(id uuid.UUID) (Account, bool) {
	for _, a := range s.Accounts {
		if a.ID == id {
			return a, true
		}
	}

	return Account{}, false
}

// FeePercent resolves a payment method and fee by name. Any miss yields zero.
func (s Snapshot) FeePercent(paymentMethod, fee string) decimal.Decimal {
	pm, ok := s.PaymentMethodByName(paymentMethod)
	if !ok {
		return decimal.Zero
	}

	for _, f := range pm.Fees {
		if sameName(f.Name, fee) {
			return f.Percent
		}
	}

	return decimal.Zero
}

// CategoryNames maps category ids to their display names.
func (s Snapshot) CategoryNames() map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(s.Categories))
	for _, c := range s.Categories {
		names[c.ID] = c.Name
	}

	return names
}
