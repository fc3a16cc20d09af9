package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("transaction not found")
	ErrInvalid  = errors.New("invalid transaction")
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Status is the cash state of a transaction, derived from Paid.
type Status string

const (
	StatusRealized  Status = "realized"
	StatusProjected Status = "projected"
)

// Transaction represents a financial transaction of a company.
type Transaction struct {
	ID              uuid.UUID
	Type            Type
	Description     string
	Amount          decimal.Decimal
	Date            time.Time
	Paid            bool
	AccountID       *uuid.UUID
	CategoryID      *uuid.UUID
	SubcategoryID   *uuid.UUID
	CostCenterID    *uuid.UUID
	PaymentMethodID *uuid.UUID
	FeePercent      decimal.Decimal // fraction, e.g. 0.035; only income carries a fee
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

func (t *Transaction) Status() Status {
	if t.Paid {
		return StatusRealized
	}

	return StatusProjected
}

// CardFee is the processing fee withheld from an income transaction.
func (t *Transaction) CardFee() decimal.Decimal {
	if t.Type != TypeIncome {
		return decimal.Zero
	}

	return t.Amount.Mul(t.FeePercent)
}

// Net is the signed cash effect: income minus its card fee, or minus the
// expense amount.
func (t *Transaction) Net() decimal.Decimal {
	if t.Type == TypeIncome {
		return t.Amount.Sub(t.CardFee())
	}

	return t.Amount.Neg()
}
