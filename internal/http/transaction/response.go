package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lobofinance/lobo/internal/transaction"
)

type transactionResponse struct {
	ID              uuid.UUID          `json:"id"`
	Type            transaction.Type   `json:"type"`
	Status          transaction.Status `json:"status"`
	Description     string             `json:"description"`
	Amount          decimal.Decimal    `json:"amount"`
	Date            string             `json:"date"`
	Paid            bool               `json:"paid"`
	AccountID       *uuid.UUID         `json:"account_id"`
	CategoryID      *uuid.UUID         `json:"category_id"`
	SubcategoryID   *uuid.UUID         `json:"subcategory_id"`
	CostCenterID    *uuid.UUID         `json:"cost_center_id"`
	PaymentMethodID *uuid.UUID         `json:"payment_method_id"`
	FeePercent      decimal.Decimal    `json:"fee_percent"`
	FeeAmount       decimal.Decimal    `json:"fee_amount"`
	Net             decimal.Decimal    `json:"net"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       *time.Time         `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:              tx.ID,
		Type:            tx.Type,
		Status:          tx.Status(),
		Description:     tx.Description,
		Amount:          tx.Amount,
		Date:            tx.Date.Format(time.DateOnly),
		Paid:            tx.Paid,
		AccountID:       tx.AccountID,
		CategoryID:      tx.CategoryID,
		SubcategoryID:   tx.SubcategoryID,
		CostCenterID:    tx.CostCenterID,
		PaymentMethodID: tx.PaymentMethodID,
		FeePercent:      tx.FeePercent,
		FeeAmount:       tx.CardFee(),
		Net:             tx.Net(),
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
