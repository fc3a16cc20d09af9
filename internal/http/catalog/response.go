package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lobofinance/lobo/internal/catalog"
	"github.com/lobofinance/lobo/internal/transaction"
)

type subcategoryResponse struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
}

type categoryResponse struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	Type          transaction.Type      `json:"type"`
	Subcategories []subcategoryResponse `json:"subcategories"`
}

type costCenterResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type accountResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	IsDefault      bool            `json:"is_default"`
}

type feeResponse struct {
	ID              uuid.UUID       `json:"id"`
	PaymentMethodID uuid.UUID       `json:"payment_method_id"`
	Name            string          `json:"name"`
	Percent         decimal.Decimal `json:"percent"`
}

type paymentMethodResponse struct {
	ID   uuid.UUID     `json:"id"`
	Name string        `json:"name"`
	Fees []feeResponse `json:"fees"`
}

type snapshotResponse struct {
	Categories     []categoryResponse      `json:"categories"`
	CostCenters    []costCenterResponse    `json:"cost_centers"`
	Accounts       []accountResponse       `json:"accounts"`
	PaymentMethods []paymentMethodResponse `json:"payment_methods"`
}

type itemResponse struct {
	Kind           catalog.Kind     `json:"kind"`
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Type           transaction.Type `json:"type,omitempty"`
	ParentID       *uuid.UUID       `json:"parent_id,omitempty"`
	Percent        decimal.Decimal  `json:"percent"`
	InitialBalance decimal.Decimal  `json:"initial_balance"`
	IsDefault      bool             `json:"is_default"`
}

func toSnapshotResponse(s catalog.Snapshot) snapshotResponse {
	resp := snapshotResponse{
		Categories:     make([]categoryResponse, 0, len(s.Categories)),
		CostCenters:    make([]costCenterResponse, 0, len(s.CostCenters)),
		Accounts:       make([]accountResponse, 0, len(s.Accounts)),
		PaymentMethods: make([]paymentMethodResponse, 0, len(s.PaymentMethods)),
	}

	for _, c := range s.Categories {
		cr := categoryResponse{ID: c.ID, Name: c.Name, Type: c.Type, Subcategories: make([]subcategoryResponse, 0, len(c.Subcategories))}
		for _, sc := range c.Subcategories {
			cr.Subcategories = append(cr.Subcategories, subcategoryResponse(sc))
		}

		resp.Categories = append(resp.Categories, cr)
	}

	for _, cc := range s.CostCenters {
		resp.CostCenters = append(resp.CostCenters, costCenterResponse(cc))
	}

	for _, a := range s.Accounts {
		resp.Accounts = append(resp.Accounts, accountResponse(a))
	}

	for _, pm := range s.PaymentMethods {
		pr := paymentMethodResponse{ID: pm.ID, Name: pm.Name, Fees: make([]feeResponse, 0, len(pm.Fees))}
		for _, f := range pm.Fees {
			pr.Fees = append(pr.Fees, feeResponse(f))
		}

		resp.PaymentMethods = append(resp.PaymentMethods, pr)
	}

	return resp
}

func toItemResponse(item *catalog.Item) itemResponse {
	return itemResponse(*item)
}
