package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lobofinance/lobo/internal/http/auth"
	"github.com/lobofinance/lobo/internal/money"
	"github.com/lobofinance/lobo/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.update)
}

type createTransactionRequest struct {
	Type            transaction.Type `json:"type"`
	Description     string           `json:"description"`
	Amount          decimal.Decimal  `json:"amount"`
	Date            string           `json:"date"`
	Paid            bool             `json:"paid"`
	AccountID       *uuid.UUID       `json:"account_id"`
	CategoryID      *uuid.UUID       `json:"category_id"`
	SubcategoryID   *uuid.UUID       `json:"subcategory_id"`
	CostCenterID    *uuid.UUID       `json:"cost_center_id"`
	PaymentMethodID *uuid.UUID       `json:"payment_method_id"`
	FeePercent      decimal.Decimal  `json:"fee_percent"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.Scope(w, r)
	if !ok {
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := money.ParseDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), scope, transaction.CreateParams{
		Type:            req.Type,
		Description:     req.Description,
		Amount:          req.Amount,
		Date:            date,
		Paid:            req.Paid,
		AccountID:       req.AccountID,
		CategoryID:      req.CategoryID,
		SubcategoryID:   req.SubcategoryID,
		CostCenterID:    req.CostCenterID,
		PaymentMethodID: req.PaymentMethodID,
		FeePercent:      req.FeePercent,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.Scope(w, r)
	if !ok {
		return
	}

	filter, err := parseListFilter(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.svc.List(r.Context(), scope, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func parseListFilter(q url.Values) (transaction.ListFilter, error) {
	var filter transaction.ListFilter

	if s := q.Get("status"); s != "" {
		filter.Status = new(transaction.Status(s))
	}

	if s := q.Get("type"); s != "" {
		filter.Type = new(transaction.Type(s))
	}

	ids := map[string]**uuid.UUID{
		"account_id":     &filter.AccountID,
		"category_id":    &filter.CategoryID,
		"cost_center_id": &filter.CostCenterID,
	}

	for key, dst := range ids {
		s := q.Get(key)
		if s == "" {
			continue
		}

		id, err := uuid.Parse(s)
		if err != nil {
			return filter, errors.New("invalid " + key)
		}

		*dst = &id
	}

	ints := map[string]**int{
		"year":  &filter.Year,
		"month": &filter.Month,
	}

	for key, dst := range ints {
		s := q.Get(key)
		if s == "" {
			continue
		}

		n, err := strconv.Atoi(s)
		if err != nil {
			return filter, errors.New("invalid " + key)
		}

		*dst = &n
	}

	dates := map[string]**time.Time{
		"start_date": &filter.StartDate,
		"end_date":   &filter.EndDate,
	}

	for key, dst := range dates {
		s := q.Get(key)
		if s == "" {
			continue
		}

		d, err := money.ParseDate(s)
		if err != nil {
			return filter, errors.New("invalid " + key)
		}

		*dst = &d
	}

	return filter, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.Scope(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), scope, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.Scope(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), scope, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	Type            *transaction.Type `json:"type,omitempty"`
	Description     *string           `json:"description,omitempty"`
	Amount          *decimal.Decimal  `json:"amount,omitempty"`
	Date            *string           `json:"date,omitempty"`
	Paid            *bool             `json:"paid,omitempty"`
	AccountID       *uuid.UUID        `json:"account_id,omitempty"`
	CategoryID      *uuid.UUID        `json:"category_id,omitempty"`
	SubcategoryID   *uuid.UUID        `json:"subcategory_id,omitempty"`
	CostCenterID    *uuid.UUID        `json:"cost_center_id,omitempty"`
	PaymentMethodID *uuid.UUID        `json:"payment_method_id,omitempty"`
	FeePercent      *decimal.Decimal  `json:"fee_percent,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.Scope(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := transaction.UpdateParams{
		Type:            req.Type,
		Description:     req.Description,
		Amount:          req.Amount,
		Paid:            req.Paid,
		AccountID:       req.AccountID,
		CategoryID:      req.CategoryID,
		SubcategoryID:   req.SubcategoryID,
		CostCenterID:    req.CostCenterID,
		PaymentMethodID: req.PaymentMethodID,
		FeePercent:      req.FeePercent,
	}

	if req.Date != nil {
		date, err := money.ParseDate(*req.Date)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		params.Date = &date
	}

	tx, err := h.svc.Update(r.Context(), scope, id, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)
	case errors.Is(err, transaction.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("transaction request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
