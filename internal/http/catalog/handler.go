package catalog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lobofinance/lobo/internal/catalog"
	"github.com/lobofinance/lobo/internal/http/auth"
	"github.com/lobofinance/lobo/internal/transaction"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.snapshot)
	r.Post("/{kind}", h.create)
	r.Patch("/{kind}/{id}", h.update)
	r.Delete("/{kind}/{id}", h.delete)
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.Scope(w, r)
	if !ok {
		return
	}

	snap, err := h.svc.Snapshot(r.Context(), scope)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toSnapshotResponse(snap)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type createItemRequest struct {
	Name           string           `json:"name"`
	Type           transaction.Type `json:"type"`
	ParentID       *uuid.UUID       `json:"parent_id"`
	Percent        decimal.Decimal  `json:"percent"`
	InitialBalance decimal.Decimal  `json:"initial_balance"`
	IsDefault      bool             `json:"is_default"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.Scope(w, r)
	if !ok {
		return
	}

	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.svc.Create(r.Context(), scope, catalog.Item{
		Kind:           catalog.Kind(chi.URLParam(r, "kind")),
		Name:           req.Name,
		Type:           req.Type,
		ParentID:       req.ParentID,
		Percent:        req.Percent,
		InitialBalance: req.InitialBalance,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toItemResponse(item)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateItemRequest struct {
	Name           *string           `json:"name,omitempty"`
	Type           *transaction.Type `json:"type,omitempty"`
	Percent        *decimal.Decimal  `json:"percent,omitempty"`
	InitialBalance *decimal.Decimal  `json:"initial_balance,omitempty"`
	IsDefault      *bool             `json:"is_default,omitempty"`
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

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = h.svc.Update(r.Context(), scope, catalog.Kind(chi.URLParam(r, "kind")), id, catalog.Patch(req))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
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

	if err := h.svc.Delete(r.Context(), scope, catalog.Kind(chi.URLParam(r, "kind")), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		http.Error(w, "catalog item not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrInvalidKind), errors.Is(err, catalog.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("catalog request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
