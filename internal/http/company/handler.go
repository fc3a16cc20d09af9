package company

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lobofinance/lobo/internal/company"
	"github.com/lobofinance/lobo/internal/http/auth"
)

type Handler struct {
	svc *company.Service
}

func NewHandler(svc *company.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	companies, err := h.svc.List(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list companies", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if companies == nil {
		companies = []*company.Company{}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(companies); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type createRequest struct {
	Name string `json:"name"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.Create(r.Context(), userID, req.Name)
	if err != nil {
		if errors.Is(err, company.ErrNameRequired) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to create company", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(c); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
