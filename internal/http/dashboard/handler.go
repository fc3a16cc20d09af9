package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lobofinance/lobo/internal/dashboard"
	"github.com/lobofinance/lobo/internal/http/auth"
)

type Handler struct {
	svc *dashboard.Service
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.Scope(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Load(r.Context(), scope, dashboard.ParseFilter(r.URL.Query()))
	if err != nil {
		slog.Error("failed to load dashboard", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
