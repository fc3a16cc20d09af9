package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lobofinance/lobo/internal/http/auth"
	"github.com/lobofinance/lobo/internal/report"
	"github.com/lobofinance/lobo/internal/transaction"
)

type Handler struct {
	svc *report.Service
	now func() time.Time
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/statement/{accountID}", h.statement)
	r.Get("/{kind}", h.build)
}

func parseFilter(q url.Values, now time.Time) (report.Filter, error) {
	var filter report.Filter

	from, to, err := report.Period(report.Preset(q.Get("period")), now, q.Get("from"), q.Get("to"))
	if err != nil {
		return filter, err
	}

	filter.From, filter.To = from, to

	switch q.Get("status") {
	case "", "all":
	case string(transaction.StatusRealized):
		filter.Status = new(transaction.StatusRealized)
	case string(transaction.StatusProjected):
		filter.Status = new(transaction.StatusProjected)
	default:
		return filter, fmt.Errorf("invalid status %q", q.Get("status"))
	}

	if filter.AccountIDs, err = parseIDs(q["account_id"]); err != nil {
		return filter, err
	}

	if filter.CostCenterIDs, err = parseIDs(q["cost_center_id"]); err != nil {
		return filter, err
	}

	return filter, nil
}

func parseIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))

	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", v)
		}

		ids = append(ids, id)
	}

	return ids, nil
}

func (h *Handler) build(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.Scope(w, r)
	if !ok {
		return
	}

	kind := report.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		http.Error(w, "unknown report kind", http.StatusNotFound)
		return
	}

	filter, err := parseFilter(r.URL.Query(), h.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rep, err := h.svc.Build(r.Context(), scope, kind, filter)
	if err != nil {
		slog.Error("failed to build report", "kind", kind, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(kind)))

		if err := report.WriteCSV(w, rep); err != nil {
			slog.Error("failed to write csv", "error", err)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(rep); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.Scope(w, r)
	if !ok {
		return
	}

	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}

	year := h.now().Year()
	if s := r.URL.Query().Get("year"); s != "" {
		if year, err = strconv.Atoi(s); err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}
	}

	var month *int

	if s := r.URL.Query().Get("month"); s != "" && s != "all" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			http.Error(w, "invalid month", http.StatusBadRequest)
			return
		}

		month = &m
	}

	st, err := h.svc.Statement(r.Context(), scope, accountID, year, month)
	if err != nil {
		if errors.Is(err, report.ErrAccountNotFound) {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}

		slog.Error("failed to build statement", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(st); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
