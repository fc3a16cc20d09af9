package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lobofinance/lobo/internal/encoding"
	"github.com/lobofinance/lobo/internal/http/auth"
	"github.com/lobofinance/lobo/internal/importer"
	"github.com/lobofinance/lobo/internal/transaction"
)

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.check)
	r.Post("/confirm", h.confirm)
}

// maxUploadSize caps the whole request body: the file limit of the importer
// plus room for the multipart envelope.
const maxUploadSize = 11 << 20

type checkResponse struct {
	Valid  bool             `json:"valid"`
	Errors []string         `json:"errors"`
	Items  []importer.Draft `json:"items"`
}

type importSuccessResponse struct {
	Imported int         `json:"imported"`
	IDs      []uuid.UUID `json:"ids"`
}

func toCheckResponse(res importer.Result) checkResponse {
	return checkResponse{
		Valid:  res.Valid(),
		Errors: res.Errors,
		Items:  res.Items,
	}
}

// check validates an uploaded file without storing anything.
func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.Scope(w, r)
	if !ok {
		return
	}

	file, ok := openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	res, err := h.importSvc.Check(r.Context(), scope, file)
	if err != nil {
		if errors.Is(err, encoding.ErrTooLarge) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}

		slog.Error("failed to check import", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	status := http.StatusOK
	if len(res.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, toCheckResponse(res))
}

// confirm re-validates the file and stores every row, or nothing.
func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.Scope(w, r)
	if !ok {
		return
	}

	file, ok := openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	res, txs, err := h.importSvc.Commit(r.Context(), scope, file)
	if err != nil {
		if errors.Is(err, importer.ErrRejected) {
			writeJSON(w, http.StatusUnprocessableEntity, toCheckResponse(res))
			return
		}

		if errors.Is(err, encoding.ErrTooLarge) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}

		slog.Error("failed to commit import", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, toSuccessResponse(txs))
}

// openUpload returns the "file" part of a multipart request. Bodies over
// maxUploadSize are rejected before anything is spooled to disk.
func openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}

		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)

		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return nil, false
	}

	return file, true
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	ids := make([]uuid.UUID, 0, len(txs))
	for _, tx := range txs {
		ids = append(ids, tx.ID)
	}

	return importSuccessResponse{
		Imported: len(txs),
		IDs:      ids,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
