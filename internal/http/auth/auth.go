// Package auth verifies bearer tokens and resolves the company a request
// works on.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lobofinance/lobo/internal/company"
	"github.com/lobofinance/lobo/internal/tenant"
)

const CompanyHeader = "X-Company-ID"

type userKey struct{}

// UserID returns the authenticated user stored by Authenticate.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userKey{}).(uuid.UUID)
	return id, ok
}

func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

// Authenticate accepts HS256 tokens signed with secret whose subject is the
// user id.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	keyFunc := func(*jwt.Token) (any, error) {
		return secret, nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			var claims jwt.RegisteredClaims
			if _, err := parser.ParseWithClaims(strings.TrimSpace(raw), &claims, keyFunc); err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token subject")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

type CompanyGetter interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*company.Company, error)
}

// RequireCompany reads the company from the company_id query parameter or
// the X-Company-ID header and stores the tenant scope once ownership is
// confirmed.
func RequireCompany(companies CompanyGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserID(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthenticated")
				return
			}

			raw := r.URL.Query().Get("company_id")
			if raw == "" {
				raw = r.Header.Get(CompanyHeader)
			}

			if raw == "" {
				writeError(w, http.StatusBadRequest, "company_id is required")
				return
			}

			companyID, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid company_id")
				return
			}

			if _, err := companies.Get(r.Context(), userID, companyID); err != nil {
				if errors.Is(err, company.ErrNotFound) {
					writeError(w, http.StatusNotFound, "company not found")
					return
				}

				slog.Error("failed to resolve company", "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")

				return
			}

			scope := tenant.Scope{UserID: userID, CompanyID: companyID}
			next.ServeHTTP(w, r.WithContext(tenant.WithScope(r.Context(), scope)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Scope returns the tenant scope stored by RequireCompany, answering 400
// when the route was mounted without it.
func Scope(w http.ResponseWriter, r *http.Request) (tenant.Scope, bool) {
	scope, ok := tenant.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "company_id is required")
	}

	return scope, ok
}
