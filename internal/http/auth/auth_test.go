package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lobofinance/lobo/internal/company"
	"github.com/lobofinance/lobo/internal/http/auth"
	"github.com/lobofinance/lobo/internal/tenant"
)

var secret = []byte("test-secret")

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()

	valid := sign(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	type testCase struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}

	testCases := []testCase{
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantError: "missing bearer token"},
		{name: "wrong scheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized, wantError: "missing bearer token"},
		{
			name:       "wrong secret",
			header:     "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: userID.String()}),
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid token",
		},
		{
			name: "expired",
			header: "Bearer " + sign(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{
				Subject:   userID.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			}),
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid token",
		},
		{
			name:       "subject is not a uuid",
			header:     "Bearer " + sign(t, jwt.SigningMethodHS256, secret, jwt.RegisteredClaims{Subject: "alice"}),
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid token subject",
		},
		{
			name:       "other algorithm",
			header:     "Bearer " + sign(t, jwt.SigningMethodHS512, secret, jwt.RegisteredClaims{Subject: userID.String()}),
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid token",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var seen uuid.UUID

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = auth.UserID(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			rec := httptest.NewRecorder()
			auth.Authenticate(secret)(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)

			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, userID, seen)
			} else {
				assert.JSONEq(t, `{"error":"`+tc.wantError+`"}`, rec.Body.String())
			}
		})
	}
}

type companyGetter struct {
	owner uuid.UUID
	id    uuid.UUID
	err   error
}

func (g companyGetter) Get(_ context.Context, userID, id uuid.UUID) (*company.Company, error) {
	if g.err != nil {
		return nil, g.err
	}

	if userID != g.owner || id != g.id {
		return nil, company.ErrNotFound
	}

	return &company.Company{ID: id, Name: "Loja"}, nil
}

func TestRequireCompany(t *testing.T) {
	owner, companyID := uuid.New(), uuid.New()

	type testCase struct {
		name       string
		userID     *uuid.UUID
		query      string
		header     string
		getErr     error
		wantStatus int
	}

	testCases := []testCase{
		{name: "query parameter", userID: &owner, query: companyID.String(), wantStatus: http.StatusOK},
		{name: "header", userID: &owner, header: companyID.String(), wantStatus: http.StatusOK},
		{name: "missing", userID: &owner, wantStatus: http.StatusBadRequest},
		{name: "malformed", userID: &owner, query: "acme", wantStatus: http.StatusBadRequest},
		{name: "not owned", userID: new(uuid.New()), query: companyID.String(), wantStatus: http.StatusNotFound},
		{name: "unauthenticated", query: companyID.String(), wantStatus: http.StatusUnauthorized},
		{name: "store failure", userID: &owner, query: companyID.String(), getErr: errors.New("down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var scope tenant.Scope

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				scope, _ = tenant.FromContext(r.Context())
			})

			target := "/"
			if tc.query != "" {
				target += "?company_id=" + tc.query
			}

			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.header != "" {
				req.Header.Set(auth.CompanyHeader, tc.header)
			}

			if tc.userID != nil {
				req = req.WithContext(auth.WithUserID(req.Context(), *tc.userID))
			}

			rec := httptest.NewRecorder()
			mw := auth.RequireCompany(companyGetter{owner: owner, id: companyID, err: tc.getErr})
			mw(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)

			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, tenant.Scope{UserID: owner, CompanyID: companyID}, scope)
			}
		})
	}
}
