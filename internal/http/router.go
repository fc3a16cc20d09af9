package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lobofinance/lobo/internal/http/auth"
	"github.com/lobofinance/lobo/internal/http/catalog"
	"github.com/lobofinance/lobo/internal/http/company"
	"github.com/lobofinance/lobo/internal/http/dashboard"
	"github.com/lobofinance/lobo/internal/http/importcsv"
	"github.com/lobofinance/lobo/internal/http/report"
	"github.com/lobofinance/lobo/internal/http/transaction"
)

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Timeout        time.Duration
	Companies      auth.CompanyGetter
}

type Handlers struct {
	Companies    *company.Handler
	Catalogs     *catalog.Handler
	Transactions *transaction.Handler
	Dashboard    *dashboard.Handler
	Import       *importcsv.Handler
	Reports      *report.Handler
}

func New(opts Options, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(opts.Timeout))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", auth.CompanyHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Authenticate(opts.JWTSecret))

		r.Route("/companies", h.Companies.Routes)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireCompany(opts.Companies))

			r.Route("/catalogs", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Catalogs.Routes(r)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Transactions.Routes(r)
			})

			r.Route("/dashboard", h.Dashboard.Routes)
			r.Route("/import", h.Import.Routes)
			r.Route("/reports", h.Reports.Routes)
		})
	})

	return router
}
