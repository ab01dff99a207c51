package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/orcamento/internal/http/alert"
	"github.com/MrJamesThe3rd/orcamento/internal/http/category"
	"github.com/MrJamesThe3rd/orcamento/internal/http/importcsv"
	"github.com/MrJamesThe3rd/orcamento/internal/http/matching"
	"github.com/MrJamesThe3rd/orcamento/internal/http/period"
)

type Options struct {
	AllowedOrigins []string
	Gatherer       prometheus.Gatherer
}

func New(
	opts Options,
	categoriesV1 *category.Handler,
	periodsV1 *period.Handler,
	importV1 *importcsv.Handler,
	alertsV1 *alert.Handler,
	rulesV1 *matching.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			categoriesV1.Routes(r)
		})

		r.Route("/periods", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				periodsV1.Routes(r)
			})

			r.Route("/current/import", importV1.Routes)
		})

		r.Route("/alerts", alertsV1.Routes)

		r.Route("/rules", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			rulesV1.Routes(r)
		})
	})

	return router
}
