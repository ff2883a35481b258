// Package http provides the HTTP delivery layer for the preview shortener.
// It routes creation requests to the link use case and answers short link
// visits with the response chosen by the resolver.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vadimbarashkov/og-shortener/internal/resolver"
)

type RouterConfig struct {
	BaseURL        string
	AllowedOrigins []string
	// Registry collects the HTTP metrics served at /metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
}

// NewRouter initializes a chi router serving link creation, link resolution
// and the service endpoints.
func NewRouter(
	logger *httplog.Logger,
	linkUseCase linkUseCase,
	decider resolver.Decider,
	cfg RouterConfig,
) *chi.Mux {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := newMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(m.instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     cfg.AllowedOrigins,
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type"},
		AllowCredentials:   false,
		MaxAge:             86400,
		OptionsPassthrough: true,
	}))
	r.Use(noContentOnOptions)

	r.NotFound(handlePlaceholder)
	r.MethodNotAllowed(handlePlaceholder)

	r.Get("/", handlePlaceholder)
	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.yml")
	})

	h := newLinkHandler(linkUseCase, decider, validator.New(), cfg.BaseURL, m)

	r.Post("/api/create", h.createLink)

	r.Get("/{slug}", h.resolveLink)
	r.Head("/{slug}", h.resolveLink)

	return r
}

// noContentOnOptions answers every OPTIONS request with an empty 204 once
// the CORS headers are set.
func noContentOnOptions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
