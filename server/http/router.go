package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"trafo-matcher/internal/config"
	"trafo-matcher/internal/design/handler"
	"trafo-matcher/internal/metrics"
	"trafo-matcher/internal/middleware"
)

// Deps: собранные в main компоненты, которые нужны обработчикам.
type Deps struct {
	Searcher handler.Searcher
	Catalog  handler.Catalog
	Ingester handler.Ingester
	LLM      handler.ModelLister
}

func NewRouter(cfg config.Config, deps Deps, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> metrics -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(cfg.MaxUploadMB))

	r.Get("/health", handler.Health())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", handler.Search(deps.Searcher, logger))
		r.Post("/search/form", handler.SearchForm(deps.Searcher, logger))

		r.Get("/designs", handler.ListDesigns(deps.Catalog, logger))
		r.Get("/designs/{design_number}", handler.GetDesign(deps.Catalog, logger))
		r.Get("/stats", handler.Stats(deps.Catalog, logger))
		r.Get("/distinct/{field}", handler.Distinct(deps.Catalog, logger))
		r.Post("/refresh", handler.Refresh(deps.Catalog, logger))
		r.Get("/health", handler.APIHealth(deps.Catalog, deps.LLM, logger))

		r.Route("/webhook", func(r chi.Router) {
			r.Post("/new-design", handler.NewDesign(deps.Ingester, logger))
			r.Post("/bulk-sync", handler.BulkSync(deps.Ingester, logger))
			r.Get("/status", handler.WebhookStatus(deps.Catalog, deps.Ingester, logger))
		})
	})

	return r
}
