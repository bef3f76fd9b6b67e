package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"trafo-matcher/internal/catalog"
	"trafo-matcher/internal/design/model"
)

const healthLLMTimeout = 5 * time.Second

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ListDesigns: GET /api/designs, все записи по возрастанию design_number.
func ListDesigns(c Catalog, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, logger)
		recs, err := c.All(r.Context())
		if err != nil {
			fail(w, log, err)
			return
		}
		if recs == nil {
			recs = []model.Record{}
		}
		respond(w, log, recs)
	}
}

func GetDesign(c Catalog, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, logger)
		rec, err := c.Get(r.Context(), chi.URLParam(r, "design_number"))
		if err != nil {
			fail(w, log, err)
			return
		}
		respond(w, log, rec)
	}
}

func Stats(c Catalog, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, logger)
		st, err := c.Stats(r.Context())
		if err != nil {
			fail(w, log, err)
			return
		}
		respond(w, log, st)
	}
}

// Distinct: GET /api/distinct/{field}; поле только из catalog.DistinctFields.
func Distinct(c Catalog, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, logger)
		vals, err := c.Distinct(r.Context(), chi.URLParam(r, "field"))
		if err != nil {
			fail(w, log, err)
			return
		}
		respond(w, log, vals)
	}
}

type refreshResponse struct {
	Message string        `json:"message"`
	Stats   catalog.Stats `json:"stats"`
}

// Refresh: POST /api/refresh, сброс кэша каталога.
func Refresh(c Catalog, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, logger)
		st, err := c.Refresh(r.Context())
		if err != nil {
			fail(w, log, err)
			return
		}
		log.Info().Int("designs", st.TotalDesigns).Msg("catalog refreshed")
		respond(w, log, refreshResponse{
			Message: fmt.Sprintf("%d designs available", st.TotalDesigns),
			Stats:   st,
		})
	}
}

type dbHealth struct {
	Connected    bool `json:"connected"`
	DesignsCount int  `json:"designs_count"`
}

type llmHealth struct {
	Connected bool     `json:"connected"`
	Models    []string `json:"models"`
}

type healthResponse struct {
	Status   string    `json:"status"`
	Database dbHealth  `json:"database"`
	Ollama   llmHealth `json:"ollama"`
}

// APIHealth: GET /api/health. 503 только при недоступной БД; модель необязательна.
func APIHealth(c Catalog, llm ModelLister, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, logger)
		ctx := r.Context()
		resp := healthResponse{Status: "healthy", Ollama: llmHealth{Models: []string{}}}
		status := http.StatusOK

		if err := c.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("health: database unreachable")
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		} else if n, err := c.Count(ctx); err != nil {
			log.Warn().Err(err).Msg("health: count failed")
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		} else {
			resp.Database = dbHealth{Connected: true, DesignsCount: n}
		}

		if llm != nil {
			lctx, cancel := context.WithTimeout(ctx, healthLLMTimeout)
			models, err := llm.Models(lctx)
			cancel()
			if err != nil {
				log.Debug().Err(err).Msg("health: llm unreachable")
			} else {
				resp.Ollama = llmHealth{Connected: true, Models: models}
			}
		}

		if err := writeJSON(w, status, resp); err != nil {
			log.Error().Err(err).Msg("write json")
		}
	}
}
