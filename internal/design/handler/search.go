package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"trafo-matcher/internal/design/model"
	"trafo-matcher/internal/design/service"
)

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// Search: POST /api/search, запрос на естественном языке.
func Search(s Searcher, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := requestLogger(r, logger)

		var req searchRequest
		if err := decode(r, &req); err != nil {
			fail(w, log, err)
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			fail(w, log, fmt.Errorf("query text is blank: %w", model.ErrEmptyQuery))
			return
		}

		res, err := s.Search(r.Context(), req.Query, req.MaxResults)
		if err != nil {
			fail(w, log, err)
			return
		}
		respond(w, log, res)

		log.Info().
			Int("params", len(res.ExtractedParams)).
			Int("matches", len(res.Matches)).
			Dur("elapsed", time.Since(start)).
			Msg("search done")
	}
}

// SearchForm: POST /api/search/form, поиск по полям формы без языковой модели.
func SearchForm(s Searcher, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, logger)

		var f service.FormQuery
		if err := decode(r, &f); err != nil {
			fail(w, log, err)
			return
		}
		res, err := s.SearchForm(r.Context(), f)
		if err != nil {
			fail(w, log, err)
			return
		}
		respond(w, log, res)
	}
}
