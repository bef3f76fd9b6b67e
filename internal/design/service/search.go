package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"trafo-matcher/internal/design/model"
	"trafo-matcher/internal/metrics"
)

// CatalogReader: откуда берём все записи каталога.
type CatalogReader interface {
	All(ctx context.Context) ([]model.Record, error)
}

// ParamSource: разбор текстового запроса в плоское имя→значение.
type ParamSource interface {
	Extract(ctx context.Context, text string) map[string]any
}

// Explainer: короткое текстовое пояснение к результатам.
type Explainer interface {
	Explain(ctx context.Context, text string, params map[string]any, matches []model.Match) string
}

type Options struct {
	MinScore       float64
	MaxResults     int
	FormMaxResults int
	ScaleBands     bool
}

// Result: ответ поиска.
type Result struct {
	Query           string         `json:"query"`
	ExtractedParams map[string]any `json:"extracted_params"`
	Matches         []model.Match  `json:"matches"`
	Explanation     string         `json:"explanation"`
}

// FormQuery: поиск по форме, без языковой модели.
// max_*_loss_w сравниваются как обычные значения потерь.
type FormQuery struct {
	RatingKVA        *float64 `json:"rating_kva"`
	HighVoltageV     *float64 `json:"high_voltage_v"`
	LowVoltageV      *float64 `json:"low_voltage_v"`
	VectorGroup      *string  `json:"vector_group"`
	CoolingType      *string  `json:"cooling_type"`
	HVMaterial       *string  `json:"hv_material"`
	LVMaterial       *string  `json:"lv_material"`
	ImpedancePercent *float64 `json:"impedance_percent"`
	MaxNoLoadLossW   *float64 `json:"max_no_load_loss_w"`
	MaxLoadLossW     *float64 `json:"max_load_loss_w"`
	MaxResults       int      `json:"max_results"`
}

// Params: значения формы в пространстве имён запроса.
func (f FormQuery) Params() map[string]any {
	out := map[string]any{}
	num := func(k string, v *float64) {
		if v != nil {
			out[k] = *v
		}
	}
	str := func(k string, v *string) {
		if v != nil {
			out[k] = *v
		}
	}
	num("rating_kva", f.RatingKVA)
	num("high_voltage_v", f.HighVoltageV)
	num("low_voltage_v", f.LowVoltageV)
	str("vector_group", f.VectorGroup)
	str("cooling_type", f.CoolingType)
	str("hv_material", f.HVMaterial)
	str("lv_material", f.LVMaterial)
	num("impedance_percent", f.ImpedancePercent)
	num("no_load_loss_w", f.MaxNoLoadLossW)
	num("load_loss_w", f.MaxLoadLossW)
	return out
}

// Searcher: запрос (текст или форма) → каталог → ранжирование.
type Searcher struct {
	catalog   CatalogReader
	params    ParamSource
	explainer Explainer
	scorer    *Scorer
	opts      Options
	logger    zerolog.Logger
}

func NewSearcher(catalog CatalogReader, params ParamSource, explainer Explainer, opts Options, logger zerolog.Logger) *Searcher {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 5
	}
	if opts.FormMaxResults <= 0 {
		opts.FormMaxResults = 10
	}
	return &Searcher{
		catalog:   catalog,
		params:    params,
		explainer: explainer,
		scorer:    NewScorer(opts.ScaleBands),
		opts:      opts,
		logger:    logger.With().Str("component", "search").Logger(),
	}
}

// Search: поиск по тексту. maxResults <= 0 → значение по умолчанию.
func (s *Searcher) Search(ctx context.Context, text string, maxResults int) (Result, error) {
	if maxResults <= 0 {
		maxResults = s.opts.MaxResults
	}
	var raw map[string]any
	if s.params != nil {
		raw = s.params.Extract(ctx, text)
	}
	q, err := model.NewQuery(raw)
	if err != nil {
		return Result{}, err
	}

	matches, err := s.run(ctx, "text", q, maxResults)
	if err != nil {
		return Result{}, err
	}

	explanation := matchCount(matches)
	if s.explainer != nil {
		explanation = s.explainer.Explain(ctx, text, q.Params(), matches)
	}
	return Result{Query: text, ExtractedParams: q.Params(), Matches: matches, Explanation: explanation}, nil
}

// SearchForm: поиск по полям формы.
func (s *Searcher) SearchForm(ctx context.Context, f FormQuery) (Result, error) {
	maxResults := f.MaxResults
	if maxResults <= 0 {
		maxResults = s.opts.FormMaxResults
	}
	q, err := model.NewQuery(f.Params())
	if err != nil {
		return Result{}, err
	}

	matches, err := s.run(ctx, "form", q, maxResults)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Query:           q.Summary(),
		ExtractedParams: q.Params(),
		Matches:         matches,
		Explanation:     matchCount(matches),
	}, nil
}

func (s *Searcher) run(ctx context.Context, source string, q model.Query, maxResults int) ([]model.Match, error) {
	records, err := s.catalog.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(records) == 0 {
		return nil, model.ErrEmptyCatalog
	}

	start := time.Now()
	matches := s.scorer.Rank(q, records, maxResults, s.opts.MinScore)
	elapsed := time.Since(start)

	metrics.SearchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	metrics.SearchResults.WithLabelValues(source).Observe(float64(len(matches)))

	s.logger.Info().
		Str("source", source).
		Str("query", q.Summary()).
		Int("catalog", len(records)).
		Int("matches", len(matches)).
		Dur("took", elapsed).
		Msg("search done")
	return matches, nil
}

func matchCount(matches []model.Match) string {
	return fmt.Sprintf("%d matches found.", len(matches))
}
