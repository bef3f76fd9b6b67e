package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"trafo-matcher/internal/design/model"
	"trafo-matcher/internal/metrics"
)

// ErrFieldNotAllowed: поле не входит в список для выпадающих списков.
var ErrFieldNotAllowed = errors.New("field not allowed")

// DistinctFields: поля, для которых отдаём уникальные значения.
var DistinctFields = []string{
	"output_vector_group",
	"input_cooling_type",
	"input_hv_material",
	"input_lv_material",
	"output_core_material",
	"input_core_shape",
}

// Catalog: Store с кэшем всех записей в памяти.
// Кэш сбрасывается при любой записи и по явному Invalidate.
type Catalog struct {
	store  Store
	logger zerolog.Logger

	mu      sync.RWMutex
	records []model.Record
	loaded  bool
}

func New(store Store, logger zerolog.Logger) *Catalog {
	return &Catalog{store: store, logger: logger.With().Str("component", "catalog").Logger()}
}

// All: все записи по возрастанию design_number. Результат только для чтения.
func (c *Catalog) All(ctx context.Context) ([]model.Record, error) {
	c.mu.RLock()
	if c.loaded {
		recs := c.records
		c.mu.RUnlock()
		return recs, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.records, nil
	}
	recs, err := c.store.All(ctx)
	if err != nil {
		return nil, err
	}
	c.records, c.loaded = recs, true
	metrics.CatalogDesigns.Set(float64(len(recs)))
	c.logger.Debug().Int("designs", len(recs)).Msg("catalog loaded")
	return recs, nil
}

// Invalidate: следующий All перечитает хранилище.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.records, c.loaded = nil, false
	c.mu.Unlock()
}

func (c *Catalog) Get(ctx context.Context, designNumber string) (model.Record, error) {
	return c.store.Get(ctx, designNumber)
}

func (c *Catalog) Upsert(ctx context.Context, rec model.Record) (bool, error) {
	created, err := c.store.Upsert(ctx, rec)
	if err != nil {
		return false, err
	}
	c.Invalidate()
	return created, nil
}

func (c *Catalog) Delete(ctx context.Context, designNumber string) (bool, error) {
	ok, err := c.store.Delete(ctx, designNumber)
	if err != nil {
		return false, err
	}
	c.Invalidate()
	return ok, nil
}

func (c *Catalog) DeleteAll(ctx context.Context) (int64, error) {
	n, err := c.store.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	c.Invalidate()
	return n, nil
}

func (c *Catalog) Count(ctx context.Context) (int, error) { return c.store.Count(ctx) }

func (c *Catalog) Ping(ctx context.Context) error { return c.store.Ping(ctx) }

// Range: min/max по числовому полю (nil, если значений нет).
type Range struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

func (r *Range) add(v float64) {
	if r.Min == nil || v < *r.Min {
		lo := v
		r.Min = &lo
	}
	if r.Max == nil || v > *r.Max {
		hi := v
		r.Max = &hi
	}
}

// Stats: сводка по каталогу для формы поиска.
type Stats struct {
	TotalDesigns     int                 `json:"total_designs"`
	RatingRange      Range               `json:"rating_range"`
	HighVoltageRange Range               `json:"high_voltage_range"`
	VectorGroups     []string            `json:"vector_groups"`
	CoolingTypes     []string            `json:"cooling_types"`
	Materials        map[string][]string `json:"materials"`
}

func (c *Catalog) Stats(ctx context.Context) (Stats, error) {
	recs, err := c.All(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{
		TotalDesigns: len(recs),
		VectorGroups: distinct(recs, "output_vector_group"),
		CoolingTypes: distinct(recs, "input_cooling_type"),
		Materials: map[string][]string{
			"hv": distinct(recs, "input_hv_material"),
			"lv": distinct(recs, "input_lv_material"),
		},
	}
	for _, r := range recs {
		if v, ok := r.Number("input_rating_kva"); ok {
			st.RatingRange.add(v)
		}
		if v, ok := r.Number("input_high_voltage_v"); ok {
			st.HighVoltageRange.add(v)
		}
	}
	return st, nil
}

// Refresh сбрасывает кэш и возвращает свежую сводку.
func (c *Catalog) Refresh(ctx context.Context) (Stats, error) {
	c.Invalidate()
	return c.Stats(ctx)
}

// Distinct: отсортированные уникальные значения поля из DistinctFields.
func (c *Catalog) Distinct(ctx context.Context, field string) ([]string, error) {
	allowed := false
	for _, f := range DistinctFields {
		if f == field {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%s: %w", field, ErrFieldNotAllowed)
	}
	recs, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	return distinct(recs, field), nil
}

func distinct(recs []model.Record, field string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range recs {
		v, ok := r.Get(field)
		if !ok {
			continue
		}
		s := v.String()
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
