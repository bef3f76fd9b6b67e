package service

import (
	"math"
	"strings"

	"trafo-matcher/internal/design/model"
)

// Веса атрибутов (важность при подборе).
var Weights = map[string]float64{
	"rating_kva":        1.0,
	"high_voltage_v":    0.9,
	"low_voltage_v":     0.9,
	"vector_group":      0.8,
	"no_load_loss_w":    0.7,
	"load_loss_w":       0.7,
	"impedance_percent": 0.6,
	"cooling_type":      0.5,
	"frequency_hz":      0.5,
	"lv_material":       0.4,
	"hv_material":       0.4,
	"core_material":     0.3,
}

// Допуски по атрибутам. Используются только в режиме ScaleBands.
var Tolerances = map[string]float64{
	"rating_kva":        0.05,
	"high_voltage_v":    0.05,
	"low_voltage_v":     0.05,
	"no_load_loss_w":    0.15,
	"load_loss_w":       0.15,
	"impedance_percent": 0.10,
	"frequency_hz":      0.0,
}

const (
	DefaultTolerance = 0.15
	// значение есть только с одной стороны: неизвестно ≠ не совпало
	neutralScore = 0.5
	// базовый допуск, под который заданы фиксированные полосы
	baseTolerance = 0.05
)

// Band: относительная разница до MaxDiff включительно даёт Score.
type Band struct {
	MaxDiff float64
	Score   float64
}

var fixedBands = []Band{
	{MaxDiff: 0.05, Score: 1.0},
	{MaxDiff: 0.10, Score: 0.9},
	{MaxDiff: 0.20, Score: 0.4},
}

// Scorer: сравнение запроса с одной записью.
type Scorer struct {
	// ScaleBands: границы полос умножаются на tolerance/0.05;
	// допуск 0 означает "только точное совпадение".
	ScaleBands bool
}

func NewScorer(scaleBands bool) *Scorer { return &Scorer{ScaleBands: scaleBands} }

// Score: Σ(w·s)/Σw по атрибутам, заданным в запросе. Пустой запрос даёт 0.
func (s *Scorer) Score(q model.Query, r model.Record) (float64, map[string]model.FieldScore) {
	var total, weights float64
	details := make(map[string]model.FieldScore, q.Len())

	for _, a := range model.Attributes {
		qv, ok := q.Get(a.Name)
		if !ok {
			continue
		}
		w := Weights[a.Name]
		dv, _ := a.Resolve(r)
		fs := s.field(a, qv, dv)
		total += fs * w
		weights += w
		details[a.Name] = model.FieldScore{
			Query:         qv,
			Design:        dv,
			Score:         round(fs, 3),
			Weight:        w,
			WeightedScore: round(fs*w, 3),
		}
	}
	if weights == 0 {
		return 0, details
	}
	return total / weights, details
}

func (s *Scorer) field(a model.Attribute, qv, dv model.Value) float64 {
	switch a.Compare {
	case model.CompareVectorGroup:
		return vectorGroupScore(qv, dv)
	case model.CompareCategorical:
		return categoricalScore(qv, dv)
	}
	return numericScore(qv, dv, s.bands(a.Name))
}

func (s *Scorer) bands(attr string) []Band {
	if !s.ScaleBands {
		return fixedBands
	}
	tol, ok := Tolerances[attr]
	if !ok {
		tol = DefaultTolerance
	}
	if tol <= 0 {
		return nil
	}
	k := tol / baseTolerance
	out := make([]Band, len(fixedBands))
	for i, b := range fixedBands {
		out[i] = Band{MaxDiff: b.MaxDiff * k, Score: b.Score}
	}
	return out
}

// numericScore: по относительной разнице |a-b|/max(|a|,|b|).
// Нераспознанное число с любой стороны = 0, отсутствие = 0.5.
func numericScore(qv, dv model.Value, bands []Band) float64 {
	if !qv.IsSet() || !dv.IsSet() {
		return neutralScore
	}
	a, ok1 := asNumber(qv)
	b, ok2 := asNumber(dv)
	if !ok1 || !ok2 {
		return 0
	}
	if a == 0 && b == 0 {
		return 1
	}
	if a == 0 || b == 0 {
		return 0
	}
	diff := math.Abs(a-b) / math.Max(math.Abs(a), math.Abs(b))
	if diff == 0 {
		return 1
	}
	for _, band := range bands {
		if diff <= band.MaxDiff {
			return band.Score
		}
	}
	return 0
}

// categoricalScore: равны → 1, одно содержит другое → 0.7.
func categoricalScore(qv, dv model.Value) float64 {
	if !qv.IsSet() || !dv.IsSet() {
		return neutralScore
	}
	a, b := foldText(qv.String()), foldText(dv.String())
	if a == b {
		return 1
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.7
	}
	return 0
}

// vectorGroupScore: Dyn11/Dyn11 → 1, Dyn11/Dyn5 → 0.8 (та же схема, другой час).
func vectorGroupScore(qv, dv model.Value) float64 {
	if !qv.IsSet() || !dv.IsSet() {
		return neutralScore
	}
	a, b := foldText(qv.String()), foldText(dv.String())
	if a == b {
		return 1
	}
	pa, _, ok1 := splitVectorGroup(a)
	pb, _, ok2 := splitVectorGroup(b)
	if ok1 && ok2 && pa == pb {
		return 0.8
	}
	return 0
}

func round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
