package model

import (
	"fmt"
	"strings"
)

// Compare: как сравнивается атрибут запроса с записью.
type Compare int

const (
	CompareNumeric Compare = iota
	CompareCategorical
	CompareVectorGroup
)

// Attribute: сравнимый параметр запроса (без префиксов input_/output_).
// Fields: поля записи в порядке приоритета: берётся первое заданное.
type Attribute struct {
	Name    string
	Compare Compare
	Fields  []string
}

// Kind: тип значения атрибута в запросе.
func (a Attribute) Kind() Kind {
	if a.Compare == CompareNumeric {
		return KindNumber
	}
	return KindText
}

// Resolve: значение атрибута в записи (расчётное значение важнее гарантийного).
func (a Attribute) Resolve(r Record) (Value, bool) {
	for _, name := range a.Fields {
		if v, ok := r.Get(name); ok {
			return v, true
		}
	}
	return Value{}, false
}

// Attributes: все атрибуты, по которым можно искать.
var Attributes = []Attribute{
	{Name: "rating_kva", Compare: CompareNumeric, Fields: []string{"input_rating_kva"}},
	{Name: "high_voltage_v", Compare: CompareNumeric, Fields: []string{"input_high_voltage_v"}},
	{Name: "low_voltage_v", Compare: CompareNumeric, Fields: []string{"input_low_voltage_v"}},
	{Name: "vector_group", Compare: CompareVectorGroup, Fields: []string{"output_vector_group"}},
	{Name: "no_load_loss_w", Compare: CompareNumeric, Fields: []string{"output_no_load_loss_w", "input_no_load_loss_w"}},
	{Name: "load_loss_w", Compare: CompareNumeric, Fields: []string{"output_load_loss_w", "input_load_loss_w"}},
	{Name: "impedance_percent", Compare: CompareNumeric, Fields: []string{"output_impedance_percent", "input_impedance_percent"}},
	{Name: "cooling_type", Compare: CompareCategorical, Fields: []string{"input_cooling_type"}},
	{Name: "frequency_hz", Compare: CompareNumeric, Fields: []string{"input_frequency_hz"}},
	{Name: "lv_material", Compare: CompareCategorical, Fields: []string{"input_lv_material"}},
	{Name: "hv_material", Compare: CompareCategorical, Fields: []string{"input_hv_material"}},
	{Name: "core_material", Compare: CompareCategorical, Fields: []string{"output_core_material"}},
}

// AttributeByName ищет атрибут запроса.
func AttributeByName(name string) (Attribute, bool) {
	for _, a := range Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Query: частичный набор атрибутов, который ищем в каталоге.
type Query struct {
	values map[string]Value
}

// NewQuery собирает запрос из плоского отображения имя→значение (форма, JSON, LLM).
// Пустые значения ("", null, "null", "None") отбрасываются как отсутствующие,
// неизвестные ключи игнорируются. Числовой атрибут, из которого не удалось
// достать число, остаётся в запросе как текст и при сравнении даёт 0.
func NewQuery(params map[string]any) (Query, error) {
	q := Query{values: map[string]Value{}}
	for key, raw := range params {
		a, ok := AttributeByName(key)
		if !ok || isBlank(raw) {
			continue
		}
		v := Coerce(a.Kind(), raw)
		if !v.IsSet() {
			v = Coerce(KindText, raw)
		}
		if v.IsSet() {
			q.values[key] = v
		}
	}
	if len(q.values) == 0 {
		return Query{}, ErrEmptyQuery
	}
	return q, nil
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	switch strings.TrimSpace(s) {
	case "", "null", "None":
		return true
	}
	return false
}

func (q Query) Get(name string) (Value, bool) {
	v, ok := q.values[name]
	return v, ok
}

func (q Query) Len() int { return len(q.values) }

// Params: значения запроса для ответа API.
func (q Query) Params() map[string]any {
	out := make(map[string]any, len(q.values))
	for k, v := range q.values {
		out[k] = v.Any()
	}
	return out
}

// Summary: "rating_kva=100, high_voltage_v=11000" в порядке Attributes.
func (q Query) Summary() string {
	parts := make([]string, 0, len(q.values))
	for _, a := range Attributes {
		if v, ok := q.values[a.Name]; ok {
			parts = append(parts, fmt.Sprintf("%s=%s", a.Name, v.String()))
		}
	}
	return strings.Join(parts, ", ")
}
