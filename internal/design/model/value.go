package model

import (
	"encoding/json"
	"strconv"
)

// Value: типизированное значение поля. Нулевое значение = "не задано".
type Value struct {
	kind Kind
	num  float64
	text string
}

func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

func Integer(i int) Value { return Value{kind: KindInteger, num: float64(i)} }

func Text(s string) Value { return Value{kind: KindText, text: s} }

func (v Value) Kind() Kind  { return v.kind }
func (v Value) IsSet() bool { return v.kind != KindUnset }

// Float: числовое значение, если оно есть.
func (v Value) Float() (float64, bool) {
	if v.kind == KindNumber || v.kind == KindInteger {
		return v.num, true
	}
	return 0, false
}

// String: текстовое представление (число форматируется без лишних нулей).
func (v Value) String() string {
	switch v.kind {
	case KindNumber, KindInteger:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	}
	return ""
}

// Any: значение для JSON-ответов и логов.
func (v Value) Any() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindInteger:
		return int(v.num)
	case KindText:
		return v.text
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) { return json.Marshal(v.Any()) }
