package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"trafo-matcher/internal/utils"
)

// Record: плоская запись одного дизайна трансформатора.
// Поля input_* и output_* хранятся по имени из Catalog; незаданные отсутствуют.
type Record struct {
	DesignNumber string
	FilePath     string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	values map[string]Value
}

// NewRecord: пустая запись; design_number берётся из имени файла.
func NewRecord(designNumber, filePath string) Record {
	return Record{DesignNumber: designNumber, FilePath: filePath, values: map[string]Value{}}
}

// Set пишет значение; незаданное значение удаляет поле.
func (r *Record) Set(name string, v Value) {
	if r.values == nil {
		r.values = map[string]Value{}
	}
	if !v.IsSet() {
		delete(r.values, name)
		return
	}
	r.values[name] = v
}

func (r Record) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r Record) Number(name string) (float64, bool) {
	v, ok := r.values[name]
	if !ok {
		return 0, false
	}
	return v.Float()
}

func (r Record) Text(name string) (string, bool) {
	v, ok := r.values[name]
	if !ok || v.Kind() != KindText {
		return "", false
	}
	return v.text, true
}

// Len: сколько полей удалось заполнить.
func (r Record) Len() int { return len(r.values) }

// Rating: мощность, кВА.
func (r Record) Rating() (float64, bool) { return r.Number(RatingField) }

// Validate: запись без положительного rating в каталог не пускаем.
func (r Record) Validate() error {
	if strings.TrimSpace(r.DesignNumber) == "" {
		return fmt.Errorf("design_number is empty")
	}
	if kva, ok := r.Rating(); !ok || kva <= 0 {
		return fmt.Errorf("%s: %w", r.DesignNumber, ErrMissingRating)
	}
	return nil
}

// MarshalJSON: плоский объект: мета + все поля схемы (незаданные = null).
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(key string, v any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(key)
		vb, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return nil
	}
	if err := write("design_number", r.DesignNumber); err != nil {
		return nil, err
	}
	if err := write("file_path", r.FilePath); err != nil {
		return nil, err
	}
	if !r.CreatedAt.IsZero() {
		if err := write("created_at", r.CreatedAt); err != nil {
			return nil, err
		}
	}
	if !r.UpdatedAt.IsZero() {
		if err := write("updated_at", r.UpdatedAt); err != nil {
			return nil, err
		}
	}
	for _, f := range Catalog {
		if err := write(f.Name, r.values[f.Name].Any()); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON читает тот же плоский объект; неизвестные ключи игнорируются.
func (r *Record) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*r = Record{values: map[string]Value{}}
	for key, msg := range raw {
		switch key {
		case "design_number":
			if err := json.Unmarshal(msg, &r.DesignNumber); err != nil {
				return fmt.Errorf("design_number: %w", err)
			}
			continue
		case "file_path":
			_ = json.Unmarshal(msg, &r.FilePath)
			continue
		case "created_at":
			_ = json.Unmarshal(msg, &r.CreatedAt)
			continue
		case "updated_at":
			_ = json.Unmarshal(msg, &r.UpdatedAt)
			continue
		}
		f, ok := FieldByName(key)
		if !ok {
			continue
		}
		var v any
		d := json.NewDecoder(bytes.NewReader(msg))
		d.UseNumber()
		if err := d.Decode(&v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		r.Set(key, Coerce(f.Kind, v))
	}
	return nil
}

// Coerce приводит произвольное значение (из JSON, формы, LLM) к типу поля.
// Неприводимое значение даёт незаданный Value.
func Coerce(k Kind, v any) Value {
	if v == nil {
		return Value{}
	}
	switch k {
	case KindNumber, KindInteger:
		f, ok := toFloat(v)
		if !ok {
			return Value{}
		}
		if k == KindInteger {
			return Integer(int(f))
		}
		return Number(f)
	case KindText:
		s := strings.TrimSpace(toString(v))
		if s == "" {
			return Value{}
		}
		return Text(s)
	}
	return Value{}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		return utils.FirstNumber(t.String())
	case string:
		return utils.FirstNumber(t)
	}
	return 0, false
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return Number(t).String()
	}
	return fmt.Sprint(v)
}
