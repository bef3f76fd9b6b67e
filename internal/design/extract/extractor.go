package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"trafo-matcher/internal/design/model"
	"trafo-matcher/internal/fileio"
)

// Extractor: разбор одной книги дизайна в плоскую запись.
type Extractor struct {
	rules  map[string][]Rule
	logger zerolog.Logger
}

func New(logger zerolog.Logger) *Extractor {
	return &Extractor{rules: Rules(), logger: logger.With().Str("component", "extract").Logger()}
}

// DesignNumber: имя файла без расширения.
func DesignNumber(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseFile читает книгу и извлекает все поля схемы.
// Проверку rating делает вызывающий (Record.Validate).
func (e *Extractor) ParseFile(path string) (model.Record, error) {
	wb, err := fileio.Open(path)
	if err != nil {
		if errors.Is(err, fileio.ErrUnsupported) {
			return model.Record{}, fmt.Errorf("%w: %s", model.ErrUnsupportedFile, filepath.Base(path))
		}
		return model.Record{}, err
	}
	return e.ParseWorkbook(wb, path)
}

// ParseWorkbook: то же для уже прочитанной книги.
func (e *Extractor) ParseWorkbook(wb *fileio.Workbook, path string) (model.Record, error) {
	if !wb.HasSheets(model.InputSheet, model.OutputSheet) {
		return model.Record{}, fmt.Errorf("%s: %w", wb.Name, model.ErrNotDesignFile)
	}

	rec := model.NewRecord(DesignNumber(path), path)
	for _, name := range []string{model.InputSheet, model.OutputSheet} {
		g, _ := wb.Grid(name)
		s := newSheet(g)
		for _, rule := range e.rules[name] {
			rec.Set(rule.Field, s.apply(rule))
		}
	}

	e.logger.Debug().
		Str("design", rec.DesignNumber).
		Int("fields", rec.Len()).
		Msg("design parsed")
	return rec, nil
}
