package fileio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupported: расширение файла не из списка поддерживаемых книг.
var ErrUnsupported = errors.New("unsupported spreadsheet file")

// Grid: лист как прямоугольная таблица строк (row-major, 0-based).
type Grid [][]string

// Rows / Cols: размеры таблицы.
func (g Grid) Rows() int { return len(g) }

func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Workbook: книга целиком: имена листов в исходном порядке + таблица на каждый лист.
type Workbook struct {
	Name   string
	Sheets []string
	grids  map[string]Grid
}

// Grid возвращает таблицу листа по точному имени.
func (w *Workbook) Grid(sheet string) (Grid, bool) {
	g, ok := w.grids[sheet]
	return g, ok
}

// HasSheets: есть ли в книге все перечисленные листы.
func (w *Workbook) HasSheets(names ...string) bool {
	return containsAll(w.Sheets, names)
}

// Supported: расширения, которые умеем читать.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xls":
		return true
	}
	return false
}

// Open: выберет парсер по расширению и прочитает все листы книги.
func Open(path string) (*Workbook, error) {
	var (
		sheets []string
		grids  map[string]Grid
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		sheets, grids, err = readXLSX(path)
	case ".xls":
		sheets, grids, err = readXLS(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	return &Workbook{Name: filepath.Base(path), Sheets: sheets, grids: grids}, nil
}

// SheetNames читает только список листов (без ячеек): для быстрого отбора файлов.
func SheetNames(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return xlsxSheetNames(path)
	case ".xls":
		return xlsSheetNames(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
}

// rectangular: дополняет строки пустыми ячейками до самой широкой строки.
func rectangular(rows [][]string) Grid {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	out := make(Grid, len(rows))
	for i, r := range rows {
		row := make([]string, width)
		for j, v := range r {
			row[j] = normalizeCell(v)
		}
		out[i] = row
	}
	return out
}

// normalizeCell: NBSP/NNBSP → пробел, обрезка по краям.
func normalizeCell(v string) string {
	v = strings.NewReplacer("\u00A0", " ", "\u202F", " ").Replace(v)
	return strings.TrimSpace(v)
}

func containsAll(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[s] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}
