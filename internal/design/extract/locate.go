package extract

import (
	"strings"

	"golang.org/x/text/cases"

	"trafo-matcher/internal/design/model"
	"trafo-matcher/internal/fileio"
	"trafo-matcher/internal/utils"
)

// sheet: лист с заранее приведёнными к общему регистру ячейками,
// чтобы не делать case folding на каждую метку заново.
type sheet struct {
	grid   fileio.Grid
	folded [][]string
	fold   cases.Caser
}

func newSheet(g fileio.Grid) *sheet {
	s := &sheet{grid: g, folded: make([][]string, len(g)), fold: cases.Fold()}
	for i, row := range g {
		s.folded[i] = make([]string, len(row))
		for j, cell := range row {
			s.folded[i][j] = s.fold.String(strings.TrimSpace(cell))
		}
	}
	return s
}

// lookup: ищет первую (row-major) ячейку, совпавшую с меткой, и читает
// ячейку по смещению. Вышли за границы листа: значения нет.
func (s *sheet) lookup(label string, mode Mode, off Offset) (string, bool) {
	want := s.fold.String(strings.TrimSpace(label))
	if want == "" {
		return "", false
	}
	for i, row := range s.folded {
		for j, cell := range row {
			if !matches(cell, want, mode) {
				continue
			}
			r, c := i+off.Row, j+off.Col
			if r < 0 || r >= len(s.grid) || c < 0 || c >= len(s.grid[r]) {
				return "", false
			}
			return s.grid[r][c], true
		}
	}
	return "", false
}

func matches(cell, want string, mode Mode) bool {
	if cell == "" {
		return false
	}
	if mode == Exact {
		return cell == want
	}
	return strings.Contains(cell, want)
}

// apply: метки по порядку, первое разобранное ненулевое значение побеждает.
// Ошибки разбора не всплывают: поле просто остаётся незаданным.
func (s *sheet) apply(rule Rule) model.Value {
	f, ok := model.FieldByName(rule.Field)
	if !ok {
		return model.Value{}
	}
	// ноль в основной метке часто означает "не заполнено": смотрим варианты,
	// но если других значений нет, ноль остаётся
	var zero model.Value
	for _, label := range rule.Labels {
		raw, found := s.lookup(label, rule.Mode, rule.Offset)
		if !found {
			continue
		}
		v := convert(f.Kind, raw)
		if !v.IsSet() {
			continue
		}
		if n, ok := v.Float(); ok && n == 0 {
			if !zero.IsSet() {
				zero = v
			}
			continue
		}
		return v
	}
	return zero
}

func convert(k model.Kind, raw string) model.Value {
	switch k {
	case model.KindNumber:
		if f, ok := utils.FirstNumber(raw); ok {
			return model.Number(f)
		}
	case model.KindInteger:
		if n, ok := utils.FirstInt(raw); ok {
			return model.Integer(n)
		}
	case model.KindText:
		if s := strings.TrimSpace(raw); s != "" {
			return model.Text(s)
		}
	}
	return model.Value{}
}
