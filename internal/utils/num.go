package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var rxFirstNumber = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// FirstNumber достаёт первое десятичное число из строки:
// "100 kVA" -> 100, "4,5 %" -> 4.5, "Dyn11" -> 11.
// Запятая считается десятичным разделителем, хвост с единицами отбрасывается.
func FirstNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// сырые значения ячеек ("1.5E-3") разбираем целиком
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	s = strings.NewReplacer("\u00A0", "", "\u202F", "", ",", ".").Replace(s)
	m := rxFirstNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	return f, err == nil
}

// FirstInt: FirstNumber с отбрасыванием дробной части (к нулю).
func FirstInt(s string) (int, bool) {
	f, ok := FirstNumber(s)
	if !ok {
		return 0, false
	}
	return int(f), true
}
