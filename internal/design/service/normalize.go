package service

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"trafo-matcher/internal/design/model"
	"trafo-matcher/internal/utils"
)

// foldText: регистр (Unicode case folding), обрезка, схлопывание пробелов.
// Caser не потокобезопасен, поэтому создаётся на каждый вызов.
func foldText(s string) string {
	s = cases.Fold().String(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// Dyn11 → ("dyn", "11"); Yyn0 → ("yyn", "0"); Dd → ("dd", "")
var reVectorGroup = regexp.MustCompile(`^([a-z]+)(\d*)$`)

func splitVectorGroup(s string) (prefix, clock string, ok bool) {
	m := reVectorGroup.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// asNumber: число из значения; текст ("11000V", "4,5%") разбирается по первому числу.
func asNumber(v model.Value) (float64, bool) {
	if f, ok := v.Float(); ok {
		return f, true
	}
	return utils.FirstNumber(v.String())
}
