package nlquery

import (
	"regexp"
	"strconv"
	"strings"
)

// Шаблоны на тексте в нижнем регистре. Там, где нужен просмотр вперёд/назад,
// соседний символ захватывается отдельной группой и проверяется в коде.
var (
	reRating      = regexp.MustCompile(`(\d+)\s*kva`)
	reHVVolts     = regexp.MustCompile(`(\d{4,5})\s*v(a?)`)
	reHVKilovolts = regexp.MustCompile(`(^|\D)(\d{1,3})\s*kv(a?)`)
	reLV          = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*v?\s*(ag|alçak|lv|low)`),
		regexp.MustCompile(`(ag|alçak|lv|low)\s*(\d+)\s*v`),
		regexp.MustCompile(`\d+\s*/\s*(\d{3,4})\s*v`),
	}
	reVectorGroup = regexp.MustCompile(`(dyn?\d+|yyn?\d+|dd\d+|yy\d+)`)
	reFrequency   = regexp.MustCompile(`(\d+)\s*hz`)
	reCooling     = regexp.MustCompile(`(onan|onaf|ofaf|ofwf)`)
	reNoLoadLoss  = regexp.MustCompile(`boşta\s*kayıp\s*(\d+)\s*w?|p0\s*[:=]?\s*(\d+)`)
	reLoadLoss    = regexp.MustCompile(`yük\s*kayb[ıi]?\s*(\d+)\s*w?|pk\s*[:=]?\s*(\d+)`)
	reImpedance   = regexp.MustCompile(`empedans\s*(\d+\.?\d*)\s*%?|ucc?\s*[:=]?\s*(\d+\.?\d*)`)
)

// ExtractRegex: детерминированный разбор запроса без языковой модели.
// Возвращает только найденные параметры.
func ExtractRegex(text string) map[string]any {
	params := map[string]any{}
	q := strings.ToLower(text)

	if m := reRating.FindStringSubmatch(q); m != nil {
		setNumber(params, "rating_kva", m[1], 1)
	}

	// 11000V, но не 1000VA; иначе 33kV, но не 33kVA
	hv := false
	for _, m := range reHVVolts.FindAllStringSubmatch(q, -1) {
		if m[2] == "" {
			hv = setNumber(params, "high_voltage_v", m[1], 1)
			break
		}
	}
	if !hv {
		for _, m := range reHVKilovolts.FindAllStringSubmatch(q, -1) {
			if m[3] == "" {
				setNumber(params, "high_voltage_v", m[2], 1000)
				break
			}
		}
	}

	// первый сработавший шаблон решает, даже если числа в нём нет
	for _, re := range reLV {
		m := re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		for _, g := range m[1:] {
			if isDigits(g) {
				setNumber(params, "low_voltage_v", g, 1)
				break
			}
		}
		break
	}

	if m := reVectorGroup.FindStringSubmatch(q); m != nil {
		params["vector_group"] = strings.ToUpper(m[1])
	}
	if m := reFrequency.FindStringSubmatch(q); m != nil {
		setNumber(params, "frequency_hz", m[1], 1)
	}
	if m := reCooling.FindStringSubmatch(q); m != nil {
		params["cooling_type"] = strings.ToUpper(m[1])
	}
	if m := reNoLoadLoss.FindStringSubmatch(q); m != nil {
		setNumber(params, "no_load_loss_w", firstNonEmpty(m[1:]...), 1)
	}
	if m := reLoadLoss.FindStringSubmatch(q); m != nil {
		setNumber(params, "load_loss_w", firstNonEmpty(m[1:]...), 1)
	}
	if m := reImpedance.FindStringSubmatch(q); m != nil {
		setNumber(params, "impedance_percent", firstNonEmpty(m[1:]...), 1)
	}

	switch {
	case strings.Contains(q, "bakır") || strings.Contains(q, "bakir") ||
		strings.Contains(q, " cu ") || strings.HasSuffix(q, " cu"):
		params["lv_material"] = "cu"
		params["hv_material"] = "cu"
	case strings.Contains(q, "alüminyum") || strings.Contains(q, "aluminyum") ||
		strings.Contains(q, " al "):
		params["lv_material"] = "al"
		params["hv_material"] = "al"
	}
	return params
}

func setNumber(params map[string]any, key, digits string, scale float64) bool {
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return false
	}
	params[key] = f * scale
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
