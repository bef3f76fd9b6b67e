package nlquery

import (
	"encoding/json"
	"fmt"
	"strings"

	"trafo-matcher/internal/design/model"
)

const extractionPrompt = `You are a power transformer specification expert.
Extract ONLY the technical parameters that are explicitly stated in the user's request.
The request may be written in Turkish, English or another language.

RULES:
1. Extract only values the user actually wrote.
2. Do not guess and do not add default values.
3. Leave out every parameter that is not mentioned.

Parameters:
- rating_kva: rated power in kVA, e.g. "100 kVA", "250kVA"
- high_voltage_v: high voltage in V, e.g. "11000V", "33kV", "11000/415"
- low_voltage_v: low voltage in V, e.g. "415V", "400V"
- frequency_hz: frequency in Hz, e.g. "50Hz"
- vector_group: vector group, e.g. "Dyn11", "Yyn0", "Dd0"
- no_load_loss_w: no-load loss in W, e.g. "P0=130W"
- load_loss_w: load loss in W, e.g. "Pk=1250W"
- impedance_percent: impedance in %%, e.g. "Ucc=4.75%%"
- cooling_type: cooling, e.g. "ONAN", "ONAF"
- lv_material: LV winding material, e.g. "cu", "al"
- hv_material: HV winding material, e.g. "cu", "al"

User request: %q

Return a JSON object with only the parameters found in the text. An empty object {} is valid.

JSON:`

const explanationPrompt = `You are a power transformer expert. Briefly explain the search results to the user
in the language of the request.

User request: %q

Extracted parameters: %s

Closest designs:
%s

Write 2-3 sentences: which parameters match and where the designs differ.`

func buildExtractionPrompt(text string) string {
	return fmt.Sprintf(extractionPrompt, text)
}

func buildExplanationPrompt(text string, params map[string]any, matches []model.Match) string {
	p, _ := json.Marshal(params)
	var b strings.Builder
	for i, m := range matches {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "- %s: %.1f%% similarity, %s kVA, %s/%s V\n",
			m.DesignNumber, m.Score*100,
			specOrNA(m.Specs, "input_rating_kva"),
			specOrNA(m.Specs, "input_high_voltage_v"),
			specOrNA(m.Specs, "input_low_voltage_v"))
	}
	return fmt.Sprintf(explanationPrompt, text, p, strings.TrimRight(b.String(), "\n"))
}

func specOrNA(r model.Record, field string) string {
	if v, ok := r.Get(field); ok {
		return v.String()
	}
	return "N/A"
}
