package extract

import "trafo-matcher/internal/design/model"

// Mode: как сравнивать текст ячейки с меткой.
type Mode int

const (
	// Substring: метка содержится в ячейке (без учёта регистра).
	Substring Mode = iota
	// Exact: ячейка после обрезки пробелов равна метке (без учёта регистра).
	// Нужен для коротких меток вроде "Low voltage", которые иначе
	// находятся внутри "Low voltage winding".
	Exact
)

// Offset: где лежит значение относительно ячейки с меткой.
type Offset struct {
	Row int
	Col int
}

var (
	right = Offset{Row: 0, Col: 1}
	below = Offset{Row: 1, Col: 0}
)

// Rule: как найти одно поле. Labels по порядку: сначала основная метка,
// за ней варианты написания из старых файлов.
type Rule struct {
	Field  string
	Labels []string
	Mode   Mode
	Offset Offset
}

func sub(field string, labels ...string) Rule {
	return Rule{Field: field, Labels: labels, Mode: Substring, Offset: right}
}

func exact(field string, labels ...string) Rule {
	return Rule{Field: field, Labels: labels, Mode: Exact, Offset: right}
}

func under(field string, labels ...string) Rule {
	return Rule{Field: field, Labels: labels, Mode: Substring, Offset: below}
}

// inputRules: лист "Input specifications".
var inputRules = []Rule{
	sub("input_rating_kva", "Rating"),
	sub("input_onaf_rating_kva", "ONAF Rating"),
	exact("input_high_voltage_v", "High voltage"),
	exact("input_low_voltage_v", "Low voltage"),
	sub("input_connection_hv", "Connection HV"),
	sub("input_connection_lv", "Connection LV"),
	sub("input_frequency_hz", "Frequency"),
	exact("input_no_load_loss_w", "No-load losses"),
	exact("input_load_loss_w", "Load losses"),
	sub("input_impedance_percent", "Ucc"),
	sub("input_no_load_current_percent", "No-load current"),
	sub("input_clock_number", "Clock number"),
	// в части шаблонов заголовок с опечаткой
	under("input_cooling_type", "Cooilng Type", "Cooling Type"),
	sub("input_lv_material", "LV material"),
	sub("input_hv_material", "HV material"),
	sub("input_lv_winding_type", "Low voltage winding"),
	sub("input_hv_wire_type", "HV wire type"),
	sub("input_lv_wire_type", "LV wire type"),
	sub("input_core_shape", "core shape"),
	sub("input_ambient_temp_c", "Ambient temperature"),
	sub("input_top_oil_rise_k", "Top oil"),
	sub("input_winding_rise_k", "Winding"),
	exact("input_hotspot_k", "hotspot"),
}

// outputRules: лист "Output".
var outputRules = []Rule{
	under("output_vector_group", "Connection symbol"),
	sub("output_voltage_lv_v", "Voltage LV"),
	sub("output_voltage_hv_v", "Voltage HV"),
	sub("output_core_diameter_mm", "Core diameter"),
	sub("output_core_section_cm2", "Core section"),
	sub("output_core_weight_kg", "Core Weight"),
	sub("output_core_material", "Core Material"),
	sub("output_induction_tesla", "Induction"),
	sub("output_no_load_loss_w", "No load losses"),
	sub("output_no_load_current_percent", "No load current"),
	sub("output_load_loss_w", "total load losses"),
	sub("output_impedance_percent", "Impedance Ucc"),
	sub("output_pei", "PEI"),
	sub("output_efficiency_percent", "efficiency at 100"),
	sub("output_sound_power_db", "Sound Power"),
	sub("output_top_oil_rise_k", "Top oil"),
	sub("output_winding_temp_hv_k", "Winding temp (HV)", "Winding temperature HV"),
	sub("output_winding_temp_lv_k", "Winding temp (LV)", "Winding temperature LV"),
	exact("output_hotspot_k", "hotspot"),
	sub("output_weight_lv_kg", "Weight LV"),
	sub("output_weight_hv_kg", "Weight HV"),
	sub("output_total_weight_kg", "Total (kg)"),
	sub("output_oil_volume_l", "Oil volume"),
	sub("output_tank_length_mm", "Inner Length"),
	sub("output_tank_width_mm", "Inner Widht", "Inner Width"),
	sub("output_tank_height_mm", "final height"),
	sub("output_foil_height_mm", "Foil Height"),
	sub("output_foil_thickness_mm", "Foil Thickness"),
	sub("output_turns_lv", "Number of Turns LV", "Number of turns LV"),
	sub("output_turns_hv", "Number of turns HV"),
	sub("output_inner_diameter_lv_mm", "Inner diameter LV"),
	sub("output_outer_diameter_lv_mm", "Outer diameter LV"),
	sub("output_inner_diameter_hv_mm", "Inner diameter HV"),
	sub("output_outer_diameter_hv_mm", "Outer diameter HV"),
	sub("output_phase_current_lv_a", "Phase current LV"),
	sub("output_phase_current_hv_a", "Phase current HV"),
	sub("output_current_density_lv", "Current density LV"),
	sub("output_current_density_hv", "Current density HV"),
	sub("output_volts_per_turn", "Volts per turn"),
	sub("output_cost_dollar", "Cost Dollar", "Cost"),
}

// Rules: все правила по листам.
func Rules() map[string][]Rule {
	return map[string][]Rule{
		model.InputSheet:  inputRules,
		model.OutputSheet: outputRules,
	}
}
