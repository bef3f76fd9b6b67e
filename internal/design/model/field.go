package model

// Листы, без которых файл не считается дизайном.
const (
	InputSheet  = "Input specifications"
	OutputSheet = "Output"
)

// Kind: тип значения поля.
type Kind int

const (
	KindUnset Kind = iota
	KindNumber
	KindInteger
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindText:
		return "text"
	}
	return "unset"
}

// Field: описание одного поля записи: откуда (лист), какого типа, в чём измеряется.
type Field struct {
	Name  string `json:"name"`
	Sheet string `json:"sheet"`
	Kind  Kind   `json:"-"`
	Unit  string `json:"unit,omitempty"`
}

func in(name string, k Kind, unit string) Field {
	return Field{Name: "input_" + name, Sheet: InputSheet, Kind: k, Unit: unit}
}

func out(name string, k Kind, unit string) Field {
	return Field{Name: "output_" + name, Sheet: OutputSheet, Kind: k, Unit: unit}
}

// Catalog: фиксированная схема записи. Порядок = порядок вывода в JSON.
var Catalog = []Field{
	// Input specifications: мощность и напряжения
	in("rating_kva", KindNumber, "kVA"),
	in("onaf_rating_kva", KindNumber, "kVA"),
	in("high_voltage_v", KindNumber, "V"),
	in("low_voltage_v", KindNumber, "V"),
	// соединения
	in("connection_hv", KindText, ""),
	in("connection_lv", KindText, ""),
	// электрика (гарантийные значения)
	in("frequency_hz", KindNumber, "Hz"),
	in("no_load_loss_w", KindNumber, "W"),
	in("load_loss_w", KindNumber, "W"),
	in("impedance_percent", KindNumber, "%"),
	in("no_load_current_percent", KindNumber, "%"),
	in("clock_number", KindInteger, ""),
	// охлаждение и материалы
	in("cooling_type", KindText, ""),
	in("lv_material", KindText, ""),
	in("hv_material", KindText, ""),
	in("lv_winding_type", KindText, ""),
	in("hv_wire_type", KindText, ""),
	in("lv_wire_type", KindText, ""),
	in("core_shape", KindText, ""),
	// температуры
	in("ambient_temp_c", KindNumber, "°C"),
	in("top_oil_rise_k", KindNumber, "K"),
	in("winding_rise_k", KindNumber, "K"),
	in("hotspot_k", KindNumber, "K"),

	// Output: расчётные значения
	out("vector_group", KindText, ""),
	out("voltage_lv_v", KindNumber, "V"),
	out("voltage_hv_v", KindNumber, "V"),
	// сердечник
	out("core_diameter_mm", KindNumber, "mm"),
	out("core_section_cm2", KindNumber, "cm²"),
	out("core_weight_kg", KindNumber, "kg"),
	out("core_material", KindText, ""),
	out("induction_tesla", KindNumber, "T"),
	// потери
	out("no_load_loss_w", KindNumber, "W"),
	out("no_load_current_percent", KindNumber, "%"),
	out("load_loss_w", KindNumber, "W"),
	out("impedance_percent", KindNumber, "%"),
	// эффективность
	out("pei", KindNumber, "%"),
	out("efficiency_percent", KindNumber, "%"),
	out("sound_power_db", KindNumber, "dB(A)"),
	// нагрев
	out("top_oil_rise_k", KindNumber, "K"),
	out("winding_temp_hv_k", KindNumber, "K"),
	out("winding_temp_lv_k", KindNumber, "K"),
	out("hotspot_k", KindNumber, "K"),
	// массы
	out("weight_lv_kg", KindNumber, "kg"),
	out("weight_hv_kg", KindNumber, "kg"),
	out("total_weight_kg", KindNumber, "kg"),
	out("oil_volume_l", KindNumber, "L"),
	// бак
	out("tank_length_mm", KindNumber, "mm"),
	out("tank_width_mm", KindNumber, "mm"),
	out("tank_height_mm", KindNumber, "mm"),
	// обмотка НН (фольга), витки
	out("foil_height_mm", KindNumber, "mm"),
	out("foil_thickness_mm", KindNumber, "mm"),
	out("turns_lv", KindInteger, ""),
	out("turns_hv", KindInteger, ""),
	// диаметры обмоток
	out("inner_diameter_lv_mm", KindNumber, "mm"),
	out("outer_diameter_lv_mm", KindNumber, "mm"),
	out("inner_diameter_hv_mm", KindNumber, "mm"),
	out("outer_diameter_hv_mm", KindNumber, "mm"),
	// токи
	out("phase_current_lv_a", KindNumber, "A"),
	out("phase_current_hv_a", KindNumber, "A"),
	out("current_density_lv", KindNumber, "A/mm²"),
	out("current_density_hv", KindNumber, "A/mm²"),
	// прочее
	out("volts_per_turn", KindNumber, "V"),
	out("cost_dollar", KindNumber, "USD"),
}

var catalogIndex = func() map[string]Field {
	m := make(map[string]Field, len(Catalog))
	for _, f := range Catalog {
		m[f.Name] = f
	}
	return m
}()

// FieldByName ищет поле схемы по полному имени (input_*/output_*).
func FieldByName(name string) (Field, bool) {
	f, ok := catalogIndex[name]
	return f, ok
}

// RatingField: без него запись невалидна.
const RatingField = "input_rating_kva"
