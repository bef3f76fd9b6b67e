package service

import (
	"math"
	"testing"

	"trafo-matcher/internal/design/model"
)

func record(dn string, fields map[string]model.Value) model.Record {
	r := model.NewRecord(dn, "/designs/"+dn+".xlsx")
	for k, v := range fields {
		r.Set(k, v)
	}
	return r
}

func query(t *testing.T, params map[string]any) model.Query {
	t.Helper()
	q, err := model.NewQuery(params)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	return q
}

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScore_ExactThreeFields(t *testing.T) {
	r := record("D-1", map[string]model.Value{
		"input_rating_kva":     model.Number(100),
		"input_high_voltage_v": model.Number(11000),
		"input_low_voltage_v":  model.Number(415),
	})
	q := query(t, map[string]any{"rating_kva": 100, "high_voltage_v": 11000, "low_voltage_v": 415})

	score, details := NewScorer(false).Score(q, r)
	if !almost(score, 1) {
		t.Fatalf("score: got %v, want 1", score)
	}
	if len(details) != 3 {
		t.Fatalf("details: got %d entries", len(details))
	}
	if d := details["high_voltage_v"]; d.Weight != 0.9 || d.WeightedScore != 0.9 {
		t.Fatalf("hv detail: %+v", d)
	}
}

func TestScore_WeightedAverage(t *testing.T) {
	r := record("D-1", map[string]model.Value{
		"input_rating_kva":    model.Number(100),
		"output_vector_group": model.Text("Dyn5"),
	})
	q := query(t, map[string]any{"rating_kva": 100, "vector_group": "Dyn11"})

	score, _ := NewScorer(false).Score(q, r)
	want := (1.0*1.0 + 0.8*0.8) / (1.0 + 0.8)
	if !almost(score, want) {
		t.Fatalf("score: got %v, want %v", score, want)
	}
}

func TestScore_MissingDesignValueIsNeutral(t *testing.T) {
	r := record("D-1", map[string]model.Value{"input_rating_kva": model.Number(100)})
	q := query(t, map[string]any{"rating_kva": 100, "cooling_type": "ONAN"})

	score, details := NewScorer(false).Score(q, r)
	if details["cooling_type"].Score != 0.5 {
		t.Fatalf("cooling: got %v, want 0.5", details["cooling_type"].Score)
	}
	want := (1.0 + 0.5*0.5) / 1.5
	if !almost(score, want) {
		t.Fatalf("score: got %v, want %v", score, want)
	}
}

func TestScore_BlankQueryValueChangesNothing(t *testing.T) {
	r := record("D-1", map[string]model.Value{
		"input_rating_kva":     model.Number(100),
		"input_high_voltage_v": model.Number(10000),
	})
	s := NewScorer(false)

	base, _ := s.Score(query(t, map[string]any{"rating_kva": 100, "high_voltage_v": 11000}), r)
	for _, blank := range []any{nil, "", "null", "None"} {
		q := query(t, map[string]any{"rating_kva": 100, "high_voltage_v": 11000, "load_loss_w": blank})
		got, _ := s.Score(q, r)
		if got != base {
			t.Fatalf("blank %v: got %v, want %v", blank, got, base)
		}
	}
}

func TestScore_CoreMaterialUsesOutputField(t *testing.T) {
	r := record("D-1", map[string]model.Value{
		"input_rating_kva":     model.Number(100),
		"output_core_material": model.Text("M5"),
	})
	_, details := NewScorer(false).Score(query(t, map[string]any{"core_material": "m5"}), r)
	if details["core_material"].Score != 1 {
		t.Fatalf("core material: %+v", details["core_material"])
	}
}

func TestScore_LossPrefersComputedValue(t *testing.T) {
	r := record("D-1", map[string]model.Value{
		"input_rating_kva":      model.Number(100),
		"input_no_load_loss_w":  model.Number(500),
		"output_no_load_loss_w": model.Number(260),
	})
	_, details := NewScorer(false).Score(query(t, map[string]any{"no_load_loss_w": 260}), r)
	if details["no_load_loss_w"].Score != 1 {
		t.Fatalf("no-load loss: %+v", details["no_load_loss_w"])
	}
}

func TestNumericScore_Bands(t *testing.T) {
	cases := []struct {
		a, b float64
		want float64
	}{
		{100, 100, 1},
		{100, 95, 1},
		{100, 92, 0.9},
		{100, 90, 0.9},
		{100, 85, 0.4},
		{100, 80, 0.4},
		{100, 79, 0},
		{0, 0, 1},
		{0, 5, 0},
		{-100, -96, 1},
	}
	for _, tc := range cases {
		got := numericScore(model.Number(tc.a), model.Number(tc.b), fixedBands)
		if got != tc.want {
			t.Errorf("numeric(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNumericScore_Monotonic(t *testing.T) {
	prev := 1.0
	for b := 100.0; b >= 0.5; b -= 0.5 {
		got := numericScore(model.Number(100), model.Number(b), fixedBands)
		if got > prev {
			t.Fatalf("score increased at b=%v: %v > %v", b, got, prev)
		}
		prev = got
	}
}

func TestNumericScore_MissingAndText(t *testing.T) {
	if got := numericScore(model.Number(100), model.Value{}, fixedBands); got != 0.5 {
		t.Fatalf("missing design value: %v", got)
	}
	if got := numericScore(model.Value{}, model.Number(100), fixedBands); got != 0.5 {
		t.Fatalf("missing query value: %v", got)
	}
	if got := numericScore(model.Text("11000V"), model.Number(11000), fixedBands); got != 1 {
		t.Fatalf("unit text: %v", got)
	}
	if got := numericScore(model.Text("high"), model.Number(11000), fixedBands); got != 0 {
		t.Fatalf("non-numeric text: %v", got)
	}
}

func TestCategoricalScore(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"ONAN", "onan", 1},
		{" Cu ", "cu", 1},
		{"ONAN", "ONAN/ONAF", 0.7},
		{"Al", "Cu", 0},
	}
	for _, tc := range cases {
		if got := categoricalScore(model.Text(tc.a), model.Text(tc.b)); got != tc.want {
			t.Errorf("categorical(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
	if got := categoricalScore(model.Text("ONAN"), model.Value{}); got != 0.5 {
		t.Errorf("missing: %v", got)
	}
}

func TestVectorGroupScore(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"Dyn11", "DYN11", 1},
		{"Dyn11", "Dyn5", 0.8},
		{"Yyn0", "Yyn6", 0.8},
		{"Dyn11", "Yyn0", 0},
		{"Dyn11", "Dyn 11", 0},
		{"Dd", "Dd0", 0.8},
	}
	for _, tc := range cases {
		if got := vectorGroupScore(model.Text(tc.a), model.Text(tc.b)); got != tc.want {
			t.Errorf("vector(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
	if got := vectorGroupScore(model.Value{}, model.Text("Dyn11")); got != 0.5 {
		t.Errorf("missing: %v", got)
	}
}

func TestScaledBands(t *testing.T) {
	s := NewScorer(true)

	// потери: допуск 0.15 → полосы 15/30/60%
	loss := s.bands("load_loss_w")
	if got := numericScore(model.Number(100), model.Number(88), loss); got != 1 {
		t.Fatalf("loss 12%%: %v", got)
	}
	if got := numericScore(model.Number(100), model.Number(50), loss); got != 0.4 {
		t.Fatalf("loss 50%%: %v", got)
	}

	// мощность: допуск 0.05 → те же полосы, что и фиксированные
	rating := s.bands("rating_kva")
	if got := numericScore(model.Number(100), model.Number(85), rating); got != 0.4 {
		t.Fatalf("rating 15%%: %v", got)
	}

	// частота: допуск 0 → только точное совпадение
	freq := s.bands("frequency_hz")
	if got := numericScore(model.Number(50), model.Number(50), freq); got != 1 {
		t.Fatalf("freq exact: %v", got)
	}
	if got := numericScore(model.Number(50), model.Number(49), freq); got != 0 {
		t.Fatalf("freq off: %v", got)
	}
}

func TestScore_UnparsableNumericQueryScoresZero(t *testing.T) {
	r := record("D-1", map[string]model.Value{"input_rating_kva": model.Number(100)})
	q := query(t, map[string]any{"rating_kva": "large"})
	score, details := NewScorer(false).Score(q, r)
	if score != 0 || details["rating_kva"].Score != 0 {
		t.Fatalf("got %v / %+v", score, details["rating_kva"])
	}
}
