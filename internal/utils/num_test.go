package utils

import "testing"

func TestFirstNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"100 kVA", 100, true},
		{"4,5 %", 4.5, true},
		{"Dyn11", 11, true},
		{"1.5E-3", 0.0015, true},
		{"  -20 °C", -20, true},
		{"11\u00a0000", 11000, true},
		{"N/A", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
	}
	for _, tt := range tests {
		got, ok := FirstNumber(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("FirstNumber(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFirstInt(t *testing.T) {
	if n, ok := FirstInt("12.9 turns"); !ok || n != 12 {
		t.Errorf("FirstInt = %d, %v", n, ok)
	}
	if _, ok := FirstInt("none"); ok {
		t.Error("expected no number")
	}
}
