package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"trafo-matcher/internal/design/model"
)

// writeBook: книга с листами sheet→строки (ячейки любых типов, nil = пусто).
func writeBook(t *testing.T, path string, sheets map[string][][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for name, rows := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			r := row
			if err := f.SetSheetRow(name, cell, &r); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("delete default sheet: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func designSheets() map[string][][]any {
	return map[string][][]any{
		model.InputSheet: {
			{"Rating", 100, "kVA"},
			{"High voltage", 11000},
			{"Low voltage winding", "Foil"},
			{"Low voltage", 415},
			{"Frequency", "50 Hz"},
			{"No-load losses", "260"},
			{"Load losses", 1750},
			{"Ucc", "4,5 %"},
			{"Clock number", "11.0"},
			{"Cooilng Type"},
			{"ONAN"},
			{"LV material", "Al"},
			{"HV material", "Cu"},
		},
		model.OutputSheet: {
			{"Connection symbol"},
			{"Dyn11"},
			{"No load losses", 240},
			{"total load losses", 1700},
			{"Core Material", "M5"},
			{"Number of turns LV", 22},
		},
	}
}

func newExtractor() *Extractor { return New(zerolog.Nop()) }

func TestParseFile_Design(t *testing.T) {
	path := filepath.Join(t.TempDir(), "D-1001.xlsx")
	writeBook(t, path, designSheets())

	rec, err := newExtractor().ParseFile(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rec.DesignNumber != "D-1001" {
		t.Fatalf("design number: %q", rec.DesignNumber)
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	nums := map[string]float64{
		"input_rating_kva":        100,
		"input_high_voltage_v":    11000,
		"input_low_voltage_v":     415,
		"input_frequency_hz":      50,
		"input_no_load_loss_w":    260,
		"input_load_loss_w":       1750,
		"input_impedance_percent": 4.5,
		"input_clock_number":      11,
		"output_no_load_loss_w":   240,
		"output_load_loss_w":      1700,
		"output_turns_lv":         22,
	}
	for name, want := range nums {
		got, ok := rec.Number(name)
		if !ok || got != want {
			t.Errorf("%s: got %v (%v), want %v", name, got, ok, want)
		}
	}

	texts := map[string]string{
		"input_cooling_type":    "ONAN",
		"input_lv_material":     "Al",
		"input_hv_material":     "Cu",
		"input_lv_winding_type": "Foil",
		"output_vector_group":   "Dyn11",
		"output_core_material":  "M5",
	}
	for name, want := range texts {
		got, ok := rec.Text(name)
		if !ok || got != want {
			t.Errorf("%s: got %q (%v), want %q", name, got, ok, want)
		}
	}

	if v, ok := rec.Get("input_clock_number"); !ok || v.Kind() != model.KindInteger {
		t.Errorf("clock number must be integer, got %v", v.Kind())
	}
	if _, ok := rec.Get("output_pei"); ok {
		t.Errorf("absent label must leave field unset")
	}
}

func TestParseFile_NotDesign(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	writeBook(t, path, map[string][][]any{"Summary": {{"Rating", 100}}})

	_, err := newExtractor().ParseFile(path)
	if !errors.Is(err, model.ErrNotDesignFile) {
		t.Fatalf("want ErrNotDesignFile, got %v", err)
	}
}

func TestParseFile_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := newExtractor().ParseFile(path)
	if !errors.Is(err, model.ErrUnsupportedFile) {
		t.Fatalf("want ErrUnsupportedFile, got %v", err)
	}
}

func TestParseFile_MissingRating(t *testing.T) {
	sheets := designSheets()
	sheets[model.InputSheet] = sheets[model.InputSheet][1:]
	path := filepath.Join(t.TempDir(), "D-2.xlsx")
	writeBook(t, path, sheets)

	rec, err := newExtractor().ParseFile(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := rec.Validate(); !errors.Is(err, model.ErrMissingRating) {
		t.Fatalf("want ErrMissingRating, got %v", err)
	}
}

func TestParseFile_AlternateLabel(t *testing.T) {
	sheets := designSheets()
	in := sheets[model.InputSheet]
	for i, row := range in {
		if row[0] == "Cooilng Type" {
			in[i] = []any{"Cooling Type"}
			in[i+1] = []any{"ONAF"}
		}
	}
	path := filepath.Join(t.TempDir(), "D-3.xlsx")
	writeBook(t, path, sheets)

	rec, err := newExtractor().ParseFile(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got, _ := rec.Text("input_cooling_type"); got != "ONAF" {
		t.Fatalf("cooling type: %q", got)
	}
}

func TestParseFile_UnparsableNumberLeavesUnset(t *testing.T) {
	sheets := designSheets()
	sheets[model.OutputSheet] = append(sheets[model.OutputSheet], []any{"Induction", "n/a"})
	path := filepath.Join(t.TempDir(), "D-4.xlsx")
	writeBook(t, path, sheets)

	rec, err := newExtractor().ParseFile(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := rec.Get("output_induction_tesla"); ok {
		t.Fatalf("unparsable value must leave field unset")
	}
}

func TestFindDesignFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "2024")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeBook(t, filepath.Join(dir, "A.xlsx"), designSheets())
	writeBook(t, filepath.Join(sub, "B.xlsm"), designSheets())
	writeBook(t, filepath.Join(dir, "other.xlsx"), map[string][][]any{"Data": {{"x"}}})
	writeBook(t, filepath.Join(dir, "~$A.xlsx"), designSheets())
	if err := os.WriteFile(filepath.Join(dir, "readme.md"), []byte("#"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := newExtractor()
	all, err := e.FindSpreadsheets(dir)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("spreadsheets: got %v", all)
	}

	got, err := e.FindDesignFiles(context.Background(), dir, 2)
	if err != nil {
		t.Fatalf("find designs: %v", err)
	}
	want := []string{filepath.Join(sub, "B.xlsm"), filepath.Join(dir, "A.xlsx")}
	if len(got) != len(want) {
		t.Fatalf("designs: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("designs[%d]: got %s, want %s", i, got[i], want[i])
		}
	}
}
