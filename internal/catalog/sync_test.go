package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"trafo-matcher/internal/design/extract"
	"trafo-matcher/internal/design/model"
)

func writeDesign(t *testing.T, path string, kva any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet(model.InputSheet); err != nil {
		t.Fatal(err)
	}
	if _, err := f.NewSheet(model.OutputSheet); err != nil {
		t.Fatal(err)
	}
	rows := [][]any{{"High voltage", 11000}, {"Low voltage", 415}}
	if kva != nil {
		rows = append(rows, []any{"Rating", kva})
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(model.InputSheet, cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SetSheetRow(model.OutputSheet, "A1", &[]any{"Connection symbol"}); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow(model.OutputSheet, "A2", &[]any{"Dyn11"}); err != nil {
		t.Fatal(err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func newSyncer(t *testing.T, root string, errorCap int) (*Syncer, *Catalog) {
	t.Helper()
	c := New(openMemory(t), zerolog.Nop())
	s := NewSyncer(c, extract.New(zerolog.Nop()), SyncOptions{Root: root, Workers: 2, ErrorCap: errorCap}, zerolog.Nop())
	return s, c
}

func TestSyncDirectory(t *testing.T) {
	dir := t.TempDir()
	writeDesign(t, filepath.Join(dir, "D-100.xlsx"), 100)
	writeDesign(t, filepath.Join(dir, "D-250.xlsx"), "250 kVA")
	writeDesign(t, filepath.Join(dir, "D-bad.xlsx"), nil)

	s, c := newSyncer(t, dir, 10)
	res, err := s.SyncDirectory(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if res.TotalFiles != 3 || res.Success != 2 || res.Errors != 1 || len(res.ErrorList) != 1 {
		t.Fatalf("result: %+v", res)
	}

	recs, _ := c.All(context.Background())
	if len(recs) != 2 {
		t.Fatalf("catalog: %d records", len(recs))
	}

	// повторная синхронизация обновляет, а не дублирует
	if _, err := s.SyncDirectory(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n, _ := c.Count(context.Background()); n != 2 {
		t.Fatalf("count after resync: %d", n)
	}
}

func TestSyncDirectory_ErrorListCapped(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		writeDesign(t, filepath.Join(dir, fmt.Sprintf("bad-%d.xlsx", i)), nil)
	}
	s, _ := newSyncer(t, dir, 3)
	res, err := s.SyncDirectory(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Errors != 5 || len(res.ErrorList) != 3 {
		t.Fatalf("result: %+v", res)
	}
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "D-7.xlsx")
	writeDesign(t, path, 400)
	s, c := newSyncer(t, dir, 10)

	res, err := s.Ingest(ctx, path, ActionAdd)
	if err != nil || !res.Success || res.Message != "design added: D-7" {
		t.Fatalf("add: %+v %v", res, err)
	}
	if res.Details["rating_kva"] != 400.0 || res.Details["vector_group"] != "Dyn11" {
		t.Fatalf("details: %v", res.Details)
	}

	res, err = s.Ingest(ctx, path, ActionUpdate)
	if err != nil || !res.Success || res.Message != "design updated: D-7" {
		t.Fatalf("update: %+v %v", res, err)
	}

	res, err = s.Ingest(ctx, path, ActionDelete)
	if err != nil || !res.Success {
		t.Fatalf("delete: %+v %v", res, err)
	}
	if _, err := c.Get(ctx, "D-7"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("design must be gone: %v", err)
	}

	res, err = s.Ingest(ctx, path, ActionDelete)
	if err != nil || res.Success {
		t.Fatalf("delete missing: %+v %v", res, err)
	}
}

func TestIngest_Errors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, _ := newSyncer(t, dir, 10)

	if _, err := s.Ingest(ctx, filepath.Join(dir, "nope.xlsx"), ActionAdd); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("missing file: %v", err)
	}

	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Ingest(ctx, txt, ActionAdd); !errors.Is(err, model.ErrUnsupportedFile) {
		t.Fatalf("unsupported: %v", err)
	}

	if _, err := s.Ingest(ctx, txt, Action("rename")); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("unknown action: %v", err)
	}

	noRating := filepath.Join(dir, "D-0.xlsx")
	writeDesign(t, noRating, nil)
	res, err := s.Ingest(ctx, noRating, ActionAdd)
	if err != nil || res.Success || res.Message != "rating not found in D-0" {
		t.Fatalf("no rating: %+v %v", res, err)
	}
}

func TestIngest_RelativePath(t *testing.T) {
	dir := t.TempDir()
	writeDesign(t, filepath.Join(dir, "D-9.xlsx"), 160)
	s, c := newSyncer(t, dir, 10)

	res, err := s.Ingest(context.Background(), "D-9.xlsx", "")
	if err != nil || !res.Success {
		t.Fatalf("ingest: %+v %v", res, err)
	}
	rec, err := c.Get(context.Background(), "D-9")
	if err != nil {
		t.Fatal(err)
	}
	if rec.FilePath != filepath.Join(dir, "D-9.xlsx") {
		t.Errorf("file path = %q", rec.FilePath)
	}
}
