package extract

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"trafo-matcher/internal/design/model"
	"trafo-matcher/internal/fileio"
)

// временные файлы Excel ("~$name.xlsx") пропускаем
const lockPrefix = "~$"

// FindSpreadsheets: все поддерживаемые книги под root (рекурсивно), в порядке пути.
func (e *Extractor) FindSpreadsheets(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			e.logger.Warn().Err(err).Str("path", path).Msg("walk: skip")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, lockPrefix) || !fileio.Supported(name) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// FindDesignFiles: книги, в которых есть оба обязательных листа.
// Листы проверяются параллельно (не больше workers файлов одновременно);
// нечитаемые файлы пропускаются с предупреждением.
func (e *Extractor) FindDesignFiles(ctx context.Context, root string, workers int) ([]string, error) {
	files, err := e.FindSpreadsheets(root)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = 1
	}

	ok := make([]bool, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sheets, err := fileio.SheetNames(path)
			if err != nil {
				e.logger.Warn().Err(err).Str("file", path).Msg("cannot read sheet list")
				return nil
			}
			ok[i] = hasAll(sheets, model.InputSheet, model.OutputSheet)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(files))
	for i, path := range files {
		i, path := i, path
		if ok[i] {
			out = append(out, path)
		}
	}
	e.logger.Info().Str("root", root).Int("spreadsheets", len(files)).Int("designs", len(out)).Msg("scan done")
	return out, nil
}

func hasAll(have []string, want ...string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
