package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"trafo-matcher/internal/design/extract"
	"trafo-matcher/internal/design/model"
	"trafo-matcher/internal/fileio"
	"trafo-matcher/internal/metrics"
)

var (
	ErrFileNotFound  = errors.New("file not found")
	ErrUnknownAction = errors.New("unknown action")
)

// Action: что сделать с файлом из уведомления.
type Action string

const (
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// BatchResult: итог массовой синхронизации; ErrorList обрезан до ErrorCap.
type BatchResult struct {
	TotalFiles int      `json:"total_files"`
	Success    int      `json:"success"`
	Errors     int      `json:"errors"`
	ErrorList  []string `json:"error_list"`
}

// IngestResult: ответ на уведомление об одном файле.
type IngestResult struct {
	Success      bool           `json:"success"`
	Message      string         `json:"message"`
	DesignNumber string         `json:"design_number,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

type SyncOptions struct {
	Root     string
	Workers  int
	ErrorCap int
}

// Syncer: перенос книг дизайнов из каталога файлов в Catalog.
type Syncer struct {
	catalog *Catalog
	parser  *extract.Extractor
	opts    SyncOptions
	logger  zerolog.Logger
}

func NewSyncer(c *Catalog, parser *extract.Extractor, opts SyncOptions, logger zerolog.Logger) *Syncer {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.ErrorCap <= 0 {
		opts.ErrorCap = 10
	}
	return &Syncer{catalog: c, parser: parser, opts: opts, logger: logger.With().Str("component", "sync").Logger()}
}

func (s *Syncer) Root() string { return s.opts.Root }

// SyncDirectory: скан → разбор → upsert. Плохой файл даёт одну ошибку, пакет не прерывается.
func (s *Syncer) SyncDirectory(ctx context.Context) (BatchResult, error) {
	files, err := s.parser.FindDesignFiles(ctx, s.opts.Root, s.opts.Workers)
	if err != nil {
		return BatchResult{}, fmt.Errorf("scan %s: %w", s.opts.Root, err)
	}

	// разбор параллельно, запись последовательно и в порядке файлов
	recs := make([]model.Record, len(files))
	errs := make([]error, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := s.parser.ParseFile(path)
			if err == nil {
				err = rec.Validate()
			}
			recs[i], errs[i] = rec, err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}

	res := BatchResult{TotalFiles: len(files), ErrorList: []string{}}
	fail := func(path string, err error) {
		res.Errors++
		metrics.SyncFilesTotal.WithLabelValues("error").Inc()
		if len(res.ErrorList) < s.opts.ErrorCap {
			res.ErrorList = append(res.ErrorList, fmt.Sprintf("%s: %v", filepath.Base(path), err))
		}
		s.logger.Warn().Err(err).Str("file", path).Msg("sync: file skipped")
	}
	for i, path := range files {
		i, path := i, path
		if errs[i] != nil {
			fail(path, errs[i])
			continue
		}
		if _, err := s.catalog.Upsert(ctx, recs[i]); err != nil {
			fail(path, err)
			continue
		}
		res.Success++
		metrics.SyncFilesTotal.WithLabelValues("ok").Inc()
	}

	s.logger.Info().
		Int("total", res.TotalFiles).
		Int("success", res.Success).
		Int("errors", res.Errors).
		Msg("sync done")
	return res, nil
}

// Ingest: обработка одного файла: add/update разбирают и пишут, delete удаляет по имени файла.
// Ошибки запроса (нет файла, не то расширение, неизвестное действие) возвращаются как error,
// неудачный разбор: как IngestResult{Success: false}.
func (s *Syncer) Ingest(ctx context.Context, path string, action Action) (IngestResult, error) {
	if action == "" {
		action = ActionAdd
	}
	path = s.resolve(path)
	dn := extract.DesignNumber(path)

	switch action {
	case ActionDelete:
		ok, err := s.catalog.Delete(ctx, dn)
		if err != nil {
			return IngestResult{}, err
		}
		if !ok {
			return IngestResult{Success: false, Message: "design not found: " + dn, DesignNumber: dn}, nil
		}
		s.logger.Info().Str("design", dn).Msg("design deleted")
		return IngestResult{Success: true, Message: "design deleted: " + dn, DesignNumber: dn}, nil
	case ActionAdd, ActionUpdate:
	default:
		return IngestResult{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	if _, err := os.Stat(path); err != nil {
		return IngestResult{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if !fileio.Supported(path) {
		return IngestResult{}, fmt.Errorf("%w: %s", model.ErrUnsupportedFile, filepath.Ext(path))
	}

	rec, err := s.parser.ParseFile(path)
	if err == nil {
		err = rec.Validate()
	}
	if err != nil {
		metrics.SyncFilesTotal.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Str("file", path).Msg("ingest: parse failed")
		return IngestResult{Success: false, Message: ingestFailure(dn, err), DesignNumber: dn}, nil
	}

	created, err := s.catalog.Upsert(ctx, rec)
	if err != nil {
		metrics.SyncFilesTotal.WithLabelValues("error").Inc()
		return IngestResult{Success: false, Message: fmt.Sprintf("error: %v", err), DesignNumber: dn}, nil
	}
	metrics.SyncFilesTotal.WithLabelValues("ok").Inc()

	verb := "added"
	if !created {
		verb = "updated"
	}
	s.logger.Info().Str("design", dn).Str("action", string(action)).Bool("created", created).Msg("design ingested")
	return IngestResult{
		Success:      true,
		Message:      fmt.Sprintf("design %s: %s", verb, dn),
		DesignNumber: dn,
		Details:      summary(rec),
	}, nil
}

// resolve: относительный путь считается от папки дизайнов.
func (s *Syncer) resolve(path string) string {
	if filepath.IsAbs(path) || s.opts.Root == "" {
		return path
	}
	return filepath.Join(s.opts.Root, path)
}

func ingestFailure(dn string, err error) string {
	switch {
	case errors.Is(err, model.ErrNotDesignFile):
		return fmt.Sprintf("cannot parse %s: %q and %q sheets are required", dn, model.InputSheet, model.OutputSheet)
	case errors.Is(err, model.ErrMissingRating):
		return "rating not found in " + dn
	}
	return fmt.Sprintf("error: %v", err)
}

func summary(r model.Record) map[string]any {
	out := map[string]any{}
	for key, field := range map[string]string{
		"rating_kva":     "input_rating_kva",
		"high_voltage_v": "input_high_voltage_v",
		"low_voltage_v":  "input_low_voltage_v",
		"vector_group":   "output_vector_group",
	} {
		v, _ := r.Get(field)
		out[key] = v.Any()
	}
	return out
}
