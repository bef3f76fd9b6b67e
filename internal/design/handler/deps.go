package handler

import (
	"context"

	"trafo-matcher/internal/catalog"
	"trafo-matcher/internal/design/model"
	"trafo-matcher/internal/design/service"
)

type Searcher interface {
	Search(ctx context.Context, text string, maxResults int) (service.Result, error)
	SearchForm(ctx context.Context, f service.FormQuery) (service.Result, error)
}

// Catalog: чтение каталога и сводки по нему.
type Catalog interface {
	All(ctx context.Context) ([]model.Record, error)
	Get(ctx context.Context, designNumber string) (model.Record, error)
	Stats(ctx context.Context) (catalog.Stats, error)
	Refresh(ctx context.Context) (catalog.Stats, error)
	Distinct(ctx context.Context, field string) ([]string, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// Ingester: загрузка файлов дизайнов в каталог.
type Ingester interface {
	Ingest(ctx context.Context, path string, action catalog.Action) (catalog.IngestResult, error)
	SyncDirectory(ctx context.Context) (catalog.BatchResult, error)
	Root() string
}

type ModelLister interface {
	Models(ctx context.Context) ([]string, error)
}
