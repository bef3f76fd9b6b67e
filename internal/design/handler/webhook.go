package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"trafo-matcher/internal/catalog"
)

type newDesignRequest struct {
	FilePath string         `json:"file_path"`
	Action   catalog.Action `json:"action"`
}

// NewDesign: POST /api/webhook/new-design, уведомление от файлового наблюдателя.
// Неудачный разбор файла отдаётся как 200 с success=false.
func NewDesign(in Ingester, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, logger)

		var req newDesignRequest
		if err := decode(r, &req); err != nil {
			fail(w, log, err)
			return
		}
		if strings.TrimSpace(req.FilePath) == "" {
			fail(w, log, fmt.Errorf("%w: file_path is required", errBadRequest))
			return
		}

		res, err := in.Ingest(r.Context(), req.FilePath, req.Action)
		if err != nil {
			fail(w, log, err)
			return
		}
		log.Info().
			Str("file", req.FilePath).
			Str("action", string(req.Action)).
			Bool("success", res.Success).
			Msg("webhook handled")
		respond(w, log, res)
	}
}

type bulkSyncResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Details catalog.BatchResult `json:"details"`
}

// BulkSync: POST /api/webhook/bulk-sync, полный пересбор каталога из папки дизайнов.
func BulkSync(in Ingester, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, logger)
		res, err := in.SyncDirectory(r.Context())
		if err != nil {
			fail(w, log, err)
			return
		}
		respond(w, log, bulkSyncResponse{Success: true, Message: "sync completed", Details: res})
	}
}

type webhookStatus struct {
	Status           string            `json:"status"`
	DesignsDirectory string            `json:"designs_directory"`
	DatabaseStats    catalog.Stats     `json:"database_stats"`
	Endpoints        map[string]string `json:"endpoints"`
}

func WebhookStatus(c Catalog, in Ingester, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, logger)
		st, err := c.Stats(r.Context())
		if err != nil {
			fail(w, log, err)
			return
		}
		respond(w, log, webhookStatus{
			Status:           "active",
			DesignsDirectory: in.Root(),
			DatabaseStats:    st,
			Endpoints: map[string]string{
				"new_design": "POST /api/webhook/new-design",
				"bulk_sync":  "POST /api/webhook/bulk-sync",
				"status":     "GET /api/webhook/status",
			},
		})
	}
}
