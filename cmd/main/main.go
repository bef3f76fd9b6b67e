package main

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"trafo-matcher/internal/catalog"
	"trafo-matcher/internal/config"
	"trafo-matcher/internal/design/extract"
	"trafo-matcher/internal/design/service"
	"trafo-matcher/internal/nlquery"
	serverhttp "trafo-matcher/server/http"
)

func main() {
	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := config.SetupLogger(cfg)

	store, err := catalog.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("open catalog store")
	}
	defer store.Close()

	cat := catalog.New(store, logger)
	if n, err := cat.Count(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("count designs")
	} else if n == 0 {
		logger.Warn().Str("dir", cfg.DesignsDirectory).Msg("catalog is empty, run initdb or POST /api/webhook/bulk-sync")
	} else {
		logger.Info().Int("designs", n).Msg("catalog ready")
	}

	syncer := catalog.NewSyncer(cat, extract.New(logger), catalog.SyncOptions{
		Root:     cfg.DesignsDirectory,
		Workers:  cfg.SyncWorkers,
		ErrorCap: cfg.SyncErrorCap,
	}, logger)

	llm := nlquery.NewClient(nlquery.Config{
		BaseURL: cfg.OllamaURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.OllamaModel,
		Timeout: time.Duration(cfg.LLMTimeoutSec) * time.Second,
	}, logger)
	parser := nlquery.NewParser(llm, logger)

	searcher := service.NewSearcher(cat, parser, parser, service.Options{
		MinScore:       cfg.MinScore,
		MaxResults:     cfg.MaxResults,
		FormMaxResults: cfg.FormMaxResults,
		ScaleBands:     cfg.ToleranceBands,
	}, logger)

	r := serverhttp.NewRouter(cfg, serverhttp.Deps{
		Searcher: searcher,
		Catalog:  cat,
		Ingester: syncer,
		LLM:      llm,
	}, logger)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	logger.Info().Str("addr", cfg.Addr()).Str("llm", cfg.OllamaURL).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
