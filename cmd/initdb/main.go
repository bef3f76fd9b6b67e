package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"trafo-matcher/internal/catalog"
	"trafo-matcher/internal/config"
	"trafo-matcher/internal/design/extract"
)

func main() {
	force := flag.Bool("force", false, "delete all designs before loading")
	dir := flag.String("dir", "", "designs directory (default: DESIGNS_DIRECTORY)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *dir != "" {
		cfg.DesignsDirectory = *dir
	}
	logger := config.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := catalog.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("open catalog store")
	}
	defer store.Close()
	cat := catalog.New(store, logger)

	if *force {
		n, err := cat.DeleteAll(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("delete designs")
		}
		logger.Info().Int64("deleted", n).Msg("catalog cleared")
	}

	syncer := catalog.NewSyncer(cat, extract.New(logger), catalog.SyncOptions{
		Root:     cfg.DesignsDirectory,
		Workers:  cfg.SyncWorkers,
		ErrorCap: cfg.SyncErrorCap,
	}, logger)
	res, err := syncer.SyncDirectory(ctx)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.DesignsDirectory).Msg("sync")
	}

	total, _ := cat.Count(ctx)
	fmt.Printf("files: %d, loaded: %d, failed: %d, designs in catalog: %d\n",
		res.TotalFiles, res.Success, res.Errors, total)
	for _, e := range res.ErrorList {
		fmt.Println("  ", e)
	}
	if res.Errors > 0 && res.Success == 0 {
		os.Exit(1)
	}
}
