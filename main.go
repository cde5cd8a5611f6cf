package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/lexengine/internal/database"
	"github.com/example/lexengine/internal/excel"
	"github.com/example/lexengine/internal/ingest"
	"github.com/example/lexengine/internal/profile"
	"github.com/example/lexengine/internal/scheduler"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	importPath := flag.String("import", "", "path to a vocabulary spreadsheet (xlsx or csv) to import")
	clientID := flag.String("client", "", "client id to import vocabulary for")
	language := flag.String("language", "ga", "language code for imported vocabulary")
	flag.Parse()

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	if err := database.Connect(); err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}
	defer database.Close()

	var cache *profile.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		db := 0
		if v := os.Getenv("REDIS_DB"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				db = n
			}
		}
		cache, err = profile.New(addr, os.Getenv("REDIS_PASSWORD"), db, logger)
		if err != nil {
			logger.Fatalw("failed to connect to redis", "error", err)
		}
		defer cache.Close()
	}

	aggregator := ingest.NewAggregator(logger, cache)

	// One-shot import mode
	if *importPath != "" {
		if *clientID == "" {
			logger.Fatal("-client is required with -import")
		}
		config := excel.DefaultImportConfig()
		config.FilePath = *importPath

		result, err := excel.ImportLexicon(context.Background(), config, *clientID, *language, aggregator)
		if err != nil {
			logger.Fatalw("import failed", "error", err)
		}
		logger.Infow("import finished",
			"processed", result.TotalProcessed,
			"events", result.EventsEmitted,
			"skipped", result.Skipped,
			"errors", len(result.Errors))
		for _, e := range result.Errors {
			logger.Warnw("import row error", "detail", e)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweep := scheduler.New(&scheduler.LogNotifier{Log: logger}, logger)
	sweep.Start()
	defer sweep.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("engine started, press Ctrl+C to stop")
	select {
	case sig := <-sigChan:
		logger.Infow("received signal, shutting down", "signal", sig.String())
		cancel()
	case <-ctx.Done():
	}

	logger.Info("engine stopped")
}
