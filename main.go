package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"msuhthegreat/pricefinder/config"
	"msuhthegreat/pricefinder/helpers"
	"msuhthegreat/pricefinder/internal/compare"
	"msuhthegreat/pricefinder/internal/extract"
	"msuhthegreat/pricefinder/logger"
	alertsvc "msuhthegreat/pricefinder/services/alert"
	"msuhthegreat/pricefinder/services/cache"
	exportsvc "msuhthegreat/pricefinder/services/export"
	"msuhthegreat/pricefinder/services/pipeline"
	"msuhthegreat/pricefinder/services/snapshot"

	"github.com/joho/godotenv"
)

const errorLogFile = "pricefinder_errors.log"

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	queries, err := cfg.LoadQueries()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load product queries")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Int("queries", len(queries)).
		Float64("drop_threshold", cfg.DropThreshold).
		Str("snapshot_backend", cfg.SnapshotBackend).
		Msg("Starting run")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling: a signal aborts the run before rotation
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal, aborting run")
		cancel()
	}()

	// Initialize the snapshot store
	store := newStore(cfg)
	defer store.Close()

	// Initialize the page source with optional shared rate-limit state
	var cacheSvc cache.CacheService
	if cfg.MemcacheAddr != "" {
		cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	} else {
		cacheSvc = cache.NewMemoryService()
	}
	source := extract.NewHTTPSource(cfg.SearchURL, cfg.MaxPages, cacheSvc, cfg.FetchBlockTime)

	// Export is optional; without an endpoint the run rotates unconditionally
	var sink exportsvc.Sink
	if cfg.ExportURL != "" {
		sink = exportsvc.NewSheetSink(cfg.ExportURL, cfg.ExportToken, cfg.ExportAttempts)
	}

	p := pipeline.NewPipeline(
		queries,
		extract.NewExtractor(source, extract.DefaultSelectors()),
		store,
		compare.NewDetector(cfg.DropThreshold),
		alertsvc.NewAlertzyDispatcher(cfg.AlertzyURL, cfg.AlertzyAccountKey, cfg.AlertGroup),
		sink,
		helpers.NewLogger(errorLogFile),
	)

	report, err := p.Run(ctx)
	if err != nil {
		log.Error().Err(err).Str("run_id", report.RunID).Msg("Run failed, baseline preserved")
		os.Exit(1)
	}

	log.Info().Str("summary", report.Summary()).Msg("Run completed")
}

// newStore picks the snapshot backend from configuration
func newStore(cfg config.Config) snapshot.Store {
	if cfg.SnapshotBackend == "redis" {
		logger.Info("Using Redis snapshot store at %s (DB: %d)", cfg.RedisAddr, cfg.RedisDB)
		return snapshot.NewRedisStore(cfg.RedisAddr, cfg.RedisDB, "")
	}
	logger.Info("Using file snapshot store at %s", cfg.DataDir)
	return snapshot.NewFileStore(cfg.DataDir)
}
