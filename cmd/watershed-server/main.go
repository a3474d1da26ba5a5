package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"

	"github.com/cmorran/watershed/pkg/config"
	"github.com/cmorran/watershed/pkg/delineate"
	"github.com/cmorran/watershed/pkg/fetch"
	"github.com/cmorran/watershed/pkg/health"
	"github.com/cmorran/watershed/pkg/logging"
	"github.com/cmorran/watershed/pkg/metrics"
	"github.com/cmorran/watershed/pkg/nhd"
	"github.com/cmorran/watershed/pkg/server"
	"github.com/cmorran/watershed/pkg/spatial"
	"github.com/cmorran/watershed/pkg/store"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	logger := logging.Default()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", logging.Error(err))
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	layout := nhd.Layout{Root: cfg.DataRoot}
	ctx := context.Background()

	var fetcher *fetch.Fetcher
	if cfg.S3.Enabled {
		fetcher, err = fetch.NewFetcher(ctx, cfg.S3.Bucket, cfg.S3.Region, layout, logger)
		if err != nil {
			logger.Error("failed to create dataset fetcher", logging.Error(err))
			os.Exit(1)
		}
		if err := fetcher.FetchShared(ctx); err != nil {
			logger.Error("failed to fetch shared dataset layers", logging.Error(err))
			os.Exit(1)
		}
	}

	locator, err := spatial.NewGeoLocator(layout.ZoneBoundaryPath(), cfg.ZoneProperty, cfg.UnitProperty, layout.CatchmentPath)
	if err != nil {
		logger.Error("failed to load zone boundary layer", logging.Error(err))
		os.Exit(1)
	}

	registry := metrics.DefaultRegistry()
	checker := health.NewHealthChecker()
	checker.RegisterLivenessCheck("service", func() health.Check {
		return health.SimpleCheck("service")
	})

	var source delineate.Source
	switch cfg.Source {
	case config.SourcePostgres:
		pg, err := store.NewPGSource(ctx, cfg.DatabaseURL, cfg.TerminalClass)
		if err != nil {
			logger.Error("failed to connect to database", logging.Error(err))
			os.Exit(1)
		}
		defer pg.Close()
		source = pg
		checker.RegisterReadinessCheck("database", health.DatabaseCheck(func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return pg.Ping(pingCtx)
		}))
	default:
		fs := delineate.FileSource{Layout: layout, TerminalClass: cfg.TerminalClass}
		if fetcher != nil {
			source = fetch.NewFetchingSource(fs, fetcher)
		} else {
			source = fs
		}
		checker.RegisterReadinessCheck("dataset", health.DatasetCheck(func() []string {
			return []string{layout.InterVPUPath(), layout.ZoneBoundaryPath()}
		}))
	}
	checker.RegisterCheck("memory", health.MemoryCheck(func() (uint64, uint64) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return m.Alloc, m.Sys
	}))

	service := delineate.NewService(source, locator, logger, registry)
	api := server.NewServer(service, checker, registry, logger, cfg.MaxUnits)

	gs := server.NewGracefulServer(cfg.Server.Addr, api.Handler(), logger)
	gs.SetConfigReloadFunc(func() error {
		_, err := config.Load(*configPath)
		return err
	})

	registry.StartSystemCollector(10*time.Second, gs.ShutdownChannel())

	logger.Info("watershed server starting",
		logging.String("addr", cfg.Server.Addr),
		logging.String("source", cfg.Source),
		logging.Path(cfg.DataRoot))
	if err := gs.Start(); err != nil {
		logger.Error("server error", logging.Error(err))
		os.Exit(1)
	}
}
