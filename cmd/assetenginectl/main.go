// Command assetenginectl boots a Database against a local asset root and
// runs its maintain loop until interrupted, logging life-cycle events as
// they fire. Config load, dependency wiring, a background loop, and
// signal-driven graceful shutdown follow the same shape as a typical
// Go service entrypoint.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brain2-labs/assetengine/pkg/assetdb"
	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/events"
	"github.com/brain2-labs/assetengine/pkg/fetch"
	"github.com/brain2-labs/assetengine/pkg/fetch/local"
	"github.com/brain2-labs/assetengine/pkg/protocol"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	root := flag.String("root", ".", "directory to serve text:// assets from")
	configPath := flag.String("config", "", "path to a YAML config file (optional, falls back to defaults)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	cfg := assetdb.DefaultConfig()
	if *configPath != "" {
		loaded, err := assetdb.LoadConfig(*configPath)
		if err != nil {
			logger.Fatal("failed to load config", zap.Error(err))
		}
		cfg = loaded
	}

	reg := prometheus.NewRegistry()
	metrics := assetdb.NewMetrics(reg)

	db := assetdb.New(logger, metrics)
	db.WithProtocol(protocol.NewTextAssetProtocol())

	hotReload, err := fetch.NewHotReload(local.New(*root), *root, cfg.PollInterval, logger)
	if err != nil {
		logger.Fatal("failed to start hot reload watcher", zap.Error(err))
	}
	defer hotReload.Close()
	db.WithFetch(hotReload)

	unsubscribe := db.Events().Subscribe(0, func(ev events.Event) {
		switch e := ev.(type) {
		case events.AssetReady:
			logger.Info("asset ready", zap.String("entity", e.Entity().String()))
		case events.AssetError:
			logger.Warn("asset error", zap.String("entity", e.Entity().String()), zap.Error(e.Err))
		case events.AssetUnloaded:
			logger.Info("asset unloaded", zap.String("entity", e.Entity().String()))
		}
	})
	defer unsubscribe()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(flag.Args()) > 0 {
		for _, arg := range flag.Args() {
			p, err := assetpath.Parse(arg)
			if err != nil {
				logger.Warn("skipping malformed path argument", zap.String("path", arg), zap.Error(err))
				continue
			}
			if _, err := db.Ensure(p); err != nil {
				logger.Warn("failed to ensure path", zap.String("path", arg), zap.Error(err))
			}
		}
	}

	logger.Info("assetenginectl started", zap.String("root", *root), zap.Duration("pollInterval", cfg.PollInterval))

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case <-ticker.C:
			if err := db.Maintain(); err != nil {
				logger.Error("maintain tick failed", zap.Error(err))
			}
		}
	}
}
