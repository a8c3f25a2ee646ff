package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/caskbook/internal/config"
	dbRedis "github.com/kailas-cloud/caskbook/internal/db/redis"
	"github.com/kailas-cloud/caskbook/internal/domain"
	logpkg "github.com/kailas-cloud/caskbook/internal/logger"
	catalogrepo "github.com/kailas-cloud/caskbook/internal/repository/catalog"
	"github.com/kailas-cloud/caskbook/internal/seed"
)

func main() {
	file := flag.String("file", "seed/catalog.yaml", "catalog YAML file")
	batch := flag.Int("batch", seed.DefaultBatchSize, "entries written per pipeline")
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := seed.LoadFile(*file)
	if err != nil {
		logger.Fatal("Failed to load seed file", zap.String("file", *file), zap.Error(err))
	}

	domain.KeyPrefix = cfg.Storage.KeyPrefix
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	logger.Info("Starting seed process",
		zap.String("file", *file),
		zap.Int("distilleries", len(catalog.Distilleries)),
		zap.Int("whiskies", len(catalog.Whiskies)),
	)
	stats, err := seed.New(catalogrepo.New(store), *batch, logger).Run(ctx, catalog)
	if err != nil {
		logger.Fatal("Seed process failed", zap.Error(err))
	}
	logger.Info("Seed process completed successfully",
		zap.Int("distilleries_added", stats.DistilleriesAdded),
		zap.Int("distilleries_updated", stats.DistilleriesUpdated),
		zap.Int("whiskies_added", stats.WhiskiesAdded),
		zap.Int("whiskies_updated", stats.WhiskiesUpdated),
		zap.Int("whiskies_skipped", stats.WhiskiesSkipped),
	)
}
