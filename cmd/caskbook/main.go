package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	authpkg "github.com/kailas-cloud/caskbook/internal/auth"
	"github.com/kailas-cloud/caskbook/internal/config"
	"github.com/kailas-cloud/caskbook/internal/db"
	dbRedis "github.com/kailas-cloud/caskbook/internal/db/redis"
	"github.com/kailas-cloud/caskbook/internal/domain"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
	"github.com/kailas-cloud/caskbook/internal/domain/page"
	logpkg "github.com/kailas-cloud/caskbook/internal/logger"
	"github.com/kailas-cloud/caskbook/internal/metrics"
	bottlerepo "github.com/kailas-cloud/caskbook/internal/repository/bottle"
	budgetrepo "github.com/kailas-cloud/caskbook/internal/repository/budget"
	catalogrepo "github.com/kailas-cloud/caskbook/internal/repository/catalog"
	"github.com/kailas-cloud/caskbook/internal/repository/catalogcache"
	"github.com/kailas-cloud/caskbook/internal/repository/suggestcache"
	userrepo "github.com/kailas-cloud/caskbook/internal/repository/user"
	wishlistrepo "github.com/kailas-cloud/caskbook/internal/repository/wishlist"
	chiTransport "github.com/kailas-cloud/caskbook/internal/transport/chi"
	openaiSug "github.com/kailas-cloud/caskbook/internal/transport/openai"
	authuc "github.com/kailas-cloud/caskbook/internal/usecase/auth"
	bottleuc "github.com/kailas-cloud/caskbook/internal/usecase/bottle"
	cataloguc "github.com/kailas-cloud/caskbook/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/caskbook/internal/usecase/health"
	profileuc "github.com/kailas-cloud/caskbook/internal/usecase/profile"
	suggestuc "github.com/kailas-cloud/caskbook/internal/usecase/suggest"
	wishlistuc "github.com/kailas-cloud/caskbook/internal/usecase/wishlist"
	"github.com/kailas-cloud/caskbook/internal/version"
)

func main() {
	// Load configuration based on ENV
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

	logger.Info("Starting caskbook API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Bool("suggest_enabled", cfg.Suggest.Enabled()),
	)

	domain.KeyPrefix = cfg.Storage.KeyPrefix
	page.DefaultLimit = cfg.Pagination.DefaultLimit
	page.MaxLimit = cfg.Pagination.MaxLimit

	// Redis and Valkey speak the same protocol; one rueidis store serves both.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterAuthMetrics()
	metrics.RegisterSimilarityMetrics()
	metrics.RegisterSuggestMetrics()

	weights := flavor.DefaultWeights()
	if len(cfg.Similarity.Weights) > 0 {
		if weights, err = flavor.WeightsFromMap(cfg.Similarity.Weights); err != nil {
			logger.Fatal("Invalid similarity weights", zap.Error(err))
		}
	}
	scorer := flavor.NewScorer(weights)

	tokens, err := authpkg.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL(), cfg.Auth.RefreshTTL())
	if err != nil {
		logger.Fatal("Failed to create token manager", zap.Error(err))
	}
	hasher, err := authpkg.NewHasher(cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("Failed to create password hasher", zap.Error(err))
	}

	// Repositories
	catRepo := catalogrepo.New(store)
	snapshots := catalogcache.New(
		catRepo, cfg.CatalogCache.TTL(), metrics.CatalogCacheTotal, metrics.CatalogWhiskies, logger,
	)
	bottles := bottlerepo.New(store)

	// Use case services
	catalogSvc := cataloguc.New(catRepo, snapshots, scorer, cataloguc.Options{
		DefaultLimit: cfg.Similarity.DefaultLimit,
		MaxLimit:     cfg.Similarity.MaxLimit,
		Shards:       cfg.Similarity.Shards,
	})

	suggester, provider := buildSuggester(ctx, &cfg.Suggest, store, logger)

	// Pass nil interface (not typed nil pointer!) when suggestions are disabled.
	var providerChecker healthuc.ProviderChecker
	if provider != nil {
		providerChecker = provider
	}

	server := chiTransport.NewServer(chiTransport.Services{
		Auth:     authuc.New(userrepo.New(store), tokens, hasher, cfg.Auth.AccessTTL()),
		Bottles:  bottleuc.New(bottles, catalogSvc),
		Catalog:  catalogSvc,
		Wishlist: wishlistuc.New(wishlistrepo.New(store), catalogSvc),
		Profile:  profileuc.New(bottles, snapshots, scorer),
		Suggest:  suggestuc.New(suggester),
		Health:   healthuc.New(store, providerChecker),
	}, logger)

	handler := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		Tokens:         tokens,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimits: chiTransport.RateLimits{
			LoginPerMinute:       cfg.RateLimit.LoginPerMinute,
			RegisterPerHour:      cfg.RateLimit.RegisterPerHour,
			PasswordResetPerHour: cfg.RateLimit.PasswordResetPerHour,
		},
		Logger: logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildSuggester assembles the decorator chain: Clamping -> Cached -> Instrumented -> OpenAI.
// It returns nils when no API key is configured.
func buildSuggester(
	ctx context.Context,
	cfg *config.SuggestConfig,
	store db.Store,
	logger *zap.Logger,
) (flavor.Suggester, *openaiSug.Suggester) {
	if !cfg.Enabled() {
		logger.Info("Flavor suggestions disabled: no api key")
		return nil, nil
	}

	// Base provider (with transport metrics built-in)
	base := openaiSug.NewSuggester(&openaiSug.Config{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		Provider: cfg.Provider,
		Logger:   logger,
	})

	// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
	var budget suggestuc.BudgetChecker
	if b := cfg.Budget; b.DailyTokenLimit > 0 || b.MonthlyTokenLimit > 0 {
		action := suggestuc.BudgetActionWarn
		if b.Action == "reject" {
			action = suggestuc.BudgetActionReject
		}
		tracker := suggestuc.NewBudgetTracker(cfg.Provider, b.DailyTokenLimit, b.MonthlyTokenLimit, action, logger)
		// Connect persistence store, loads current counters from DB.
		tracker.WithStore(ctx, budgetrepo.New(store))
		budget = tracker
	}

	var s flavor.Suggester = suggestuc.NewInstrumentedSuggester(base, cfg.Provider, cfg.Model, budget, logger)
	s = suggestcache.New(s, store, time.Duration(cfg.CacheTTLSec)*time.Second, metrics.SuggestCacheTotal, logger)

	logger.Info("Flavor suggester created",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
	)
	return flavor.NewClampingSuggester(s), base
}
