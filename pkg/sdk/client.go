package caskbook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/caskbook/internal/db"
	dbRedis "github.com/kailas-cloud/caskbook/internal/db/redis"
	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
	catalogrepo "github.com/kailas-cloud/caskbook/internal/repository/catalog"
	"github.com/kailas-cloud/caskbook/internal/repository/catalogcache"
	cataloguc "github.com/kailas-cloud/caskbook/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/caskbook/internal/usecase/health"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = 5 * time.Minute
)

// catalogUseCase is the slice of the catalog service the client needs.
type catalogUseCase interface {
	Snapshot(ctx context.Context) (*domcat.Snapshot, error)
	Whisky(ctx context.Context, slug string) (domcat.Whisky, error)
	SimilarTo(ctx context.Context, query flavor.Vector, limit int) ([]flavor.Scored[domcat.Whisky], error)
	Scorer() *flavor.Scorer
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the caskbook SDK entry point.
type Client struct {
	store     db.Store
	catalog   catalogUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{cacheTTL: defaultCacheTTL}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("caskbook: database address required (use WithValkey or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("caskbook: database not ready: %w", err)
	}

	c, err := wireClient(store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("caskbook: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("caskbook: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) (*Client, error) {
	weights := flavor.DefaultWeights()
	if len(cfg.weights) > 0 {
		var err error
		if weights, err = flavor.WeightsFromMap(cfg.weights); err != nil {
			return nil, fmt.Errorf("caskbook: %w", err)
		}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	repo := catalogrepo.New(store)
	snapshots := catalogcache.New(repo, cfg.cacheTTL, nil, nil, logger)
	catalogSvc := cataloguc.New(repo, snapshots, flavor.NewScorer(weights), cataloguc.Options{
		Shards: cfg.shards,
	})

	return &Client{
		store:     store,
		catalog:   catalogSvc,
		healthSvc: healthuc.New(store, nil),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// Weights returns the similarity weight of every dimension.
func (c *Client) Weights() map[string]float64 {
	return c.catalog.Scorer().Weights().Map()
}
