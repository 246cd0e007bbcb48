package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/lucasrodor/projeto-financeiro/internal/dashboard"
	"github.com/lucasrodor/projeto-financeiro/internal/external/labfin"
	"github.com/lucasrodor/projeto-financeiro/internal/portfolio"
	"github.com/lucasrodor/projeto-financeiro/internal/scheduler"
	"github.com/lucasrodor/projeto-financeiro/internal/scheduler/jobs"
	"github.com/lucasrodor/projeto-financeiro/internal/session"
	"github.com/lucasrodor/projeto-financeiro/internal/strategyconfig"
	"github.com/lucasrodor/projeto-financeiro/pkg/config"
	"github.com/lucasrodor/projeto-financeiro/pkg/database"
	"github.com/lucasrodor/projeto-financeiro/pkg/httputil"
	"github.com/lucasrodor/projeto-financeiro/pkg/logger"
	"github.com/lucasrodor/projeto-financeiro/pkg/redis"
)

// cacheNamespace prefixes every redis key of the app
const cacheNamespace = "magicformula"

// app holds the wired dependencies shared by the commands
type app struct {
	cfg          *config.Config
	log          *logger.Logger
	strategy     *strategyconfig.Config
	strategyHash string
	redis        *redis.Client
	db           *database.DB
	service      *dashboard.Service
	sessions     session.Store
	memSessions  *session.MemoryStore // nil when sessions live in redis
}

// newApp loads the config and wires provider, cache, history and service.
// Redis and PostgreSQL are optional.
func newApp(ctx context.Context) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if strategyFile != "" {
		cfg.StrategyFile = strategyFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Strategy
	strategy, err := strategyconfig.Load(cfg.StrategyFile)
	if err != nil {
		return nil, fmt.Errorf("load strategy: %w", err)
	}
	hash, err := strategyconfig.Hash(strategy)
	if err != nil {
		return nil, fmt.Errorf("hash strategy: %w", err)
	}

	a := &app{cfg: cfg, log: log, strategy: strategy, strategyHash: hash}

	// 4. Redis (cache + sessions)
	a.redis, err = redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(a.redis, cacheNamespace)

	if cache.Enabled() {
		a.sessions = session.NewRedisStore(cache, cfg.SessionTTL)
	} else {
		a.memSessions = session.NewMemoryStore(cfg.SessionTTL, log)
		a.sessions = a.memSessions
	}

	// 5. Database (portfolio history)
	var history dashboard.History
	a.db, err = database.New(ctx, cfg)
	switch {
	case errors.Is(err, database.ErrDisabled):
		log.Debug("DATABASE_URL not set, portfolio history disabled")
	case err != nil:
		a.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	default:
		repo := portfolio.NewRepository(a.db.Pool, hash)
		if err := repo.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
		history = repo
	}

	// 6. Provider
	provider := labfin.NewClient(httputil.New(cfg, log), cfg.LabFin.BaseURL, cfg.LabFin.Token, log).
		WithBenchmark(strategy.Benchmark.Ticker)

	// 7. Service
	a.service = dashboard.NewService(dashboard.Deps{
		Provider: provider,
		Strategy: strategy,
		Cache:    cache,
		History:  history,
		Logger:   log,
	})

	log.WithFields(map[string]interface{}{
		"strategy": strategy.Meta.StrategyID,
		"version":  strategy.Meta.Version,
		"hash":     hash[:12],
		"redis":    cache.Enabled(),
		"history":  history != nil,
	}).Debug("Application wired")

	return a, nil
}

// newScheduler registers the background jobs
func (a *app) newScheduler() (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log)

	if err := sched.AddJob(jobs.NewScreeningWarmupJob(a.service, a.strategy.Scheduler.WarmupCron, a.log)); err != nil {
		return nil, err
	}
	if a.memSessions != nil {
		if err := sched.AddJob(jobs.NewSessionCleanupJob(a.memSessions, a.log)); err != nil {
			return nil, err
		}
	}

	return sched, nil
}

// Close releases the connections
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}
