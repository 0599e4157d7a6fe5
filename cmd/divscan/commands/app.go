package commands

import (
	"fmt"

	"github.com/jaylee-quant/divscan/internal/batch"
	"github.com/jaylee-quant/divscan/internal/collector"
	"github.com/jaylee-quant/divscan/internal/external/nasdaq"
	"github.com/jaylee-quant/divscan/internal/store"
	"github.com/jaylee-quant/divscan/pkg/config"
	"github.com/jaylee-quant/divscan/pkg/database"
	"github.com/jaylee-quant/divscan/pkg/httputil"
	"github.com/jaylee-quant/divscan/pkg/logger"
	"github.com/jaylee-quant/divscan/pkg/redis"
)

// app holds the wired dependencies shared by every command
type app struct {
	cfg       *config.Config
	logger    *logger.Logger
	db        *database.DB
	redis     *redis.Client
	repo      *store.Repository
	collector *collector.Collector
}

// initApp loads config and wires the full dependency graph
func initApp() (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Connect to Redis (optional, degrades to no cache)
	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 5. Create HTTP client with shared rate limit
	httpClient := httputil.New(cfg, log)
	if redisClient.Enabled() {
		limiter := redis.NewRateLimiter(redisClient, "ratelimit")
		httpClient = httpClient.WithRateLimiter(limiter, redis.NasdaqRateLimit)
	}

	// 6. Create NASDAQ client
	nasdaqClient := nasdaq.NewClient(cfg.Nasdaq, httpClient, log)

	// 7. Create repository and cache
	repo := store.NewRepository(db.Pool)
	cache := redis.NewCache(redisClient, "divscan")

	// 8. Create analysis runner and collector
	runner := batch.NewRunner(log)
	col := collector.NewCollector(nasdaqClient, repo, cache, runner, cfg, log)

	return &app{
		cfg:       cfg,
		logger:    log,
		db:        db,
		redis:     redisClient,
		repo:      repo,
		collector: col,
	}, nil
}

// Close releases database and Redis connections
func (a *app) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
