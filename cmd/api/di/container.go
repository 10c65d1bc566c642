package di

import (
	"context"
	"fmt"

	"user-registration-service/cmd/api/infrastructure"
	ginhandler "user-registration-service/internal/adapter/gin/handler"
	"user-registration-service/internal/adapter/ratelimit"
	"user-registration-service/internal/adapter/store/file"
	"user-registration-service/internal/adapter/store/gormstore"
	"user-registration-service/internal/config"
	"user-registration-service/internal/metrics"
	"user-registration-service/internal/usecase/user"
	redisclient "user-registration-service/pkg/redis"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB            // nil for the file store
	RedisClient *redisclient.Client // nil unless the redis rate limit backend is enabled
	Store       user.Repository
	Metrics     *metrics.Metrics
	UserUC      *user.Usecase
	RateLimiter ratelimit.Limiter // nil when rate limiting is disabled
	GinHandler  *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{
		Config:  cfg,
		Logger:  l,
		Metrics: metrics.New(),
	}

	store, err := c.newStore(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Store = store

	limiter, err := c.newRateLimiter(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.RateLimiter = limiter

	c.UserUC = user.New(c.Store, l, c.Metrics)
	c.GinHandler = ginhandler.NewUserHandler(c.UserUC, l)

	return c, nil
}

func (c *Container) newStore(ctx context.Context) (user.Repository, error) {
	if c.Config.Store.Driver == config.StoreDriverFile {
		c.Logger.Info("using file store", zap.String("path", c.Config.Store.FilePath))
		return file.NewUserStore(c.Config.Store.FilePath, c.Logger), nil
	}

	db, err := infrastructure.NewDatabase(c.Config, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	store := gormstore.NewUserStore(db, c.Logger)
	if err := store.AutoMigrate(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (c *Container) newRateLimiter(ctx context.Context) (ratelimit.Limiter, error) {
	rl := c.Config.RateLimit
	if !rl.Enabled {
		return nil, nil
	}

	limiterCfg := ratelimit.Config{
		RequestsPerSecond: rl.RequestsPerSecond,
		BurstCapacity:     rl.BurstCapacity,
		Enabled:           true,
	}

	if rl.Backend == config.RateLimitBackendMemory {
		return ratelimit.NewLocalLimiter(limiterCfg, c.Logger), nil
	}

	rdb, err := infrastructure.NewRedisClient(ctx, c.Config, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	c.RedisClient = rdb

	return ratelimit.NewRedisLimiter(rdb.Client, limiterCfg, c.Logger), nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
