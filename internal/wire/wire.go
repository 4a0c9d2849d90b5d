// Package wire 提供依赖装配（组合根）
// 所有客户端与仓储在此构造并显式传递，进程内不保留全局数据库句柄。
package wire

import (
	"context"

	"storybook-api/internal/application/story"
	"storybook-api/internal/config"
	"storybook-api/internal/infrastructure/persistence/postgres"
	"storybook-api/internal/infrastructure/persistence/redis"
	"storybook-api/internal/interfaces/http/handler"
	"storybook-api/internal/interfaces/http/middleware"
	"storybook-api/internal/interfaces/http/router"
	"storybook-api/pkg/logger"
)

// InitializeApp 初始化整个应用
// 返回路由器与资源清理函数；Redis 不可用时降级为无缓存、无限流运行。
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	// PostgreSQL（必需）
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}

	// Redis（可选）
	// 接口持有者：Redis 不可用时保持真正的 nil，处理器据此跳过缓存
	var cache handler.StoryCache

	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis unavailable, running without cache", "error", err.Error())
		redisClient = nil
	} else {
		cache = redis.NewCache(redisClient)
	}

	// 仓储
	storyRepo := postgres.NewStoryRepository(pgClient)
	statusRepo := postgres.NewStatusCheckRepository(pgClient)

	// 处理器
	healthHandler := handler.NewHealthHandler(pgClient, redisClient)
	storyHandler := handler.NewStoryHandler(storyRepo, story.NewRenderer(), cache, cfg.Story.CacheTTL)
	statusHandler := handler.NewStatusHandler(statusRepo)

	handlers := router.Handlers{
		Health: healthHandler,
		Story:  storyHandler,
		Status: statusHandler,
	}

	// 限流中间件（依赖 Redis）
	if cfg.Security.RateLimit.Enabled && redisClient != nil {
		handlers.RateLimit = middleware.RateLimit(middleware.RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: cfg.Security.RateLimit.RequestsPerSecond,
		}, redis.NewRateLimiter(redisClient))
	}

	r := router.New(cfg, handlers)

	cleanup := func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn(ctx, "failed to close redis client", "error", err.Error())
			}
		}
		if err := pgClient.Close(); err != nil {
			logger.Warn(ctx, "failed to close postgres client", "error", err.Error())
		}
	}

	return r, cleanup, nil
}
