// Package app 通过 dig 组装依赖
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/config"
	"github.com/d60-Lab/microblog/internal/api"
	"github.com/d60-Lab/microblog/internal/api/handler"
	"github.com/d60-Lab/microblog/internal/api/middleware"
	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/internal/service"
	"github.com/d60-Lab/microblog/internal/session"
	"github.com/d60-Lab/microblog/pkg/database"
	"github.com/d60-Lab/microblog/pkg/storage"
)

func ProvideDB(cfg *config.Config) (*gorm.DB, error) {
	return database.InitDB(cfg)
}

// ProvideRedis session 后端不是 redis 时返回 nil
func ProvideRedis(cfg *config.Config) (*redis.Client, error) {
	if cfg.Session.Backend != "redis" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func ProvideSessionStore(cfg *config.Config, rdb *redis.Client) (session.Store, error) {
	return session.New(cfg.Session.Backend, rdb)
}

func ProvideStore(db *gorm.DB) repository.Store {
	return repository.NewStore(db)
}

func ProvideStorage(cfg *config.Config) (storage.Storage, error) {
	return storage.NewLocal(cfg.Upload.Dir, cfg.Upload.MaxSize)
}

func ProvideLocation(cfg *config.Config) (*time.Location, error) {
	return time.LoadLocation(cfg.Locale.TimeZone)
}

func ProvideAuthService(store repository.Store, sessions session.Store, cfg *config.Config) service.AuthService {
	return service.NewAuthService(store, sessions, cfg.JWT)
}

// ProvideRateLimiter 关闭限流时返回 nil
func ProvideRateLimiter(cfg *config.Config) *middleware.RateLimiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
}

func ProvideRouter(cfg *config.Config, h *handler.Handler, auth service.AuthService, limiter *middleware.RateLimiter) *gin.Engine {
	return api.NewRouter(cfg, h, auth, limiter)
}

// BuildContainer 注册全部 provider
func BuildContainer(cfg *config.Config) (*dig.Container, error) {
	container := dig.New()

	providers := []struct {
		name string
		fn   interface{}
	}{
		{"config", func() *config.Config { return cfg }},
		{"database", ProvideDB},
		{"redis", ProvideRedis},
		{"session store", ProvideSessionStore},
		{"repository store", ProvideStore},
		{"file storage", ProvideStorage},
		{"location", ProvideLocation},
		{"feed service", service.NewFeedService},
		{"tweet service", service.NewTweetService},
		{"user service", service.NewUserService},
		{"relationship service", service.NewRelationshipService},
		{"auth service", ProvideAuthService},
		{"rate limiter", ProvideRateLimiter},
		{"handler", handler.NewHandler},
		{"router", ProvideRouter},
		{"application", NewApplication},
	}
	for _, p := range providers {
		if err := container.Provide(p.fn); err != nil {
			return nil, fmt.Errorf("failed to provide %s: %w", p.name, err)
		}
	}
	return container, nil
}
