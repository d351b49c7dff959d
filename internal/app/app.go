package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/config"
	"github.com/d60-Lab/microblog/internal/api/middleware"
	"github.com/d60-Lab/microblog/pkg/database"
	"github.com/d60-Lab/microblog/pkg/logger"
)

// Application HTTP 服务及其持有的资源
type Application struct {
	cfg     *config.Config
	router  *gin.Engine
	db      *gorm.DB
	redis   *redis.Client
	limiter *middleware.RateLimiter
	done    chan struct{}
}

func NewApplication(cfg *config.Config, router *gin.Engine, db *gorm.DB, rdb *redis.Client, limiter *middleware.RateLimiter) *Application {
	return &Application{cfg: cfg, router: router, db: db, redis: rdb, limiter: limiter, done: make(chan struct{})}
}

func (a *Application) Router() *gin.Engine { return a.router }

// Run 阻塞直到 ctx 结束，然后优雅关闭
func (a *Application) Run(ctx context.Context) error {
	if a.limiter != nil {
		a.limiter.StartCleanup(a.done, a.cfg.RateLimit.Window)
	}

	srv := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      a.router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close 释放数据库与 redis 连接
func (a *Application) Close() error {
	select {
	case <-a.done:
	default:
		close(a.done)
	}
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, database.Close(a.db))
	}
	return errors.Join(errs...)
}
