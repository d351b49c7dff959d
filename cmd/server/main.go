package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/microblog/config"
	"github.com/d60-Lab/microblog/internal/app"
	"github.com/d60-Lab/microblog/pkg/logger"
	"github.com/d60-Lab/microblog/pkg/sentryx"
	"github.com/d60-Lab/microblog/pkg/tracing"
)

var version = "dev"

// @title           Microblog API
// @version         1.0
// @description     Tweets, replies, likes and followships.
// @BasePath        /api
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if err := sentryx.Init(cfg.Sentry, version); err != nil {
		logger.Warn("sentry disabled", zap.Error(err))
	}
	defer sentryx.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(tctx); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	container, err := app.BuildContainer(cfg)
	if err != nil {
		return err
	}
	return container.Invoke(func(a *app.Application) error {
		defer func() {
			if err := a.Close(); err != nil {
				logger.Warn("close resources", zap.Error(err))
			}
		}()
		return a.Run(ctx)
	})
}
