// Package sentryx 封装 sentry 上报
package sentryx

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/d60-Lab/microblog/config"
)

var enabled bool

// Init DSN 为空时不上报
func Init(cfg config.SentryConfig, release string) error {
	if cfg.DSN == "" {
		enabled = false
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          release,
		AttachStacktrace: true,
	}); err != nil {
		return err
	}
	enabled = true
	return nil
}

func Enabled() bool { return enabled }

// Capture 上报错误，tags 附加到本次事件
func Capture(ctx context.Context, err error, tags map[string]string) {
	if !enabled || err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		hub.CaptureException(err)
	})
}

// Flush 退出前等待事件发送
func Flush(timeout time.Duration) {
	if enabled {
		sentry.Flush(timeout)
	}
}
