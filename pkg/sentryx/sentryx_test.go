package sentryx

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/microblog/config"
)

func TestDisabledIsNoop(t *testing.T) {
	require.NoError(t, Init(config.SentryConfig{}, "test"))
	assert.False(t, Enabled())
	Capture(context.Background(), errors.New("ignored"), nil)
	Flush(time.Millisecond)
}

func TestCaptureAttachesTags(t *testing.T) {
	var (
		mu     sync.Mutex
		events []*sentry.Event
	)
	err := sentry.Init(sentry.ClientOptions{
		Dsn: "https://public@example.com/1",
		BeforeSend: func(e *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
			// 丢弃，不真正发送
			return nil
		},
	})
	require.NoError(t, err)
	enabled = true
	t.Cleanup(func() { enabled = false })

	Capture(context.Background(), errors.New("db down"), map[string]string{"path": "/api/tweets"})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 1)
	assert.Equal(t, "/api/tweets", events[0].Tags["path"])
	require.NotEmpty(t, events[0].Exception)
	assert.Equal(t, "db down", events[0].Exception[0].Value)
}
