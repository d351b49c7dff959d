package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Create(ctx, "jti-1", "user-1", time.Hour))
	uid, err := s.Get(ctx, "jti-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)

	require.NoError(t, s.Delete(ctx, "jti-1"))
	_, err = s.Get(ctx, "jti-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// 删除不存在的 key 不报错
	assert.NoError(t, s.Delete(ctx, "jti-1"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "a", "u", time.Minute))
	now = now.Add(2 * time.Minute)
	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	// 下一次写入时过期项被清理
	require.NoError(t, s.Create(ctx, "b", "u", time.Minute))
	s.mu.RLock()
	_, ok := s.items["a"]
	s.mu.RUnlock()
	assert.False(t, ok)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	exerciseStore(t, NewRedisStore(rdb))

	s := NewRedisStore(rdb)
	require.NoError(t, s.Create(context.Background(), "jti-2", "user-2", time.Minute))
	assert.True(t, mr.Exists("session:jti-2"))
	mr.FastForward(2 * time.Minute)
	_, err := s.Get(context.Background(), "jti-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNew(t *testing.T) {
	s, err := New("memory", nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = New("redis", nil)
	assert.Error(t, err)

	_, err = New("etcd", nil)
	assert.Error(t, err)
}
