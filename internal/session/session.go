// Package session 记录已签发的 token，登出后 token 即失效
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// ErrNotFound session 不存在或已过期
var ErrNotFound = errors.New("session not found")

// Store 以 token id 为键保存登录用户
type Store interface {
	Create(ctx context.Context, id, userID string, ttl time.Duration) error
	Get(ctx context.Context, id string) (userID string, err error)
	Delete(ctx context.Context, id string) error
}

// New 按 backend 选择实现，redis 需要传入 client
func New(backend string, rdb *redis.Client) (Store, error) {
	switch backend {
	case "memory", "":
		return NewMemoryStore(), nil
	case "redis":
		if rdb == nil {
			return nil, errors.New("redis session backend requires a redis client")
		}
		return NewRedisStore(rdb), nil
	default:
		return nil, fmt.Errorf("unsupported session backend %q", backend)
	}
}

type memoryEntry struct {
	userID   string
	expireAt time.Time
}

// MemoryStore 进程内存储，重启即丢失
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, id, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = memoryEntry{userID: userID, expireAt: s.now().Add(ttl)}
	// 顺带清理过期项
	for k, e := range s.items {
		if !e.expireAt.After(s.now()) {
			delete(s.items, k)
		}
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (string, error) {
	s.mu.RLock()
	e, ok := s.items[id]
	s.mu.RUnlock()
	if !ok || !e.expireAt.After(s.now()) {
		return "", ErrNotFound
	}
	return e.userID, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

// RedisStore 多实例共享 session
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Create(ctx context.Context, id, userID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, keyPrefix+id, userID, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (string, error) {
	userID, err := s.rdb.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	return userID, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, keyPrefix+id).Err()
}
