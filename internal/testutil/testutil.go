// Package testutil 测试用的内存数据库与数据构造
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/pkg/database"
)

// NewDB 打开已迁移的 sqlite 内存库。单连接，事务内只能使用 tx
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := database.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.InitSchema(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Clock 单调递增的时间源，保证构造数据的先后顺序
type Clock struct {
	t time.Time
}

func NewClock() *Clock {
	return &Clock{t: time.Date(2023, 3, 21, 7, 0, 0, 0, time.UTC)}
}

func (c *Clock) Next() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

// Fixture 直接写库构造数据，不经过服务层校验
type Fixture struct {
	tb    testing.TB
	db    *gorm.DB
	Clock *Clock
}

func NewFixture(tb testing.TB, db *gorm.DB) *Fixture {
	return &Fixture{tb: tb, db: db, Clock: NewClock()}
}

func (f *Fixture) must(err error) {
	f.tb.Helper()
	if err != nil {
		f.tb.Fatalf("fixture: %v", err)
	}
}

// User 创建 role=user 的用户，密码字段为占位值
func (f *Fixture) User(account string) *model.User {
	f.tb.Helper()
	now := f.Clock.Next()
	u := &model.User{
		ID:        uuid.New().String(),
		Email:     fmt.Sprintf("%s@example.com", account),
		Account:   account,
		Password:  "x",
		Name:      account,
		Avatar:    "https://example.com/" + account + ".png",
		Role:      model.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.must(f.db.Create(u).Error)
	return u
}

func (f *Fixture) Tweet(author *model.User, description string) *model.Tweet {
	f.tb.Helper()
	now := f.Clock.Next()
	t := &model.Tweet{ID: uuid.New().String(), UserID: author.ID, Description: description, CreatedAt: now, UpdatedAt: now}
	f.must(f.db.Create(t).Error)
	return t
}

func (f *Fixture) Reply(author *model.User, tweet *model.Tweet, comment string) *model.Reply {
	f.tb.Helper()
	now := f.Clock.Next()
	r := &model.Reply{ID: uuid.New().String(), TweetID: tweet.ID, UserID: author.ID, Comment: comment, CreatedAt: now, UpdatedAt: now}
	f.must(f.db.Create(r).Error)
	return r
}

func (f *Fixture) Like(u *model.User, tweet *model.Tweet) *model.Like {
	f.tb.Helper()
	l := &model.Like{ID: uuid.New().String(), UserID: u.ID, TweetID: tweet.ID, CreatedAt: f.Clock.Next()}
	f.must(f.db.Create(l).Error)
	return l
}

func (f *Fixture) Follow(follower, following *model.User) *model.Followship {
	f.tb.Helper()
	fs := &model.Followship{ID: uuid.New().String(), FollowerID: follower.ID, FollowingID: following.ID, CreatedAt: f.Clock.Next()}
	f.must(f.db.Create(fs).Error)
	return fs
}
