// seed 写入演示数据：root 管理员与 user1..userN，每人若干推文、回复、点赞和关注
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/config"
	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/pkg/database"
	"github.com/d60-Lab/microblog/pkg/logger"
)

const seedPassword = "12345678"

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()

	db := must(database.InitDB(cfg))
	defer database.Close(db)

	users := envInt("USERS", 5)
	tweets := envInt("TWEETS", 10)

	st := time.Now()
	if err := db.Transaction(func(tx *gorm.DB) error {
		return seed(tx, users, tweets)
	}); err != nil {
		logger.Error("seed failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("seed done",
		zap.Int("users", users),
		zap.Int("tweets_per_user", tweets),
		zap.Duration("took", time.Since(st)))
}

func seed(tx *gorm.DB, userCount, tweetCount int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	base := time.Now().Add(-time.Duration(userCount*tweetCount+userCount) * time.Hour)
	tick := func() time.Time {
		base = base.Add(time.Minute)
		return base
	}

	newUser := func(account, role string) model.User {
		now := tick()
		return model.User{
			ID:           uuid.New().String(),
			Email:        account + "@example.com",
			Account:      account,
			Password:     string(hash),
			Name:         account,
			Avatar:       fmt.Sprintf("https://i.pravatar.cc/300?u=%s", account),
			Introduction: "Hi, I am " + account,
			Role:         role,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	if err := tx.Create(ptr(newUser("root", model.RoleAdmin))).Error; err != nil {
		return fmt.Errorf("create root: %w", err)
	}
	users := make([]model.User, userCount)
	for i := range users {
		users[i] = newUser(fmt.Sprintf("user%d", i+1), model.RoleUser)
	}
	if err := tx.CreateInBatches(&users, 100).Error; err != nil {
		return fmt.Errorf("create users: %w", err)
	}

	var tweets []model.Tweet
	for _, u := range users {
		for j := 0; j < tweetCount; j++ {
			now := tick()
			tweets = append(tweets, model.Tweet{
				ID:          uuid.New().String(),
				UserID:      u.ID,
				Description: fmt.Sprintf("%s tweet #%d", u.Account, j+1),
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
	}
	if err := tx.CreateInBatches(&tweets, 500).Error; err != nil {
		return fmt.Errorf("create tweets: %w", err)
	}

	// 每条推文由下一个用户回复并点赞
	var replies []model.Reply
	var likes []model.Like
	for i, t := range tweets {
		other := users[(i/tweetCount+1)%len(users)]
		now := tick()
		replies = append(replies, model.Reply{
			ID: uuid.New().String(), TweetID: t.ID, UserID: other.ID,
			Comment: "reply from " + other.Account, CreatedAt: now, UpdatedAt: now,
		})
		if other.ID != t.UserID {
			likes = append(likes, model.Like{ID: uuid.New().String(), UserID: other.ID, TweetID: t.ID, CreatedAt: now})
		}
	}
	if err := tx.CreateInBatches(&replies, 500).Error; err != nil {
		return fmt.Errorf("create replies: %w", err)
	}
	if len(likes) > 0 {
		if err := tx.CreateInBatches(&likes, 500).Error; err != nil {
			return fmt.Errorf("create likes: %w", err)
		}
	}

	// 环形关注：user(i) 关注 user(i+1)
	var follows []model.Followship
	for i, u := range users {
		next := users[(i+1)%len(users)]
		if next.ID == u.ID {
			continue
		}
		follows = append(follows, model.Followship{ID: uuid.New().String(), FollowerID: u.ID, FollowingID: next.ID, CreatedAt: tick()})
	}
	if len(follows) > 0 {
		if err := tx.CreateInBatches(&follows, 500).Error; err != nil {
			return fmt.Errorf("create followships: %w", err)
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
