// feedbench 对关注写入与读路径做压测：N 个用户关注同一个大 V，之后测量列表与时间线查询
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/microblog/config"
	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/internal/service"
	"github.com/d60-Lab/microblog/pkg/database"
)

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

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func report(name string, ds []time.Duration) {
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	avg := time.Duration(0)
	if len(ds) > 0 {
		avg = sum / time.Duration(len(ds))
	}
	fmt.Printf("%-16s n=%-6d avg=%-12v p95=%-12v p99=%v\n", name, len(ds), avg, pct(ds, 0.95), pct(ds, 0.99))
}

func timeN(n int, fn func() error) []time.Duration {
	out := make([]time.Duration, 0, n)
	for i := 0; i < n; i++ {
		st := time.Now()
		if err := fn(); err != nil {
			panic(err)
		}
		out = append(out, time.Since(st))
	}
	return out
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer database.Close(db)

	store := repository.NewStore(db)
	loc := must(time.LoadLocation(cfg.Locale.TimeZone))
	relSvc := service.NewRelationshipService(store)
	feedSvc := service.NewFeedService(store, loc)
	tweetSvc := service.NewTweetService(store)

	N := envInt("N", 5000)
	CONC := envInt("CONC", 8)
	PAGE := envInt("PAGE", 50)
	TWEETS := envInt("TWEETS", 200)
	ROUNDS := envInt("ROUNDS", 50)

	ctx := context.Background()
	suffix := uuid.New().String()[:6]

	celeb := model.User{
		ID: uuid.New().String(), Account: "celeb_" + suffix, Email: "celeb_" + suffix + "@example.com",
		Password: "p", Name: "celeb", Role: model.RoleUser,
	}
	must(0, db.Create(&celeb).Error)
	users := make([]model.User, N)
	for i := range users {
		id := uuid.New().String()
		users[i] = model.User{ID: id, Account: "u" + id[:12], Email: id[:12] + "@example.com", Password: "p", Name: "u", Role: model.RoleUser}
	}
	must(0, db.CreateInBatches(&users, 1000).Error)

	for i := 0; i < TWEETS; i++ {
		must(tweetSvc.PostTweet(ctx, &celeb, fmt.Sprintf("tweet %d", i)))
	}

	// 并发关注
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)
	var mu sync.Mutex
	follows := make([]time.Duration, 0, N)
	var wg sync.WaitGroup
	t0 := time.Now()
	for w := 0; w < CONC; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				st := time.Now()
				if err := relSvc.Follow(ctx, users[i].ID, celeb.ID); err != nil {
					panic(err)
				}
				d := time.Since(st)
				mu.Lock()
				follows = append(follows, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	followWall := time.Since(t0)

	// 每个用户给前几条推文点赞，让计数子查询有数据
	tweets := must(feedSvc.ListUserTweets(ctx, celeb.ID, celeb.ID))
	for i := 0; i < N && i < 1000; i++ {
		must(tweetSvc.AddLike(ctx, users[i].ID, tweets[i%len(tweets)].ID))
	}

	page := repository.NewPage(1, PAGE)
	viewer := users[0].ID
	followersPage := timeN(ROUNDS, func() error {
		_, err := feedSvc.ListFollowers(ctx, celeb.ID, viewer, page)
		return err
	})
	followingsPage := timeN(ROUNDS, func() error {
		_, err := feedSvc.ListFollowings(ctx, viewer, viewer, page)
		return err
	})
	timeline := timeN(ROUNDS, func() error {
		_, err := feedSvc.ListTimeline(ctx, viewer, page)
		return err
	})
	profile := timeN(ROUNDS, func() error {
		_, err := feedSvc.GetUserProfile(ctx, celeb.ID)
		return err
	})
	userTweets := timeN(ROUNDS, func() error {
		_, err := feedSvc.ListUserTweets(ctx, celeb.ID, viewer)
		return err
	})

	fmt.Printf("N=%d CONC=%d PAGE=%d TWEETS=%d ROUNDS=%d driver=%s\n", N, CONC, PAGE, TWEETS, ROUNDS, cfg.Database.Driver)
	fmt.Printf("follow wall time: %v (%.0f ops/s)\n", followWall, float64(N)/followWall.Seconds())
	report("follow", follows)
	report("followers", followersPage)
	report("followings", followingsPage)
	report("timeline", timeline)
	report("profile", profile)
	report("user tweets", userTweets)
}
