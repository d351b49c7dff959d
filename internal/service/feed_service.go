package service

import (
	"context"
	"errors"
	"time"

	"github.com/jinzhu/copier"
	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/microblog/internal/repository"
)

// RecentRepliesLimit ListUserReplies 返回的条数
const RecentRepliesLimit = 5

// FeedService 只读聚合查询，计数与查看者标记均在查询时计算
type FeedService interface {
	ListTimeline(ctx context.Context, viewerID string, page repository.Page) ([]TweetView, error)
	GetTweet(ctx context.Context, viewerID, tweetID string) (*TweetDetail, error)
	ListReplies(ctx context.Context, tweetID string) ([]ReplyView, error)
	ListUserTweets(ctx context.Context, userID, viewerID string) ([]TweetView, error)
	ListUserReplies(ctx context.Context, userID string) ([]UserReplyView, error)
	ListUserLikes(ctx context.Context, userID, viewerID string) ([]LikedTweetView, error)
	ListFollowers(ctx context.Context, userID, viewerID string, page repository.Page) ([]FollowView, error)
	ListFollowings(ctx context.Context, userID, viewerID string, page repository.Page) ([]FollowView, error)
	GetUserProfile(ctx context.Context, userID string) (*Profile, error)
}

type feedService struct {
	store repository.Store
	loc   *time.Location
	now   func() time.Time
}

func NewFeedService(store repository.Store, loc *time.Location) FeedService {
	if loc == nil {
		loc = time.UTC
	}
	return &feedService{store: store, loc: loc, now: time.Now}
}

func (s *feedService) ListTimeline(ctx context.Context, viewerID string, page repository.Page) ([]TweetView, error) {
	var (
		rows  []repository.TweetRow
		liked map[string]struct{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.store.Feed().ListTweets(gctx, page)
		return err
	})
	g.Go(func() error {
		var err error
		liked, err = s.store.Likes().LikedTweetIDs(gctx, viewerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]TweetView, len(rows))
	for i, r := range rows {
		out[i] = tweetViewFromRow(r)
		_, out[i].IsLiked = liked[r.ID]
	}
	return out, nil
}

func (s *feedService) GetTweet(ctx context.Context, viewerID, tweetID string) (*TweetDetail, error) {
	var (
		row   *repository.TweetRow
		liked bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		row, err = s.store.Feed().GetTweet(gctx, tweetID)
		return err
	})
	g.Go(func() error {
		var err error
		liked, err = s.store.Likes().Exists(gctx, viewerID, tweetID)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTweetNotFound
		}
		return nil, err
	}

	view := tweetViewFromRow(*row)
	view.IsLiked = liked
	return &TweetDetail{
		TweetView:     view,
		DiffTime:      diffTime(row.CreatedAt, s.now()),
		CreatedAtText: createdAtText(row.CreatedAt, s.loc),
	}, nil
}

func (s *feedService) ListReplies(ctx context.Context, tweetID string) ([]ReplyView, error) {
	ok, err := s.store.Tweets().Exists(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTweetNotFound
	}
	rows, err := s.store.Feed().ListReplies(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	out := make([]ReplyView, len(rows))
	for i, r := range rows {
		out[i] = replyViewFromRow(r)
	}
	return out, nil
}

func (s *feedService) ListUserTweets(ctx context.Context, userID, viewerID string) ([]TweetView, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := s.store.Feed().ListUserTweets(ctx, userID, viewerID)
	if err != nil {
		return nil, err
	}
	out := make([]TweetView, len(rows))
	for i, r := range rows {
		out[i] = tweetViewFromRow(r)
	}
	return out, nil
}

func (s *feedService) ListUserReplies(ctx context.Context, userID string) ([]UserReplyView, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := s.store.Feed().ListUserReplies(ctx, userID, RecentRepliesLimit)
	if err != nil {
		return nil, err
	}
	out := make([]UserReplyView, 0, len(rows))
	if err := copier.Copy(&out, &rows); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *feedService) ListUserLikes(ctx context.Context, userID, viewerID string) ([]LikedTweetView, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := s.store.Feed().ListUserLikes(ctx, userID, viewerID)
	if err != nil {
		return nil, err
	}
	out := make([]LikedTweetView, len(rows))
	for i, r := range rows {
		out[i] = LikedTweetView{TweetView: tweetViewFromRow(r.TweetRow), LikedAt: r.LikedAt}
	}
	return out, nil
}

func (s *feedService) ListFollowers(ctx context.Context, userID, viewerID string, page repository.Page) ([]FollowView, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := s.store.Followships().ListFollowers(ctx, userID, viewerID, page)
	if err != nil {
		return nil, err
	}
	return followViews(rows)
}

func (s *feedService) ListFollowings(ctx context.Context, userID, viewerID string, page repository.Page) ([]FollowView, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := s.store.Followships().ListFollowings(ctx, userID, viewerID, page)
	if err != nil {
		return nil, err
	}
	return followViews(rows)
}

func (s *feedService) GetUserProfile(ctx context.Context, userID string) (*Profile, error) {
	row, err := s.store.Feed().GetProfile(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := copier.Copy(&p, row); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *feedService) requireUser(ctx context.Context, userID string) error {
	ok, err := s.store.Users().Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func followViews(rows []repository.FollowRow) ([]FollowView, error) {
	out := make([]FollowView, 0, len(rows))
	if err := copier.Copy(&out, &rows); err != nil {
		return nil, err
	}
	return out, nil
}
