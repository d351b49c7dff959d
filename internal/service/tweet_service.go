package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/pkg/apperr"
	"github.com/d60-Lab/microblog/pkg/database"
	"github.com/d60-Lab/microblog/pkg/metrics"
)

// TweetService 推文、回复、点赞的写操作
type TweetService interface {
	PostTweet(ctx context.Context, author *model.User, description string) (*TweetView, error)
	PostReply(ctx context.Context, author *model.User, tweetID, comment string) (*ReplyView, error)
	DeleteTweet(ctx context.Context, viewerID, tweetID string) error
	AddLike(ctx context.Context, userID, tweetID string) (*model.Like, error)
	RemoveLike(ctx context.Context, userID, tweetID string) (*model.Like, error)
}

type tweetService struct {
	store repository.Store
}

func NewTweetService(store repository.Store) TweetService {
	return &tweetService{store: store}
}

// validateText 先校验长度（422），再校验空白（400）
func validateText(field, text string) error {
	if utf8.RuneCountInString(text) > model.MaxTweetLength {
		return apperr.Unprocessable("%s can't more than %d words!", field, model.MaxTweetLength)
	}
	if strings.TrimSpace(text) == "" {
		return apperr.Validation("%s is required!", field)
	}
	return nil
}

func (s *tweetService) PostTweet(ctx context.Context, author *model.User, description string) (view *TweetView, err error) {
	defer func() { metrics.RecordMutation("post_tweet", err) }()

	if err := validateText("Description", description); err != nil {
		return nil, err
	}
	t := &model.Tweet{UserID: author.ID, Description: description}
	if err := s.store.Tweets().Create(ctx, t); err != nil {
		return nil, err
	}
	return &TweetView{
		ID:          t.ID,
		UserID:      t.UserID,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		User:        author.Author(),
	}, nil
}

func (s *tweetService) PostReply(ctx context.Context, author *model.User, tweetID, comment string) (view *ReplyView, err error) {
	defer func() { metrics.RecordMutation("post_reply", err) }()

	if err := validateText("Comment", comment); err != nil {
		return nil, err
	}
	r := &model.Reply{TweetID: tweetID, UserID: author.ID, Comment: comment}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		ok, err := tx.Tweets().Exists(ctx, tweetID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTweetNotFound
		}
		return tx.Replies().Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return &ReplyView{
		ID:        r.ID,
		TweetID:   r.TweetID,
		UserID:    r.UserID,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		User:      author.Author(),
	}, nil
}

func (s *tweetService) DeleteTweet(ctx context.Context, viewerID, tweetID string) (err error) {
	defer func() { metrics.RecordMutation("delete_tweet", err) }()

	return s.store.Transaction(ctx, func(tx repository.Store) error {
		t, err := tx.Tweets().GetByID(ctx, tweetID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTweetNotFound
		}
		if err != nil {
			return err
		}
		if t.UserID != viewerID {
			return ErrForbidden
		}
		return tx.Tweets().Delete(ctx, tweetID)
	})
}

func (s *tweetService) AddLike(ctx context.Context, userID, tweetID string) (like *model.Like, err error) {
	defer func() { metrics.RecordMutation("add_like", err) }()

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		ok, err := tx.Tweets().Exists(ctx, tweetID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTweetNotFound
		}
		liked, err := tx.Likes().Exists(ctx, userID, tweetID)
		if err != nil {
			return err
		}
		if liked {
			return ErrAlreadyLiked
		}
		like, err = tx.Likes().Create(ctx, userID, tweetID)
		return err
	})
	// 并发点赞时由唯一索引兜底
	if database.IsUniqueViolation(err) {
		return nil, ErrAlreadyLiked
	}
	if err != nil {
		return nil, err
	}
	return like, nil
}

func (s *tweetService) RemoveLike(ctx context.Context, userID, tweetID string) (like *model.Like, err error) {
	defer func() { metrics.RecordMutation("remove_like", err) }()

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		l, err := tx.Likes().Find(ctx, userID, tweetID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLikeNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Likes().Delete(ctx, l.ID); err != nil {
			return err
		}
		like = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return like, nil
}
