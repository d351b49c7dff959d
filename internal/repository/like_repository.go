package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/model"
)

type LikeRepository interface {
	Create(ctx context.Context, userID, tweetID string) (*model.Like, error)
	Find(ctx context.Context, userID, tweetID string) (*model.Like, error)
	Exists(ctx context.Context, userID, tweetID string) (bool, error)
	Delete(ctx context.Context, id string) error
	CountByTweet(ctx context.Context, tweetID string) (int64, error)
	// LikedTweetIDs 返回 userID 点赞过的全部推文 ID
	LikedTweetIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}

type likeRepository struct{ db *gorm.DB }

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

// Create 依赖 ux_like_user_tweet 唯一索引防重，冲突时返回 gorm.ErrDuplicatedKey
func (r *likeRepository) Create(ctx context.Context, userID, tweetID string) (*model.Like, error) {
	l := &model.Like{ID: uuid.New().String(), UserID: userID, TweetID: tweetID}
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return nil, errors.Wrap(err, "create like")
	}
	return l, nil
}

func (r *likeRepository) Find(ctx context.Context, userID, tweetID string) (*model.Like, error) {
	var l model.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		First(&l).Error
	if err != nil {
		return nil, errors.Wrap(err, "find like")
	}
	return &l, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, tweetID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Count(&cnt).Error; err != nil {
		return false, errors.Wrap(err, "count like")
	}
	return cnt > 0, nil
}

func (r *likeRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Like{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete like")
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "delete like %s", id)
	}
	return nil
}

func (r *likeRepository) CountByTweet(ctx context.Context, tweetID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("tweet_id = ?", tweetID).Count(&cnt).Error
	return cnt, errors.Wrap(err, "count likes")
}

func (r *likeRepository) LikedTweetIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ?", userID).
		Pluck("tweet_id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "list liked tweets")
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
