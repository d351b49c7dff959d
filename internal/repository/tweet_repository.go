package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/model"
)

type TweetRepository interface {
	Create(ctx context.Context, t *model.Tweet) error
	GetByID(ctx context.Context, id string) (*model.Tweet, error)
	Exists(ctx context.Context, id string) (bool, error)
	// Delete 删除推文及其点赞、回复；应在事务内调用
	Delete(ctx context.Context, id string) error
}

type tweetRepository struct{ db *gorm.DB }

func NewTweetRepository(db *gorm.DB) TweetRepository { return &tweetRepository{db: db} }

func (r *tweetRepository) Create(ctx context.Context, t *model.Tweet) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return errors.Wrap(r.db.WithContext(ctx).Create(t).Error, "create tweet")
}

func (r *tweetRepository) GetByID(ctx context.Context, id string) (*model.Tweet, error) {
	var t model.Tweet
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, errors.Wrapf(err, "get tweet %s", id)
	}
	return &t, nil
}

func (r *tweetRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Tweet{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, errors.Wrap(err, "count tweet")
	}
	return cnt > 0, nil
}

func (r *tweetRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("tweet_id = ?", id).Delete(&model.Like{}).Error; err != nil {
		return errors.Wrap(err, "delete tweet likes")
	}
	if err := db.Where("tweet_id = ?", id).Delete(&model.Reply{}).Error; err != nil {
		return errors.Wrap(err, "delete tweet replies")
	}
	res := db.Where("id = ?", id).Delete(&model.Tweet{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete tweet")
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "delete tweet %s", id)
	}
	return nil
}

type ReplyRepository interface {
	Create(ctx context.Context, reply *model.Reply) error
}

type replyRepository struct{ db *gorm.DB }

func NewReplyRepository(db *gorm.DB) ReplyRepository { return &replyRepository{db: db} }

func (r *replyRepository) Create(ctx context.Context, reply *model.Reply) error {
	if reply.ID == "" {
		reply.ID = uuid.New().String()
	}
	return errors.Wrap(r.db.WithContext(ctx).Create(reply).Error, "create reply")
}
