package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/pkg/database"
	"github.com/d60-Lab/microblog/pkg/metrics"
)

// RelationshipService 关系链写操作；关注列表查询见 FeedService
type RelationshipService interface {
	Follow(ctx context.Context, fromUserID, toUserID string) error
	Unfollow(ctx context.Context, fromUserID, toUserID string) error
}

type relationshipService struct {
	store repository.Store
}

func NewRelationshipService(store repository.Store) RelationshipService {
	return &relationshipService{store: store}
}

func (s *relationshipService) Follow(ctx context.Context, fromUserID, toUserID string) (err error) {
	defer func() { metrics.RecordMutation("follow", err) }()

	if fromUserID == toUserID {
		return ErrFollowSelf
	}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		ok, err := tx.Users().Exists(ctx, toUserID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}
		followed, err := tx.Followships().Exists(ctx, fromUserID, toUserID)
		if err != nil {
			return err
		}
		if followed {
			return ErrAlreadyFollowed
		}
		_, err = tx.Followships().Create(ctx, fromUserID, toUserID)
		return err
	})
	if database.IsUniqueViolation(err) {
		return ErrAlreadyFollowed
	}
	return err
}

func (s *relationshipService) Unfollow(ctx context.Context, fromUserID, toUserID string) (err error) {
	defer func() { metrics.RecordMutation("unfollow", err) }()

	err = s.store.Followships().Delete(ctx, fromUserID, toUserID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFollowing
	}
	return err
}
