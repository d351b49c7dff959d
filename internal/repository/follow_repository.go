package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/d60-Lab/microblog/internal/model"
)

// FollowRow 关注/粉丝列表中的一行
type FollowRow struct {
	ID           string
	Account      string
	Name         string
	Avatar       string
	Introduction string
	FollowedAt   time.Time
	// IsFollowed 当前查看者是否关注了该行用户
	IsFollowed bool
}

type FollowRepository interface {
	// Create 依赖 ux_followship_pair 唯一索引，重复关注返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, followerID, followingID string) (*model.Followship, error)
	Delete(ctx context.Context, followerID, followingID string) error
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	// ListFollowers 关注 userID 的用户，按关注时间倒序
	ListFollowers(ctx context.Context, userID, viewerID string, page Page) ([]FollowRow, error)
	// ListFollowings userID 关注的用户，按关注时间倒序
	ListFollowings(ctx context.Context, userID, viewerID string, page Page) ([]FollowRow, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followingID string) (*model.Followship, error) {
	f := &model.Followship{ID: uuid.New().String(), FollowerID: followerID, FollowingID: followingID}
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, errors.Wrap(err, "create followship")
	}
	return f, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Followship{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete followship")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "delete followship")
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Followship{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&cnt).Error; err != nil {
		return false, errors.Wrap(err, "count followship")
	}
	return cnt > 0, nil
}

const followListSQL = `
SELECT u.id, u.account, u.name, u.avatar, u.introduction,
	f.created_at AS followed_at,
	EXISTS (
		SELECT 1 FROM followships vf
		WHERE vf.follower_id = ? AND vf.following_id = u.id
	) AS is_followed
FROM followships f
JOIN users u ON u.id = f.%s
WHERE f.%s = ?
ORDER BY f.created_at DESC, f.id DESC`

func (r *followRepository) ListFollowers(ctx context.Context, userID, viewerID string, page Page) ([]FollowRow, error) {
	return r.list(ctx, "follower_id", "following_id", userID, viewerID, page)
}

func (r *followRepository) ListFollowings(ctx context.Context, userID, viewerID string, page Page) ([]FollowRow, error) {
	return r.list(ctx, "following_id", "follower_id", userID, viewerID, page)
}

// list joinCol 为列表用户所在列，whereCol 为被查询用户所在列
func (r *followRepository) list(ctx context.Context, joinCol, whereCol, userID, viewerID string, page Page) ([]FollowRow, error) {
	sql, args := page.apply(
		fmt.Sprintf(followListSQL, joinCol, whereCol),
		[]interface{}{viewerID, userID},
	)
	rows := make([]FollowRow, 0)
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list followships")
	}
	return rows, nil
}
