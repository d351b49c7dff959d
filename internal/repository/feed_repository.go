package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// TweetRow 推文 + 作者 + 查询时计算的点赞/回复数
type TweetRow struct {
	ID          string
	UserID      string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Account     string
	Name        string
	Avatar      string
	LikesNum    int64
	RepliesNum  int64
	IsLiked     bool
}

// LikedTweetRow 被点赞推文，LikedAt 为点赞时间
type LikedTweetRow struct {
	TweetRow
	LikedAt time.Time
}

// ReplyRow 推文下的回复 + 回复者
type ReplyRow struct {
	ID        string
	TweetID   string
	UserID    string
	Comment   string
	CreatedAt time.Time
	Account   string
	Name      string
	Avatar    string
}

// UserReplyRow 用户的回复 + 被回复推文的作者
type UserReplyRow struct {
	ID                 string
	TweetID            string
	Comment            string
	CreatedAt          time.Time
	TweetAuthorID      string
	TweetAuthorAccount string
}

// ProfileRow 公开资料 + 关注数/粉丝数
type ProfileRow struct {
	ID           string
	Email        string
	Account      string
	Name         string
	Avatar       string
	CoverURL     string `gorm:"column:cover_url"`
	Introduction string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	FollowingNum int64
	FollowerNum  int64
}

// FeedRepository 聚合查询。计数均在查询时计算，不做缓存
type FeedRepository interface {
	// ListTweets 全部推文，不含 IsLiked，由调用方合并
	ListTweets(ctx context.Context, page Page) ([]TweetRow, error)
	GetTweet(ctx context.Context, tweetID string) (*TweetRow, error)
	ListReplies(ctx context.Context, tweetID string) ([]ReplyRow, error)
	ListUserTweets(ctx context.Context, userID, viewerID string) ([]TweetRow, error)
	ListUserReplies(ctx context.Context, userID string, limit int) ([]UserReplyRow, error)
	ListUserLikes(ctx context.Context, userID, viewerID string) ([]LikedTweetRow, error)
	GetProfile(ctx context.Context, userID string) (*ProfileRow, error)
}

type feedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) FeedRepository { return &feedRepository{db: db} }

const tweetColumns = `
	t.id, t.user_id, t.description, t.created_at, t.updated_at,
	u.account, u.name, u.avatar,
	(SELECT COUNT(1) FROM likes lc WHERE lc.tweet_id = t.id) AS likes_num,
	(SELECT COUNT(1) FROM replies rc WHERE rc.tweet_id = t.id) AS replies_num`

const viewerLikedColumn = `
	EXISTS (
		SELECT 1 FROM likes vl WHERE vl.tweet_id = t.id AND vl.user_id = ?
	) AS is_liked`

func (r *feedRepository) ListTweets(ctx context.Context, page Page) ([]TweetRow, error) {
	sql, args := page.apply(`
SELECT`+tweetColumns+`
FROM tweets t
JOIN users u ON u.id = t.user_id
ORDER BY t.created_at DESC, t.id DESC`, nil)

	rows := make([]TweetRow, 0)
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list tweets")
	}
	return rows, nil
}

func (r *feedRepository) GetTweet(ctx context.Context, tweetID string) (*TweetRow, error) {
	var row TweetRow
	res := r.db.WithContext(ctx).Raw(`
SELECT`+tweetColumns+`
FROM tweets t
JOIN users u ON u.id = t.user_id
WHERE t.id = ?`, tweetID).Scan(&row)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "get tweet")
	}
	if res.RowsAffected == 0 {
		return nil, errors.Wrapf(ErrNotFound, "get tweet %s", tweetID)
	}
	return &row, nil
}

func (r *feedRepository) ListReplies(ctx context.Context, tweetID string) ([]ReplyRow, error) {
	rows := make([]ReplyRow, 0)
	err := r.db.WithContext(ctx).Raw(`
SELECT r.id, r.tweet_id, r.user_id, r.comment, r.created_at,
	u.account, u.name, u.avatar
FROM replies r
JOIN users u ON u.id = r.user_id
WHERE r.tweet_id = ?
ORDER BY r.created_at ASC, r.id ASC`, tweetID).Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list replies")
	}
	return rows, nil
}

func (r *feedRepository) ListUserTweets(ctx context.Context, userID, viewerID string) ([]TweetRow, error) {
	rows := make([]TweetRow, 0)
	err := r.db.WithContext(ctx).Raw(`
SELECT`+tweetColumns+`,`+viewerLikedColumn+`
FROM tweets t
JOIN users u ON u.id = t.user_id
WHERE t.user_id = ?
ORDER BY t.created_at DESC, t.id DESC`, viewerID, userID).Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list user tweets")
	}
	return rows, nil
}

func (r *feedRepository) ListUserReplies(ctx context.Context, userID string, limit int) ([]UserReplyRow, error) {
	rows := make([]UserReplyRow, 0)
	err := r.db.WithContext(ctx).Raw(`
SELECT r.id, r.tweet_id, r.comment, r.created_at,
	u.id AS tweet_author_id, u.account AS tweet_author_account
FROM replies r
JOIN tweets t ON t.id = r.tweet_id
JOIN users u ON u.id = t.user_id
WHERE r.user_id = ?
ORDER BY r.created_at DESC, r.id DESC
LIMIT ?`, userID, limit).Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list user replies")
	}
	return rows, nil
}

func (r *feedRepository) ListUserLikes(ctx context.Context, userID, viewerID string) ([]LikedTweetRow, error) {
	rows := make([]LikedTweetRow, 0)
	err := r.db.WithContext(ctx).Raw(`
SELECT`+tweetColumns+`,`+viewerLikedColumn+`,
	l.created_at AS liked_at
FROM likes l
JOIN tweets t ON t.id = l.tweet_id
JOIN users u ON u.id = t.user_id
WHERE l.user_id = ?
ORDER BY l.created_at DESC, l.id DESC`, viewerID, userID).Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list user likes")
	}
	return rows, nil
}

func (r *feedRepository) GetProfile(ctx context.Context, userID string) (*ProfileRow, error) {
	var row ProfileRow
	res := r.db.WithContext(ctx).Raw(`
SELECT u.id, u.email, u.account, u.name, u.avatar, u.cover_url, u.introduction, u.role,
	u.created_at, u.updated_at,
	COALESCE(fing.cnt, 0) AS following_num,
	COALESCE(fer.cnt, 0) AS follower_num
FROM users u
LEFT JOIN (
	SELECT follower_id, COUNT(1) AS cnt FROM followships GROUP BY follower_id
) fing ON fing.follower_id = u.id
LEFT JOIN (
	SELECT following_id, COUNT(1) AS cnt FROM followships GROUP BY following_id
) fer ON fer.following_id = u.id
WHERE u.id = ?`, userID).Scan(&row)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "get profile")
	}
	if res.RowsAffected == 0 {
		return nil, errors.Wrapf(ErrNotFound, "get profile %s", userID)
	}
	return &row, nil
}
