package repository

import (
	"context"

	"gorm.io/gorm"
)

// ErrNotFound 记录不存在
var ErrNotFound = gorm.ErrRecordNotFound

// Page 分页参数，Limit <= 0 表示不分页
type Page struct {
	Offset int
	Limit  int
}

// NewPage 由页码与每页数量计算分页，page/pageSize 为 0 时不分页
func NewPage(page, pageSize int) Page {
	if page <= 0 && pageSize <= 0 {
		return Page{}
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return Page{Offset: (page - 1) * pageSize, Limit: pageSize}
}

func (p Page) apply(sql string, args []interface{}) (string, []interface{}) {
	if p.Limit <= 0 {
		return sql, args
	}
	return sql + " LIMIT ? OFFSET ?", append(args, p.Limit, p.Offset)
}

// Store 聚合全部仓储，Transaction 内的仓储共享同一个事务
type Store interface {
	Users() UserRepository
	Tweets() TweetRepository
	Replies() ReplyRepository
	Likes() LikeRepository
	Followships() FollowRepository
	Feed() FeedRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store { return &store{db: db} }

func (s *store) Users() UserRepository        { return NewUserRepository(s.db) }
func (s *store) Tweets() TweetRepository      { return NewTweetRepository(s.db) }
func (s *store) Replies() ReplyRepository     { return NewReplyRepository(s.db) }
func (s *store) Likes() LikeRepository        { return NewLikeRepository(s.db) }
func (s *store) Followships() FollowRepository { return NewFollowRepository(s.db) }
func (s *store) Feed() FeedRepository         { return NewFeedRepository(s.db) }

func (s *store) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}
