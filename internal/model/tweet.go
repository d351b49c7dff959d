package model

import "time"

const (
	// MaxTweetLength 推文与回复的最大字符数
	MaxTweetLength = 140
	MaxNameLength  = 50
	MaxIntroLength = 160
)

// Tweet 推文；点赞数、回复数在查询时计算，不落库
type Tweet struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string    `gorm:"type:varchar(36);not null;index:idx_tweet_user" json:"userId"`
	Description string    `gorm:"type:varchar(560);not null" json:"description"`
	CreatedAt   time.Time `gorm:"index:idx_tweet_created" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Tweet) TableName() string { return "tweets" }

// Reply 回复
type Reply struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TweetID   string    `gorm:"type:varchar(36);not null;index:idx_reply_tweet" json:"tweetId"`
	UserID    string    `gorm:"type:varchar(36);not null;index:idx_reply_user" json:"userId"`
	Comment   string    `gorm:"type:varchar(560);not null" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Reply) TableName() string { return "replies" }

// Like 点赞，同一用户对同一推文只能有一条
type Like struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_like_user_tweet" json:"userId"`
	TweetID   string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_like_user_tweet;index:idx_like_tweet" json:"tweetId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Like) TableName() string { return "likes" }
