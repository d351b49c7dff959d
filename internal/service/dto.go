package service

import (
	"time"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
)

// TweetView 推文 + 作者 + 计数 + 查看者是否点赞
type TweetView struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	User        model.Author `json:"user"`
	LikesNum    int64        `json:"likesNum"`
	RepliesNum  int64        `json:"repliesNum"`
	IsLiked     bool         `json:"isLiked"`
}

// TweetDetail 单条推文，附带本地化时间
type TweetDetail struct {
	TweetView
	DiffTime      string `json:"diffTime"`
	CreatedAtText string `json:"createdAtText"`
}

// LikedTweetView 用户点赞过的推文
type LikedTweetView struct {
	TweetView
	LikedAt time.Time `json:"likedAt"`
}

type ReplyView struct {
	ID        string       `json:"id"`
	TweetID   string       `json:"tweetId"`
	UserID    string       `json:"userId"`
	Comment   string       `json:"comment"`
	CreatedAt time.Time    `json:"createdAt"`
	User      model.Author `json:"user"`
}

// UserReplyView 用户最近的回复及被回复推文的作者
type UserReplyView struct {
	ID                 string    `json:"id"`
	TweetID            string    `json:"tweetId"`
	Comment            string    `json:"comment"`
	CreatedAt          time.Time `json:"createdAt"`
	TweetAuthorID      string    `json:"tweetAuthorId"`
	TweetAuthorAccount string    `json:"tweetAuthorAccount"`
}

type FollowView struct {
	ID           string    `json:"id"`
	Account      string    `json:"account"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar"`
	Introduction string    `json:"introduction"`
	FollowedAt   time.Time `json:"followedAt"`
	IsFollowed   bool      `json:"isFollowed"`
}

// Profile 公开资料，不含密码
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Account      string    `json:"account"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar"`
	CoverURL     string    `json:"coverUrl"`
	Introduction string    `json:"introduction"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	FollowingNum int64     `json:"followingNum"`
	FollowerNum  int64     `json:"followerNum"`
}

// AccountView 修改账号后的回显
type AccountView struct {
	ID      string `json:"id"`
	Account string `json:"account"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

type SignInResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func tweetViewFromRow(r repository.TweetRow) TweetView {
	return TweetView{
		ID:          r.ID,
		UserID:      r.UserID,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		User:        model.Author{Account: r.Account, Name: r.Name, Avatar: r.Avatar},
		LikesNum:    r.LikesNum,
		RepliesNum:  r.RepliesNum,
		IsLiked:     r.IsLiked,
	}
}

func replyViewFromRow(r repository.ReplyRow) ReplyView {
	return ReplyView{
		ID:        r.ID,
		TweetID:   r.TweetID,
		UserID:    r.UserID,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		User:      model.Author{Account: r.Account, Name: r.Name, Avatar: r.Avatar},
	}
}
