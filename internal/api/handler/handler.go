// Package handler HTTP 处理器
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/microblog/internal/api/middleware"
	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/repository"
	"github.com/d60-Lab/microblog/internal/service"
)

// Handler 聚合全部接口
type Handler struct {
	authService  service.AuthService
	userService  service.UserService
	tweetService service.TweetService
	feedService  service.FeedService
	relService   service.RelationshipService
}

func NewHandler(
	authService service.AuthService,
	userService service.UserService,
	tweetService service.TweetService,
	feedService service.FeedService,
	relService service.RelationshipService,
) *Handler {
	return &Handler{
		authService:  authService,
		userService:  userService,
		tweetService: tweetService,
		feedService:  feedService,
		relService:   relService,
	}
}

// viewer 只在鉴权后的路由上调用
func viewer(c *gin.Context) *model.User {
	return middleware.CurrentUser(c)
}

// pageFromQuery 未传 page/page_size 时返回全部
func pageFromQuery(c *gin.Context) repository.Page {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	return repository.NewPage(page, pageSize)
}
