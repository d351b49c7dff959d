package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/microblog/internal/service"
	"github.com/d60-Lab/microblog/pkg/response"
)

// GetUserProfile 用户资料
// @Summary 用户资料
// @Tags 用户
// @Security Bearer
// @Param userId path string true "用户ID"
// @Success 200 {object} response.Response{data=service.Profile}
// @Failure 404 {object} response.Response
// @Router /api/users/{userId} [get]
func (h *Handler) GetUserProfile(c *gin.Context) {
	p, err := h.feedService.GetUserProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// UpdateProfile 修改资料，头像与封面以 multipart 上传
// @Summary 修改个人资料
// @Tags 用户
// @Security Bearer
// @Accept multipart/form-data
// @Param userId path string true "用户ID"
// @Param name formData string false "名称"
// @Param introduction formData string false "自我介绍"
// @Param avatar formData file false "头像"
// @Param coverUrl formData file false "封面"
// @Success 200 {object} response.Response{data=model.User}
// @Failure 403 {object} response.Response
// @Router /api/users/{userId} [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var in service.ProfileInput
	if name, ok := c.GetPostForm("name"); ok {
		in.Name = &name
	}
	if intro, ok := c.GetPostForm("introduction"); ok {
		in.Introduction = &intro
	}
	var err error
	if in.Avatar, err = optionalFile(c, "avatar"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if in.Cover, err = optionalFile(c, "coverUrl"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), viewer(c).ID, c.Param("userId"), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateAccount 修改账号、邮箱、密码
// @Summary 修改账号设置
// @Tags 用户
// @Security Bearer
// @Accept json
// @Param userId path string true "用户ID"
// @Param request body service.AccountInput true "账号信息"
// @Success 200 {object} response.Response{data=service.AccountView}
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/users/{userId} [patch]
func (h *Handler) UpdateAccount(c *gin.Context) {
	var req service.AccountInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	view, err := h.userService.UpdateAccount(c.Request.Context(), viewer(c).ID, c.Param("userId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// ListUserTweets 用户发布的推文
// @Summary 用户推文
// @Tags 用户
// @Security Bearer
// @Param userId path string true "用户ID"
// @Success 200 {object} response.Response{data=[]service.TweetView}
// @Router /api/users/{userId}/tweets [get]
func (h *Handler) ListUserTweets(c *gin.Context) {
	list, err := h.feedService.ListUserTweets(c.Request.Context(), c.Param("userId"), viewer(c).ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// ListUserReplies 用户最近的回复
// @Summary 用户回复
// @Tags 用户
// @Security Bearer
// @Param userId path string true "用户ID"
// @Success 200 {object} response.Response{data=[]service.UserReplyView}
// @Router /api/users/{userId}/replied_tweets [get]
func (h *Handler) ListUserReplies(c *gin.Context) {
	list, err := h.feedService.ListUserReplies(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// ListUserLikes 用户点赞过的推文
// @Summary 用户喜欢的推文
// @Tags 用户
// @Security Bearer
// @Param userId path string true "用户ID"
// @Success 200 {object} response.Response{data=[]service.LikedTweetView}
// @Router /api/users/{userId}/likes [get]
func (h *Handler) ListUserLikes(c *gin.Context) {
	list, err := h.feedService.ListUserLikes(c.Request.Context(), c.Param("userId"), viewer(c).ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func optionalFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	return fh, err
}
