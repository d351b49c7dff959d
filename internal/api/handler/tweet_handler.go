package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/microblog/pkg/response"
)

type postTweetRequest struct {
	Description string `json:"description"`
}

type postReplyRequest struct {
	Comment string `json:"comment"`
}

// ListTimeline 全部推文
// @Summary 推文列表
// @Tags 推文
// @Security Bearer
// @Param page query int false "页码，不传返回全部"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=[]service.TweetView}
// @Router /api/tweets [get]
func (h *Handler) ListTimeline(c *gin.Context) {
	list, err := h.feedService.ListTimeline(c.Request.Context(), viewer(c).ID, pageFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// PostTweet 发推
// @Summary 发推
// @Tags 推文
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body postTweetRequest true "内容"
// @Success 201 {object} response.Response{data=service.TweetView}
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/tweets [post]
func (h *Handler) PostTweet(c *gin.Context) {
	var req postTweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	tweet, err := h.tweetService.PostTweet(c.Request.Context(), viewer(c), req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tweet)
}

// GetTweet 单条推文
// @Summary 推文详情
// @Tags 推文
// @Security Bearer
// @Param tweetId path string true "推文ID"
// @Success 200 {object} response.Response{data=service.TweetDetail}
// @Failure 404 {object} response.Response
// @Router /api/tweets/{tweetId} [get]
func (h *Handler) GetTweet(c *gin.Context) {
	tweet, err := h.feedService.GetTweet(c.Request.Context(), viewer(c).ID, c.Param("tweetId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tweet)
}

// DeleteTweet 删除自己的推文
// @Summary 删除推文
// @Tags 推文
// @Security Bearer
// @Param tweetId path string true "推文ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/tweets/{tweetId} [delete]
func (h *Handler) DeleteTweet(c *gin.Context) {
	if err := h.tweetService.DeleteTweet(c.Request.Context(), viewer(c).ID, c.Param("tweetId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListReplies 推文的回复
// @Summary 回复列表
// @Tags 推文
// @Security Bearer
// @Param tweetId path string true "推文ID"
// @Success 200 {object} response.Response{data=[]service.ReplyView}
// @Failure 404 {object} response.Response
// @Router /api/tweets/{tweetId}/replies [get]
func (h *Handler) ListReplies(c *gin.Context) {
	list, err := h.feedService.ListReplies(c.Request.Context(), c.Param("tweetId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// PostReply 回复
// @Summary 回复推文
// @Tags 推文
// @Security Bearer
// @Accept json
// @Param tweetId path string true "推文ID"
// @Param request body postReplyRequest true "内容"
// @Success 201 {object} response.Response{data=service.ReplyView}
// @Failure 404 {object} response.Response
// @Router /api/tweets/{tweetId}/replies [post]
func (h *Handler) PostReply(c *gin.Context) {
	var req postReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	reply, err := h.tweetService.PostReply(c.Request.Context(), viewer(c), c.Param("tweetId"), req.Comment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reply)
}

// AddLike 点赞
// @Summary 点赞
// @Tags 推文
// @Security Bearer
// @Param tweetId path string true "推文ID"
// @Success 201 {object} response.Response{data=model.Like}
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/tweets/{tweetId}/like [post]
func (h *Handler) AddLike(c *gin.Context) {
	like, err := h.tweetService.AddLike(c.Request.Context(), viewer(c).ID, c.Param("tweetId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, like)
}

// RemoveLike 取消点赞，返回被删除的记录
// @Summary 取消点赞
// @Tags 推文
// @Security Bearer
// @Param tweetId path string true "推文ID"
// @Success 200 {object} response.Response{data=model.Like}
// @Failure 404 {object} response.Response
// @Router /api/tweets/{tweetId}/unlike [post]
func (h *Handler) RemoveLike(c *gin.Context) {
	like, err := h.tweetService.RemoveLike(c.Request.Context(), viewer(c).ID, c.Param("tweetId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, like)
}
