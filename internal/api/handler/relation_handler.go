package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/microblog/pkg/response"
)

type followRequest struct {
	ID string `json:"id" binding:"required"`
}

// Follow 关注用户
// @Summary 关注用户
// @Tags 关系链
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body followRequest true "被关注用户ID"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/followships [post]
func (h *Handler) Follow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.relService.Follow(c.Request.Context(), viewer(c).ID, req.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"followerId": viewer(c).ID, "followingId": req.ID})
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Security Bearer
// @Param followingId path string true "被关注用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/followships/{followingId} [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	if err := h.relService.Unfollow(c.Request.Context(), viewer(c).ID, c.Param("followingId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListFollowings 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Security Bearer
// @Param userId path string true "用户ID"
// @Param page query int false "页码，不传返回全部"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=[]service.FollowView}
// @Router /api/users/{userId}/followings [get]
func (h *Handler) ListFollowings(c *gin.Context) {
	list, err := h.feedService.ListFollowings(c.Request.Context(), c.Param("userId"), viewer(c).ID, pageFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// ListFollowers 查询某用户的粉丝
// @Summary 查询粉丝列表
// @Tags 关系链
// @Security Bearer
// @Param userId path string true "用户ID"
// @Param page query int false "页码，不传返回全部"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=[]service.FollowView}
// @Router /api/users/{userId}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	list, err := h.feedService.ListFollowers(c.Request.Context(), c.Param("userId"), viewer(c).ID, pageFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
