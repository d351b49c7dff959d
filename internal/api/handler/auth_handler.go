package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/microblog/internal/api/middleware"
	"github.com/d60-Lab/microblog/internal/service"
	"github.com/d60-Lab/microblog/pkg/response"
)

type signInRequest struct {
	Account  string `json:"account" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignUp 注册
// @Summary 注册
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body service.SignUpInput true "注册信息"
// @Success 201 {object} response.Response{data=model.User}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/users [post]
func (h *Handler) SignUp(c *gin.Context) {
	var req service.SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.userService.SignUp(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// SignIn 登录，返回 token 与用户资料
// @Summary 登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body signInRequest true "账号密码"
// @Success 200 {object} response.Response{data=service.SignInResult}
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/signin [post]
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	user, err := h.authService.Authenticate(ctx, req.Account, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := h.authService.SignIn(ctx, user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SignOut 注销当前 token
// @Summary 登出
// @Tags 用户
// @Security Bearer
// @Success 200 {object} response.Response
// @Router /api/signout [post]
func (h *Handler) SignOut(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	if err := h.authService.SignOut(c.Request.Context(), claims.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
