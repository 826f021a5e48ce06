package api

import (
	"net/http"

	"NEF_Emulator/backend/go/internal/nef_service/service"

	"github.com/gin-gonic/gin"
)

// --- Login and User Handlers ---

// LoginRequest 是 OAuth2 password 流程的表单字段，username 即邮箱。
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Login 处理 POST /login/access-token。
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// TestToken 处理 POST /login/test-token，返回令牌对应的用户。
func (h *Handler) TestToken(c *gin.Context) {
	h.Me(c)
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), mustCaller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	var req service.UserUpdateMe
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	user, err := h.service.UpdateMe(c.Request.Context(), mustCaller(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ListUsers(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	users, err := h.service.ListUsers(c.Request.Context(), mustCaller(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req service.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	user, err := h.service.CreateUser(c.Request.Context(), mustCaller(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
