package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tuta081098/chat-moji/logger"
	midsec "github.com/tuta081098/chat-moji/middleware/security"
	"github.com/tuta081098/chat-moji/module/user/service"
	"github.com/tuta081098/chat-moji/tools/errs"
)

type AuthHandler struct {
	Users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{Users: users}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	u, err := h.Users.Register(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, errs.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username or email already in use"})
			return
		}
		logger.Errorf("[auth] register: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "register failed"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := h.Users.Login(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "bad username or password"})
			return
		}
		logger.Errorf("[auth] login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListUsers GET /api/auth/users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		logger.Errorf("[auth] list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list users failed"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// Me GET /api/auth/me（需要 Bearer token）
func (h *AuthHandler) Me(c *gin.Context) {
	uid := c.GetString(midsec.CtxUserIDKey)
	u, err := h.Users.GetByID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logger.Errorf("[auth] me: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, u)
}
