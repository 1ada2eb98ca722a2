package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tuta081098/chat-moji/logger"
	"github.com/tuta081098/chat-moji/module/friend/service"
	"github.com/tuta081098/chat-moji/tools/errs"
)

type FriendHandler struct {
	Friends *service.FriendService
}

func NewFriendHandler(friends *service.FriendService) *FriendHandler {
	return &FriendHandler{Friends: friends}
}

// SendRequest POST /api/friends/request
func (h *FriendHandler) SendRequest(c *gin.Context) {
	var in struct {
		ReceiverID    string `json:"receiver_id" binding:"required"`
		CurrentUserID string `json:"current_user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	err := h.Friends.SendRequest(c.Request.Context(), in.CurrentUserID, in.ReceiverID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "friend request sent"})
	case errors.Is(err, errs.ErrArgs), errors.Is(err, errs.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		logger.Errorf("[friend] send request: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "send request failed"})
	}
}

// Received GET /api/friends/requests/received?current_user_id=...
func (h *FriendHandler) Received(c *gin.Context) {
	uid := c.Query("current_user_id")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current_user_id required"})
		return
	}
	users, err := h.Friends.ReceivedRequests(c.Request.Context(), uid)
	if err != nil {
		logger.Errorf("[friend] received: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list requests failed"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// Accept POST /api/friends/accept
func (h *FriendHandler) Accept(c *gin.Context) {
	var in struct {
		SenderID      string `json:"sender_id" binding:"required"`
		CurrentUserID string `json:"current_user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	err := h.Friends.Accept(c.Request.Context(), in.CurrentUserID, in.SenderID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "friend request accepted"})
	case errors.Is(err, errs.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found or already handled"})
	default:
		logger.Errorf("[friend] accept: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "accept failed"})
	}
}

// List GET /api/friends/list?current_user_id=...
func (h *FriendHandler) List(c *gin.Context) {
	uid := c.Query("current_user_id")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current_user_id required"})
		return
	}
	users, err := h.Friends.ListFriends(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logger.Errorf("[friend] list: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list friends failed"})
		return
	}
	c.JSON(http.StatusOK, users)
}
