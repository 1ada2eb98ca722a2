package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tuta081098/chat-moji/logger"
	chatsvc "github.com/tuta081098/chat-moji/module/chat/service"
	usersvc "github.com/tuta081098/chat-moji/module/user/service"
	"github.com/tuta081098/chat-moji/tools/errs"
)

type ChatHandler struct {
	Convs   *chatsvc.ConversationService
	History *chatsvc.HistoryService
	Users   *usersvc.UserService
}

func NewChatHandler(convs *chatsvc.ConversationService, history *chatsvc.HistoryService, users *usersvc.UserService) *ChatHandler {
	return &ChatHandler{Convs: convs, History: history, Users: users}
}

// CreateConversation POST /api/chat/conversations?current_user_id=...
func (h *ChatHandler) CreateConversation(c *gin.Context) {
	var in struct {
		ParticipantID string `json:"participant_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	uid := c.Query("current_user_id")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current_user_id required"})
		return
	}

	// 对方必须存在（会话创建是协作者职责，消息核心不管）
	if _, err := h.Users.GetByID(c.Request.Context(), in.ParticipantID); err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logger.Errorf("[chat] participant lookup: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create conversation failed"})
		return
	}

	convID, reused, err := h.Convs.OpenDirect(c.Request.Context(), uid, in.ParticipantID)
	if err != nil {
		logger.Errorf("[chat] open conversation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create conversation failed"})
		return
	}
	msg := "conversation created"
	if reused {
		msg = "existing conversation returned"
	}
	c.JSON(http.StatusOK, gin.H{"conversation_id": convID, "message": msg})
}

// GetMessages GET /api/chat/:otherUserId/messages?current_user_id=...&limit=20&skip=0
func (h *ChatHandler) GetMessages(c *gin.Context) {
	otherID := c.Param("otherUserId")
	uid := c.Query("current_user_id")
	if uid == "" || otherID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current_user_id required"})
		return
	}
	limit := parseInt64(c.DefaultQuery("limit", "20"), 20)
	skip := parseInt64(c.DefaultQuery("skip", "0"), 0)

	msgs, err := h.History.ListBetween(c.Request.Context(), uid, otherID, limit, skip)
	if err != nil {
		logger.Errorf("[chat] history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list messages failed"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func parseInt64(s string, def int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return def
	}
	return n
}
