package store

import (
	"context"

	"github.com/tuta081098/chat-moji/module/chat/model"
)

// Store 消息/会话的持久化网关。实时核心只依赖这个接口；
// Mongo 实现见 mongo.go，测试用内存假实现。
type Store interface {
	// CreateMessage 持久化一条消息，返回其ID。
	CreateMessage(ctx context.Context, msg *model.Message) (string, error)
	// GetConversation 不存在返回 errs.ErrRecordNotFound。
	GetConversation(ctx context.Context, id string) (*model.Conversation, error)
	// SaveConversation 整体覆盖会话摘要。
	SaveConversation(ctx context.Context, conv *model.Conversation) error

	// —— 协作者接口（REST 侧） ——
	CreateConversation(ctx context.Context, conv *model.Conversation) (string, error)
	// FindDirectConversation 查成员对的单聊会话；不存在返回 ErrRecordNotFound。
	FindDirectConversation(ctx context.Context, a, b string) (*model.Conversation, error)
	// ListMessages 按 created_at 倒序取一页（limit/skip）。
	ListMessages(ctx context.Context, conversationID string, limit, skip int64) ([]*model.Message, error)
}
