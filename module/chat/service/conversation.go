package service

import (
	"context"
	"errors"
	"time"

	"github.com/tuta081098/chat-moji/module/chat/model"
	"github.com/tuta081098/chat-moji/module/chat/store"
	"github.com/tuta081098/chat-moji/tools/errs"
	"github.com/tuta081098/chat-moji/tools/ids"
)

// ConversationService 会话的查建；消息摘要的维护在 Ingestor。
type ConversationService struct {
	store store.Store
}

func NewConversationService(st store.Store) *ConversationService {
	return &ConversationService{store: st}
}

// OpenDirect 返回两人的单聊会话，不存在则创建。reused=true 表示复用旧会话。
func (s *ConversationService) OpenDirect(ctx context.Context, userID, participantID string) (convID string, reused bool, err error) {
	if userID == "" || participantID == "" {
		return "", false, errs.ErrArgs.WrapMsg("userID/participantID required")
	}

	conv, err := s.store.FindDirectConversation(ctx, userID, participantID)
	if err == nil {
		return conv.ID, true, nil
	}
	if !errors.Is(err, errs.ErrRecordNotFound) {
		return "", false, err
	}

	newConv := &model.Conversation{
		ID:        ids.GenerateString(),
		Type:      model.ConvTypeDirect,
		Members:   []string{userID, participantID},
		UpdatedAt: time.Now().UTC(),
	}
	id, err := s.store.CreateConversation(ctx, newConv)
	if err != nil {
		return "", false, err
	}
	return id, false, nil
}
