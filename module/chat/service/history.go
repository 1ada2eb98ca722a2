package service

import (
	"context"
	"errors"
	"time"

	"github.com/tuta081098/chat-moji/module/chat/model"
	"github.com/tuta081098/chat-moji/module/chat/store"
	"github.com/tuta081098/chat-moji/tools/errs"
)

// MessageView 历史接口的返回结构。
type MessageView struct {
	ID         string `json:"id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id,omitempty"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

// HistoryService 会话历史分页。
type HistoryService struct {
	store      store.Store
	displayLoc *time.Location
}

func NewHistoryService(st store.Store, displayLoc *time.Location) *HistoryService {
	if displayLoc == nil {
		displayLoc = time.UTC
	}
	return &HistoryService{store: st, displayLoc: displayLoc}
}

// ListBetween 取 userID 与 otherUserID 单聊的一页历史。
// 查询按 created_at 倒序做 skip/limit（分页锚定最近消息），
// 返回前反转为时间正序（前端从上往下渲染）。会话不存在返回空页。
func (s *HistoryService) ListBetween(ctx context.Context, userID, otherUserID string, limit, skip int64) ([]*MessageView, error) {
	conv, err := s.store.FindDirectConversation(ctx, userID, otherUserID)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return []*MessageView{}, nil
		}
		return nil, err
	}

	msgs, err := s.store.ListMessages(ctx, conv.ID, limit, skip)
	if err != nil {
		return nil, err
	}

	out := make([]*MessageView, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		out = append(out, s.view(msgs[i]))
	}
	return out, nil
}

func (s *HistoryService) view(m *model.Message) *MessageView {
	return &MessageView{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt.In(s.displayLoc).Format(time.RFC3339),
	}
}
