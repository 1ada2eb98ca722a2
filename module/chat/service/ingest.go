package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tuta081098/chat-moji/logger"
	"github.com/tuta081098/chat-moji/module/chat/model"
	"github.com/tuta081098/chat-moji/module/chat/store"
	"github.com/tuta081098/chat-moji/tools/errs"
	"github.com/tuta081098/chat-moji/tools/ids"
)

// Ingestor 消息入库流水线：
//  1. 校验（空 sender/content -> ErrArgs，事件丢弃）
//  2. 落库消息（失败 -> ErrDatabase，整个流程放弃，不产出载荷）
//  3. 带会话ID时尽力刷新会话摘要（会话不存在静默跳过）
//  4. 产出 OutboundPayload（收发两端同一份）
type Ingestor struct {
	store      store.Store
	clock      func() time.Time
	displayLoc *time.Location
}

type IngestInput struct {
	SenderID       string
	Content        string
	ConversationID string // 可空
	ReceiverID     string // 可空，仅回显
}

func NewIngestor(st store.Store, displayLoc *time.Location) *Ingestor {
	if displayLoc == nil {
		displayLoc = time.UTC
	}
	return &Ingestor{store: st, clock: time.Now, displayLoc: displayLoc}
}

// WithClock 测试注入时钟。
func (ig *Ingestor) WithClock(clock func() time.Time) *Ingestor {
	ig.clock = clock
	return ig
}

func (ig *Ingestor) Ingest(ctx context.Context, in IngestInput) (*model.OutboundPayload, error) {
	senderID := strings.TrimSpace(in.SenderID)
	if senderID == "" || in.Content == "" {
		return nil, errs.ErrArgs.WrapMsg("sender_id/content required")
	}

	now := ig.clock().UTC()
	msg := &model.Message{
		ID:             ids.GenerateString(),
		ConversationID: in.ConversationID,
		SenderID:       senderID,
		ReceiverID:     strings.TrimSpace(in.ReceiverID),
		Content:        in.Content,
		Type:           model.MsgTypeText,
		CreatedAt:      now,
	}

	// 落库失败即放弃：不会出现"没存下却投递了"的半状态
	if _, err := ig.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if in.ConversationID != "" {
		ig.refreshPreview(ctx, in.ConversationID, msg)
	}

	return &model.OutboundPayload{
		ID:             msg.ID,
		Content:        msg.Content,
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID, // 原样回显，不重推导
		CreatedAt:      msg.CreatedAt.In(ig.displayLoc).Format(time.RFC3339),
		ConversationID: in.ConversationID,
	}, nil
}

// refreshPreview 尽力而为：会话不存在跳过；并发下 last-writer-wins。
func (ig *Ingestor) refreshPreview(ctx context.Context, convID string, msg *model.Message) {
	conv, err := ig.store.GetConversation(ctx, convID)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			logger.Debugf("[ingest] conversation %s missing, preview skipped", convID)
		} else {
			logger.Warnf("[ingest] fetch conversation %s: %v", convID, err)
		}
		return
	}

	conv.LastMessage = &model.LastMessagePreview{
		Content:   msg.Content,
		SenderID:  msg.SenderID,
		CreatedAt: msg.CreatedAt,
		IsRead:    false,
	}
	conv.UpdatedAt = msg.CreatedAt
	if err := ig.store.SaveConversation(ctx, conv); err != nil {
		logger.Warnf("[ingest] save conversation %s: %v", convID, err)
	}
}
