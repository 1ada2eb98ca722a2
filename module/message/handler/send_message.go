package handler

import (
	"context"
	"errors"

	"github.com/tuta081098/chat-moji/logger"
	chatsvc "github.com/tuta081098/chat-moji/module/chat/service"
	chat "github.com/tuta081098/chat-moji/service/chat"
	"github.com/tuta081098/chat-moji/tools/errs"
)

// SendMessageHandler 处理 send_message：入库流水线 + 扇出。
// 所有失败只进日志——传输层没有独立的失败回执事件，
// 发送端感知失败的唯一方式是收不到 receive_message 回显。
type SendMessageHandler struct {
	Ingest *chatsvc.Ingestor
}

func NewSendMessageHandler(ingest *chatsvc.Ingestor) *SendMessageHandler {
	return &SendMessageHandler{Ingest: ingest}
}

func (h *SendMessageHandler) Handle(ctx *chat.ChatContext, f *chat.Frame, c *chat.WsConn) error {
	req, err := chat.DecodeSendMessage(f.Data)
	if err != nil {
		return err
	}

	payload, err := h.Ingest.Ingest(context.Background(), chatsvc.IngestInput{
		SenderID:       req.SenderID,
		Content:        req.Content,
		ConversationID: req.ConversationID,
		ReceiverID:     req.ReceiverID,
	})
	if err != nil {
		if errors.Is(err, errs.ErrArgs) {
			// 非法事件静默丢弃
			logger.Infof("[SEND] dropped invalid send_message conn=%s: %v", c.ConnID, err)
			return nil
		}
		// 入库失败：放弃投递，无半状态
		return err
	}

	frame, err := chat.BuildFrame(chat.EventReceiveMessage, payload)
	if err != nil {
		return err
	}

	// 先推接收方房间，再回显发送连接；两路到达顺序不承诺
	ctx.S.Deliver(frame, req.ReceiverID, c)
	return nil
}
