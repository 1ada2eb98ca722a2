package handler

import (
	"context"
	"time"

	"github.com/tuta081098/chat-moji/logger"
	chat "github.com/tuta081098/chat-moji/service/chat"
	"github.com/tuta081098/chat-moji/service/storage"
	"github.com/tuta081098/chat-moji/tools/errs"
)

// SetupHandler 处理 setup 事件：把连接（重新）绑定到身份。
// 允许从未绑定或已绑定状态改绑；回执 connected 只发给发起连接，不广播。
type SetupHandler struct{}

func (h *SetupHandler) Handle(ctx *chat.ChatContext, f *chat.Frame, c *chat.WsConn) error {
	userID, err := chat.DecodeSetup(f.Data)
	if err != nil {
		return err
	}
	if userID == "" {
		return errs.ErrArgs.WrapMsg("setup without user id", "conn", c.ConnID)
	}

	prev := c.UserID()
	ctx.S.Registry().Join(userID, c)
	logger.Infof("[SETUP] conn=%s joined user=%q", c.ConnID, userID)

	if m := storage.GetManager(); m != nil {
		pctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if prev != "" && prev != userID {
			_, _ = m.Offline(pctx, prev, c.ConnID)
		}
		if err := m.Online(pctx, userID, c.ConnID); err != nil {
			logger.Warnf("[SETUP] presence online user=%s err=%v", userID, err)
		}
	}

	c.Push(chat.BuildConnectedAck())
	return nil
}
