package chat

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/tuta081098/chat-moji/logger"
	"github.com/tuta081098/chat-moji/service/storage"
	"github.com/tuta081098/chat-moji/tools/safe"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWS ===== WebSocket 入口 =====
// 握手可带 ?userId=xxx 直接绑定身份；不带也不是错误，只是收不到按身份投递的消息。
func (s *Server) HandleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[HandleWS] upgrade websocket error: %v", err)
		return
	}

	conn := NewWsConn(ws)
	safe.Go("ws.writePump", conn.writePump)

	// 握手阶段绑定（来源信任，见设计说明：验证由外部 Auth 协作者补齐）
	if uid := strings.TrimSpace(c.Query("userId")); uid != "" {
		s.reg.Join(uid, conn)
		s.markOnline(uid, conn.ConnID)
		logger.Infof("[CONNECT] conn=%s joined user=%q", conn.ConnID, uid)
	} else {
		logger.Infof("[CONNECT] conn=%s no user id", conn.ConnID)
	}

	s.readLoop(conn)

	// ---- 退出阶段：注销 + 下线 + 收尾 ----
	uid := conn.UserID()
	s.reg.Leave(conn)
	if uid != "" {
		s.markOffline(uid, conn.ConnID)
	}
	conn.Close()
	logger.Infof("[DISCONNECT] conn=%s user=%q", conn.ConnID, uid)
}

// readLoop 只读不写；单连接内事件按到达顺序处理，出错即退出。
func (s *Server) readLoop(conn *WsConn) {
	ws := conn.Conn
	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[WS] peer closed conn=%s err=%v", conn.ConnID, rerr)
			} else if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				logger.Infof("[WS] read timeout conn=%s err=%v", conn.ConnID, rerr)
			} else {
				logger.Infof("[WS] read err conn=%s err=%v", conn.ConnID, rerr)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		frame, perr := ParseFrameJSON(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Warnf("[WS] ParseFrameJSON err conn=%s err=%v sample=%q", conn.ConnID, perr, sample)
			continue
		}

		s.DispatchFrame(frame, conn)
	}
}

func (s *Server) markOnline(userID, connID string) {
	m := storage.GetManager()
	if m == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.Online(ctx, userID, connID); err != nil {
		logger.Warnf("[presence] online user=%s err=%v", userID, err)
	}
}

func (s *Server) markOffline(userID, connID string) {
	m := storage.GetManager()
	if m == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := m.Offline(ctx, userID, connID); err != nil {
		logger.Warnf("[presence] offline user=%s err=%v", userID, err)
	}
}
