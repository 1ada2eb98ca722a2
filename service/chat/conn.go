package chat

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tuta081098/chat-moji/logger"
	"github.com/tuta081098/chat-moji/tools/ids"
)

const (
	sendQueueSize = 256
	writeWait     = 5 * time.Second
	pingPeriod    = 50 * time.Second
)

// WsConn 一条活跃连接。ConnID 为会话令牌（雪花），身份绑定前为空。
// 发送走独立队列：Push 只入队不做网络IO，慢客户端不会拖住别的连接。
type WsConn struct {
	ConnID string
	Conn   *websocket.Conn
	Remote net.Addr

	Send chan []byte

	mu     sync.Mutex
	userID string

	CreatedAt time.Time

	closeOnce sync.Once
	done      chan struct{}
}

func NewWsConn(conn *websocket.Conn) *WsConn {
	c := &WsConn{
		ConnID:    ids.GenerateString(),
		Conn:      conn,
		Send:      make(chan []byte, sendQueueSize),
		CreatedAt: time.Now(),
		done:      make(chan struct{}),
	}
	if conn != nil {
		c.Remote = conn.RemoteAddr()
	}
	return c
}

// UserID 当前绑定身份；未绑定返回 ""
func (c *WsConn) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

func (c *WsConn) setUserID(uid string) {
	c.mu.Lock()
	c.userID = uid
	c.mu.Unlock()
}

// Push 非阻塞入队；队列满直接丢弃（尽力而为投递，不反压读循环）。
func (c *WsConn) Push(data []byte) {
	select {
	case <-c.done:
	case c.Send <- data:
	default:
		logger.Warnf("[ws] send queue full, drop frame conn=%s user=%s", c.ConnID, c.UserID())
	}
}

// Close 幂等；停写协程并关底层连接。
func (c *WsConn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.Conn != nil {
			_ = c.Conn.Close()
		}
	})
}

func (c *WsConn) Done() <-chan struct{} { return c.done }

// writePump 唯一的写入方；读循环和投递方都只操作 Send 队列。
func (c *WsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case data := <-c.Send:
			if err := c.writeText(data); err != nil {
				logger.Debugf("[ws] write err conn=%s: %v", c.ConnID, err)
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}

func (c *WsConn) writeText(data []byte) error {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}
