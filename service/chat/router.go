package chat

import (
	"sync"

	"github.com/tuta081098/chat-moji/logger"
	"github.com/tuta081098/chat-moji/tools/safe"
)

// ChatContext 传给事件处理器的上下文。
type ChatContext struct {
	S *Server
}

// Handler 单个事件处理器。返回的 error 只进日志，从不回传给对端。
type Handler interface {
	Handle(ctx *ChatContext, f *Frame, c *WsConn) error
}

// HandlerFunc 适配函数式处理器。
type HandlerFunc func(ctx *ChatContext, f *Frame, c *WsConn) error

func (fn HandlerFunc) Handle(ctx *ChatContext, f *Frame, c *WsConn) error {
	return fn(ctx, f, c)
}

type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

func (d *Dispatcher) Register(event string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = h
}

func (d *Dispatcher) GetHandler(event string) Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.handlers[event]
}

// Server 网关：连接注册表 + 事件分发。单进程，一个实例。
type Server struct {
	gwID string
	reg  *Registry
	disp *Dispatcher
}

func NewServer(gwID string) *Server {
	return &Server{
		gwID: gwID,
		reg:  NewRegistry(),
		disp: NewDispatcher(),
	}
}

func (s *Server) GwID() string         { return s.gwID }
func (s *Server) Registry() *Registry  { return s.reg }
func (s *Server) Disp() *Dispatcher    { return s.disp }

// DispatchFrame 隔离执行处理器：单条坏消息 panic 不影响读循环。
func (s *Server) DispatchFrame(f *Frame, c *WsConn) {
	h := s.disp.GetHandler(f.Event)
	if h == nil {
		logger.Infof("[ws] no handler for event=%s conn=%s", f.Event, c.ConnID)
		return
	}
	err := safe.Call("ws.handler."+f.Event, func() error {
		return h.Handle(&ChatContext{S: s}, f, c)
	})
	if err != nil {
		logger.Warnf("[ws] handler event=%s conn=%s err=%v", f.Event, c.ConnID, err)
	}
}
