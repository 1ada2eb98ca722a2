package chat

import "github.com/tuta081098/chat-moji/logger"

// Deliver 尽力而为扇出：
//  1. receiverID 非空时，推给该身份的全部活跃连接（0 个接收者不是错误，消息已落库）
//  2. 无条件回写发起连接（发送端以服务器分配的 id/时间戳为准）
//
// 两条路径收到的字节完全相同；到达顺序不承诺。
func (s *Server) Deliver(payload []byte, receiverID string, origin *WsConn) {
	if receiverID != "" {
		conns := s.reg.Lookup(receiverID)
		if len(conns) == 0 {
			logger.Debugf("[fanout] receiver offline user=%s", receiverID)
		}
		for _, c := range conns {
			c.Push(payload)
		}
	}
	if origin != nil {
		origin.Push(payload)
	}
}
