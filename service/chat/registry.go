package chat

import "sync"

// Registry 身份 -> 活跃连接集合。进程内唯一的共享可变结构：
// 所有变更都在锁内完成，任何操作都不做网络IO、不阻塞。
// 同一身份可挂多条连接（多端）；一条连接最多绑定一个身份。
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]map[string]*WsConn // userID -> (connID -> conn)
	byConn map[string]string             // connID -> userID
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]map[string]*WsConn),
		byConn: make(map[string]string),
	}
}

// Join 绑定/改绑。重复 Join 同一身份是幂等；换身份时先从旧桶摘除。
func (r *Registry) Join(userID string, c *WsConn) {
	if userID == "" || c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byConn[c.ConnID]; ok {
		if old == userID {
			return
		}
		r.removeLocked(old, c.ConnID)
	}

	if r.byUser[userID] == nil {
		r.byUser[userID] = make(map[string]*WsConn)
	}
	r.byUser[userID][c.ConnID] = c
	r.byConn[c.ConnID] = userID
	c.setUserID(userID)
}

// Leave 解绑；未绑定时为 no-op（断连路径无条件调用）。
func (r *Registry) Leave(c *WsConn) {
	if c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[c.ConnID]
	if !ok {
		return
	}
	r.removeLocked(userID, c.ConnID)
	c.setUserID("")
}

func (r *Registry) removeLocked(userID, connID string) {
	delete(r.byConn, connID)
	if mm := r.byUser[userID]; mm != nil {
		delete(mm, connID)
		if len(mm) == 0 {
			delete(r.byUser, userID)
		}
	}
}

// Lookup 返回该身份的连接快照；未知身份返回空切片而不是错误。
func (r *Registry) Lookup(userID string) []*WsConn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mm := r.byUser[userID]
	out := make([]*WsConn, 0, len(mm))
	for _, c := range mm {
		out = append(out, c)
	}
	return out
}

// CountUser 该身份的在线连接数。
func (r *Registry) CountUser(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID])
}
