package storage

import (
	"context"
	"time"

	redislib "github.com/redis/go-redis/v9"

	redis2 "github.com/tuta081098/chat-moji/service/storage/redis"
	"github.com/tuta081098/chat-moji/tools/errs"
)

// 在线状态：每个已绑定身份的连接在 Redis 记一条
//   online:u:<userID>  = SET(connID...)，TTL 跟随最后一次写入
// Registry 仍是投递的唯一真相；这里只服务 REST 侧的 is_online 展示。

type OnlineConfig struct {
	TTL       time.Duration // 会话TTL（心跳/重绑续期）
	KeyPrefix string        // 默认 "online:u:"
}

func (c *OnlineConfig) norm() {
	if c.TTL <= 0 {
		c.TTL = 2 * time.Hour
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "online:u:"
	}
}

// —— 单连接下线（SREM 后集合为空则删键） ——
// KEYS[1] = user set key
// ARGV[1] = connID
const luaOfflineOne = `
local k = KEYS[1]
redis.call("SREM", k, ARGV[1])
if redis.call("SCARD", k) == 0 then
  redis.call("DEL", k)
  return 0
end
return redis.call("SCARD", k)
`

type OnlineManager struct {
	conf OnlineConfig
}

var globalMgr *OnlineManager

// InitManager 在 Redis 初始化成功后调用；否则 GetManager 返回 nil，调用方降级。
func InitManager(conf OnlineConfig) {
	conf.norm()
	globalMgr = &OnlineManager{conf: conf}
}

func GetManager() *OnlineManager { return globalMgr }

func (m *OnlineManager) key(userID string) string {
	return m.conf.KeyPrefix + userID
}

// Online 标记 (userID, connID) 在线并续期。
func (m *OnlineManager) Online(ctx context.Context, userID, connID string) error {
	if userID == "" || connID == "" {
		return errs.ErrArgs.WrapMsg("userID/connID empty")
	}
	rdb := redis2.GetRedis()
	if rdb == nil {
		return nil
	}
	pipe := rdb.TxPipeline()
	pipe.SAdd(ctx, m.key(userID), connID)
	pipe.Expire(ctx, m.key(userID), m.conf.TTL)
	_, err := pipe.Exec(ctx)
	return errs.Wrap(err)
}

// Offline 移除单条连接；幂等，集合清空时删键。返回该用户剩余在线连接数。
func (m *OnlineManager) Offline(ctx context.Context, userID, connID string) (int64, error) {
	if userID == "" || connID == "" {
		return 0, nil
	}
	rdb := redis2.GetRedis()
	if rdb == nil {
		return 0, nil
	}
	n, err := rdb.Eval(ctx, luaOfflineOne, []string{m.key(userID)}, connID).Int64()
	if err != nil && err != redislib.Nil {
		return 0, errs.Wrap(err)
	}
	return n, nil
}

// IsOnline 查询单个用户。
func (m *OnlineManager) IsOnline(ctx context.Context, userID string) (bool, error) {
	rdb := redis2.GetRedis()
	if rdb == nil {
		return false, nil
	}
	n, err := rdb.Exists(ctx, m.key(userID)).Result()
	if err != nil {
		return false, errs.Wrap(err)
	}
	return n > 0, nil
}

// OnlineSet 批量查询，供用户/好友列表叠加 is_online。
func (m *OnlineManager) OnlineSet(ctx context.Context, userIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(userIDs))
	rdb := redis2.GetRedis()
	if rdb == nil || len(userIDs) == 0 {
		return out, nil
	}
	pipe := rdb.Pipeline()
	cmds := make([]*redislib.IntCmd, len(userIDs))
	for i, id := range userIDs {
		cmds[i] = pipe.Exists(ctx, m.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redislib.Nil {
		return out, errs.Wrap(err)
	}
	for i, id := range userIDs {
		out[id] = cmds[i].Val() > 0
	}
	return out, nil
}
