package global

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/tuta081098/chat-moji/logger"
	"github.com/tuta081098/chat-moji/service/mgo"
	"github.com/tuta081098/chat-moji/service/storage"
	redisSrv "github.com/tuta081098/chat-moji/service/storage/redis"
	"github.com/tuta081098/chat-moji/tools/ids"
)

// Config 进程级配置，全部来自环境变量（.env 可选）。
type Config struct {
	ListenAddr string

	MongoURI      string
	MongoDatabase string
	MongoUser     string
	MongoPassword string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JwtSecret []byte
	NodeID    int64

	// 展示时区：库里存 UTC，仅序列化时换算（原行为是写库前加固定偏移）
	DisplayTZ string
}

var conf Config

// Load 读取 .env（缺失不致命）并填充默认值。
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Infof("[config] no .env file, using environment only")
	}

	conf = Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8000"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DB", "chat_moji_db"),
		MongoUser:     os.Getenv("MONGO_USER"),
		MongoPassword: os.Getenv("MONGO_PASSWORD"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		JwtSecret:     []byte(getEnv("JWT_SECRET", "dev-secret-change-me")),
		NodeID:        int64(getEnvInt("NODE_ID", 1)),
		DisplayTZ:     getEnv("DISPLAY_TZ", "Asia/Ho_Chi_Minh"),
	}
	return &conf
}

func Get() *Config { return &conf }

func GetJwtSecret() []byte { return conf.JwtSecret }

// DisplayLocation 展示时区；解析失败退回 UTC。
func DisplayLocation() *time.Location {
	loc, err := time.LoadLocation(conf.DisplayTZ)
	if err != nil {
		logger.Warnf("[config] bad DISPLAY_TZ=%q, falling back to UTC: %v", conf.DisplayTZ, err)
		return time.UTC
	}
	return loc
}

// ConfigAll 按依赖顺序初始化基础设施。
func ConfigAll(ctx context.Context) error {
	ConfigIds()
	if err := ConfigMgo(ctx); err != nil {
		return err
	}
	ConfigRedis(ctx)
	return nil
}

func ConfigIds() {
	ids.SetNodeID(conf.NodeID)
}

func ConfigMgo(ctx context.Context) error {
	return mgo.Init(ctx, &mgo.Config{
		URI:         conf.MongoURI,
		Database:    conf.MongoDatabase,
		Username:    conf.MongoUser,
		Password:    conf.MongoPassword,
		MaxPoolSize: 20,
	})
}

// ConfigRedis Redis 只承载在线状态；连不上则降级为"无在线信息"，不阻止启动。
func ConfigRedis(ctx context.Context) {
	if conf.RedisAddr == "" {
		logger.Infof("[config] REDIS_ADDR empty, presence disabled")
		return
	}
	err := redisSrv.InitRedis(redisSrv.Config{
		Addr:     conf.RedisAddr,
		Password: conf.RedisPassword,
		DB:       conf.RedisDB,
	})
	if err != nil {
		logger.Warnf("[config] redis init failed, presence disabled: %v", err)
		return
	}
	storage.InitManager(storage.OnlineConfig{TTL: 2 * time.Hour})
	_ = ctx
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
