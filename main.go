package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tuta081098/chat-moji/global"
	"github.com/tuta081098/chat-moji/logger"
	mid "github.com/tuta081098/chat-moji/middleware"
	chathandler "github.com/tuta081098/chat-moji/module/chat/handler"
	chatsvc "github.com/tuta081098/chat-moji/module/chat/service"
	chatstore "github.com/tuta081098/chat-moji/module/chat/store"
	friendhandler "github.com/tuta081098/chat-moji/module/friend/handler"
	friendsvc "github.com/tuta081098/chat-moji/module/friend/service"
	msghandler "github.com/tuta081098/chat-moji/module/message/handler"
	userhandler "github.com/tuta081098/chat-moji/module/user/handler"
	usersvc "github.com/tuta081098/chat-moji/module/user/service"
	chat "github.com/tuta081098/chat-moji/service/chat"
	"github.com/tuta081098/chat-moji/service/mgo"
	redisSrv "github.com/tuta081098/chat-moji/service/storage/redis"
	"github.com/tuta081098/chat-moji/tools/ids"
	jwtlib "github.com/tuta081098/chat-moji/tools/security"
)

func main() {
	cfg := global.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := global.ConfigAll(initCtx); err != nil {
		logger.Errorf("[startup] infra init failed: %+v", err)
		return
	}
	logger.Infof("[startup] mongo connected db=%s", cfg.MongoDatabase)

	db := mgo.GetDB()
	displayLoc := global.DisplayLocation()

	// 存储网关 + 领域服务
	store := chatstore.NewMongoStore(db)
	if err := store.EnsureIndexes(initCtx); err != nil {
		logger.Warnf("[startup] ensure indexes: %v", err)
	}
	ingestor := chatsvc.NewIngestor(store, displayLoc)
	convs := chatsvc.NewConversationService(store)
	history := chatsvc.NewHistoryService(store, displayLoc)
	users := usersvc.NewUserService(db, jwtlib.DefaultOptions(cfg.JwtSecret))
	friends := friendsvc.NewFriendService(db, users)

	// 实时网关：注册表 + 事件处理器
	server := chat.NewServer("gw-" + ids.GenerateString())
	server.Disp().Register(chat.EventSetup, &msghandler.SetupHandler{})
	server.Disp().Register(chat.EventSendMessage, msghandler.NewSendMessageHandler(ingestor))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mid.Origin())
	r.Use(mid.RequestID())
	r.Use(mid.AccessLog())

	registerRoutes(r, server, users, friends, convs, history)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	go func() {
		logger.Infof("[startup] listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("[startup] listen: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Infof("[shutdown] draining...")

	shutdownCtx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(shutdownCtx)
	_ = mgo.Close(shutdownCtx)
	_ = redisSrv.CloseRedis()
	logger.Sync()
}

func registerRoutes(
	r *gin.Engine,
	server *chat.Server,
	users *usersvc.UserService,
	friends *friendsvc.FriendService,
	convs *chatsvc.ConversationService,
	history *chatsvc.HistoryService,
) {
	authH := userhandler.NewAuthHandler(users)
	friendH := friendhandler.NewFriendHandler(friends)
	chatH := chathandler.NewChatHandler(convs, history, users)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to Chat Moji API", "status": "Running"})
	})

	auth := r.Group("/api/auth")
	mid.POST(auth, "/register", authH.Register, mid.RouteOpt{})
	mid.POST(auth, "/login", authH.Login, mid.RouteOpt{})
	mid.GET(auth, "/users", authH.ListUsers, mid.RouteOpt{})
	mid.GET(auth, "/me", authH.Me, mid.RouteOpt{IsAuth: true})

	chatGrp := r.Group("/api/chat")
	mid.POST(chatGrp, "/conversations", chatH.CreateConversation, mid.RouteOpt{})
	mid.GET(chatGrp, "/:otherUserId/messages", chatH.GetMessages, mid.RouteOpt{})

	friendGrp := r.Group("/api/friends")
	mid.POST(friendGrp, "/request", friendH.SendRequest, mid.RouteOpt{})
	mid.GET(friendGrp, "/requests/received", friendH.Received, mid.RouteOpt{})
	mid.POST(friendGrp, "/accept", friendH.Accept, mid.RouteOpt{})
	mid.GET(friendGrp, "/list", friendH.List, mid.RouteOpt{})

	// Socket.IO 的继任者：原生 WebSocket 端点
	r.GET("/ws", server.HandleWS)
}
