package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/tuta081098/chat-moji/logger"
	"github.com/tuta081098/chat-moji/module/user/model"
	"github.com/tuta081098/chat-moji/service/storage"
	"github.com/tuta081098/chat-moji/tools/errs"
	"github.com/tuta081098/chat-moji/tools/ids"
	jwtlib "github.com/tuta081098/chat-moji/tools/security"
)

type UserService struct {
	db      *mongo.Database
	jwtOpts jwtlib.Options
}

func NewUserService(db *mongo.Database, jwtOpts jwtlib.Options) *UserService {
	return &UserService{db: db, jwtOpts: jwtOpts}
}

func (s *UserService) coll() *mongo.Collection {
	return s.db.Collection(model.UserCollection)
}

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
}

// Register 用户名/邮箱唯一；密码 bcrypt 入库。
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	n, err := s.coll().CountDocuments(ctx, bson.M{
		"$or": bson.A{bson.M{"username": username}, bson.M{"email": email}},
	})
	if err != nil {
		return nil, errs.ErrDatabase.WrapMsg("count users", "err", err)
	}
	if n > 0 {
		return nil, errs.ErrDuplicate.WrapMsg("username or email taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.WrapMsg(err, "hash password")
	}

	u := &model.User{
		ID:           ids.GenerateString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Phone:        in.Phone,
		Friends:      []string{},
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.coll().InsertOne(ctx, u); err != nil {
		return nil, errs.ErrDatabase.WrapMsg("insert user", "err", err)
	}
	return u, nil
}

type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
}

// Login 校验密码并签发 access/refresh 令牌。
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var u model.User
	err := s.coll().FindOne(ctx, bson.M{"username": strings.TrimSpace(username)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrRecordNotFound.WrapMsg("bad credentials")
	}
	if err != nil {
		return nil, errs.ErrDatabase.WrapMsg("find user", "err", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, errs.ErrRecordNotFound.WrapMsg("bad credentials")
	}

	pair, err := jwtlib.GeneratePair(s.jwtOpts, u.ID)
	if err != nil {
		return nil, errs.WrapMsg(err, "generate tokens")
	}
	return &LoginResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		UserID:       u.ID,
		Username:     u.Username,
	}, nil
}

// GetByID 不存在返回 ErrRecordNotFound。
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := s.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrRecordNotFound.WrapMsg("user", "id", id)
	}
	if err != nil {
		return nil, errs.ErrDatabase.WrapMsg("find user", "err", err)
	}
	return &u, nil
}

// List 全部用户，叠加在线状态。
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	cur, err := s.coll().Find(ctx, bson.M{})
	if err != nil {
		return nil, errs.ErrDatabase.WrapMsg("list users", "err", err)
	}
	defer cur.Close(ctx)

	var users []*model.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, errs.ErrDatabase.WrapMsg("decode users", "err", err)
	}
	s.overlayPresence(ctx, users)
	return users, nil
}

// ListByIDs 按ID集合取用户（好友列表/邀请人详情用），叠加在线状态。
func (s *UserService) ListByIDs(ctx context.Context, userIDs []string) ([]*model.User, error) {
	if len(userIDs) == 0 {
		return []*model.User{}, nil
	}
	cur, err := s.coll().Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, errs.ErrDatabase.WrapMsg("list users by ids", "err", err)
	}
	defer cur.Close(ctx)

	var users []*model.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, errs.ErrDatabase.WrapMsg("decode users", "err", err)
	}
	s.overlayPresence(ctx, users)
	return users, nil
}

func (s *UserService) overlayPresence(ctx context.Context, users []*model.User) {
	m := storage.GetManager()
	if m == nil || len(users) == 0 {
		return
	}
	idList := make([]string, len(users))
	for i, u := range users {
		idList[i] = u.ID
	}
	online, err := m.OnlineSet(ctx, idList)
	if err != nil {
		logger.Warnf("[user] presence overlay: %v", err)
		return
	}
	for _, u := range users {
		u.IsOnline = online[u.ID]
	}
}
