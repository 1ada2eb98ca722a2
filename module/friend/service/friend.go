package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tuta081098/chat-moji/module/friend/model"
	usermodel "github.com/tuta081098/chat-moji/module/user/model"
	usersvc "github.com/tuta081098/chat-moji/module/user/service"
	"github.com/tuta081098/chat-moji/tools/errs"
	"github.com/tuta081098/chat-moji/tools/ids"
)

type FriendService struct {
	db    *mongo.Database
	users *usersvc.UserService
}

func NewFriendService(db *mongo.Database, users *usersvc.UserService) *FriendService {
	return &FriendService{db: db, users: users}
}

func (s *FriendService) reqColl() *mongo.Collection {
	return s.db.Collection(model.FriendRequestCollection)
}

func (s *FriendService) userColl() *mongo.Collection {
	return s.db.Collection(usermodel.UserCollection)
}

// SendRequest 发起邀请：禁止自邀、对方必须存在、不能已是好友、不重复挂起。
func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverID string) error {
	if senderID == "" || receiverID == "" {
		return errs.ErrArgs.WrapMsg("sender/receiver required")
	}
	if senderID == receiverID {
		return errs.ErrArgs.WrapMsg("cannot befriend yourself")
	}

	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		return err
	}
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return err
	}
	for _, f := range sender.Friends {
		if f == receiverID {
			return errs.ErrDuplicate.WrapMsg("already friends")
		}
	}

	n, err := s.reqColl().CountDocuments(ctx, bson.M{
		"sender_id": senderID, "receiver_id": receiverID, "status": model.StatusPending,
	})
	if err != nil {
		return errs.ErrDatabase.WrapMsg("count pending requests", "err", err)
	}
	if n > 0 {
		return errs.ErrDuplicate.WrapMsg("request already pending")
	}

	req := &model.FriendRequest{
		ID:         ids.GenerateString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     model.StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.reqColl().InsertOne(ctx, req); err != nil {
		return errs.ErrDatabase.WrapMsg("insert friend request", "err", err)
	}
	return nil
}

// ReceivedRequests 收到的挂起邀请，返回发起人详情。
func (s *FriendService) ReceivedRequests(ctx context.Context, userID string) ([]*usermodel.User, error) {
	cur, err := s.reqColl().Find(ctx, bson.M{
		"receiver_id": userID, "status": model.StatusPending,
	})
	if err != nil {
		return nil, errs.ErrDatabase.WrapMsg("find requests", "err", err)
	}
	defer cur.Close(ctx)

	var reqs []*model.FriendRequest
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, errs.ErrDatabase.WrapMsg("decode requests", "err", err)
	}

	senderIDs := make([]string, 0, len(reqs))
	for _, r := range reqs {
		senderIDs = append(senderIDs, r.SenderID)
	}
	return s.users.ListByIDs(ctx, senderIDs)
}

// Accept 接受邀请：状态置 ACCEPTED，双方好友列表互相 $addToSet。
func (s *FriendService) Accept(ctx context.Context, userID, senderID string) error {
	res := s.reqColl().FindOneAndUpdate(ctx, bson.M{
		"sender_id": senderID, "receiver_id": userID, "status": model.StatusPending,
	}, bson.M{
		"$set": bson.M{"status": model.StatusAccepted},
	})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errs.ErrRecordNotFound.WrapMsg("pending request", "sender", senderID)
		}
		return errs.ErrDatabase.WrapMsg("update request", "err", err)
	}

	if _, err := s.userColl().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"friends": senderID}},
	); err != nil {
		return errs.ErrDatabase.WrapMsg("push friend", "user", userID, "err", err)
	}
	if _, err := s.userColl().UpdateOne(ctx,
		bson.M{"_id": senderID},
		bson.M{"$addToSet": bson.M{"friends": userID}},
	); err != nil {
		return errs.ErrDatabase.WrapMsg("push friend", "user", senderID, "err", err)
	}
	return nil
}

// ListFriends 好友详情列表（含在线状态）。
func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]*usermodel.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.users.ListByIDs(ctx, u.Friends)
}
