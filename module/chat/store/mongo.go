package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tuta081098/chat-moji/module/chat/model"
	"github.com/tuta081098/chat-moji/tools/errs"
)

type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// EnsureIndexes 会话历史查询走 (conversation_id, -created_at)。
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	msgs := s.db.Collection(model.MessageCollection)
	_, err := msgs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return errs.WrapMsg(err, "create message index")
	}
	convs := s.db.Collection(model.ConversationCollection)
	_, err = convs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "members", Value: 1}},
	})
	return errs.WrapMsg(err, "create conversation index")
}

func (s *MongoStore) CreateMessage(ctx context.Context, msg *model.Message) (string, error) {
	_, err := s.db.Collection(model.MessageCollection).InsertOne(ctx, msg)
	if err != nil {
		return "", errs.ErrDatabase.WrapMsg("insert message", "err", err)
	}
	return msg.ID, nil
}

func (s *MongoStore) GetConversation(ctx context.Context, id string) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.Collection(model.ConversationCollection).
		FindOne(ctx, bson.M{"_id": id}).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrRecordNotFound.WrapMsg("conversation", "id", id)
	}
	if err != nil {
		return nil, errs.ErrDatabase.WrapMsg("find conversation", "err", err)
	}
	return &conv, nil
}

func (s *MongoStore) SaveConversation(ctx context.Context, conv *model.Conversation) error {
	_, err := s.db.Collection(model.ConversationCollection).ReplaceOne(
		ctx,
		bson.M{"_id": conv.ID},
		conv,
		options.Replace().SetUpsert(false),
	)
	if err != nil {
		return errs.ErrDatabase.WrapMsg("save conversation", "id", conv.ID, "err", err)
	}
	return nil
}

func (s *MongoStore) CreateConversation(ctx context.Context, conv *model.Conversation) (string, error) {
	_, err := s.db.Collection(model.ConversationCollection).InsertOne(ctx, conv)
	if err != nil {
		return "", errs.ErrDatabase.WrapMsg("insert conversation", "err", err)
	}
	return conv.ID, nil
}

func (s *MongoStore) FindDirectConversation(ctx context.Context, a, b string) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.Collection(model.ConversationCollection).FindOne(ctx, bson.M{
		"type":    model.ConvTypeDirect,
		"members": bson.M{"$all": bson.A{a, b}},
	}).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrRecordNotFound.WrapMsg("direct conversation", "members", a+","+b)
	}
	if err != nil {
		return nil, errs.ErrDatabase.WrapMsg("find direct conversation", "err", err)
	}
	return &conv, nil
}

func (s *MongoStore) ListMessages(ctx context.Context, conversationID string, limit, skip int64) ([]*model.Message, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.db.Collection(model.MessageCollection).
		Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, errs.ErrDatabase.WrapMsg("list messages", "err", err)
	}
	defer cur.Close(ctx)

	var out []*model.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.ErrDatabase.WrapMsg("decode messages", "err", err)
	}
	return out, nil
}
