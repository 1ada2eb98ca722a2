package model

import "time"

const FriendRequestCollection = "friend_requests"

// 邀请状态
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusDeclined = "DECLINED"
)

// FriendRequest 好友邀请。
type FriendRequest struct {
	ID         string    `bson:"_id" json:"id"`
	SenderID   string    `bson:"sender_id" json:"sender_id"`
	ReceiverID string    `bson:"receiver_id" json:"receiver_id"`
	Status     string    `bson:"status" json:"status"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

func (*FriendRequest) TableName() string { return FriendRequestCollection }
