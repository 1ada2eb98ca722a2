package model

import "time"

const MessageCollection = "messages"

// 消息类型
const (
	MsgTypeText  = "TEXT"
	MsgTypeImage = "IMAGE"
	MsgTypeFile  = "FILE"
)

// Message 一条消息，创建后不可变。时间一律存 UTC，展示换算在序列化层做。
type Message struct {
	ID             string    `bson:"_id" json:"id"`                                          // 雪花字符串主键
	ConversationID string    `bson:"conversation_id,omitempty" json:"conversation_id"`       // 可空：会话未建立也能发
	SenderID       string    `bson:"sender_id" json:"sender_id"`
	ReceiverID     string    `bson:"receiver_id,omitempty" json:"receiver_id,omitempty"`     // 传输提示，非投递真相
	Content        string    `bson:"content" json:"content"`
	Type           string    `bson:"type" json:"type"` // TEXT / IMAGE / FILE
	MediaURL       string    `bson:"media_url,omitempty" json:"media_url,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

func (*Message) TableName() string { return MessageCollection }

// OutboundPayload receive_message 事件的载荷；收发两端字节一致。
type OutboundPayload struct {
	ID             string `json:"id"`
	Content        string `json:"content"`
	SenderID       string `json:"sender_id"`
	ReceiverID     string `json:"receiver_id,omitempty"`
	CreatedAt      string `json:"created_at"` // ISO-8601，展示时区
	ConversationID string `json:"conversation_id,omitempty"`
}
