package model

import "time"

const ConversationCollection = "conversations"

// 会话类型
const (
	ConvTypeDirect = "DIRECT"
	ConvTypeGroup  = "GROUP"
)

// LastMessagePreview 嵌入 Conversation 的末条消息快照，整体替换、从不局部更新。
type LastMessagePreview struct {
	Content   string    `bson:"content" json:"content"`
	SenderID  string    `bson:"sender_id" json:"sender_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	IsRead    bool      `bson:"is_read" json:"is_read"`
}

// Conversation 会话摘要。LastMessage/UpdatedAt 由消息入库流程维护：
// 允许滞后，但成功入库后不得指向不存在的消息（并发时 last-writer-wins）。
type Conversation struct {
	ID          string              `bson:"_id" json:"id"`
	Type        string              `bson:"type" json:"type"` // DIRECT / GROUP
	Members     []string            `bson:"members" json:"members"`
	GroupName   string              `bson:"group_name,omitempty" json:"group_name,omitempty"`
	LastMessage *LastMessagePreview `bson:"last_message,omitempty" json:"last_message,omitempty"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}

func (*Conversation) TableName() string { return ConversationCollection }
