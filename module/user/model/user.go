package model

import "time"

const UserCollection = "users"

// User 用户主档。Friends 存好友ID列表（接受邀请时双向 $addToSet）。
// IsOnline 不落库：列表接口从 Redis 在线状态叠加。
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	FullName     string    `bson:"full_name" json:"full_name"`
	AvatarURL    string    `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Friends      []string  `bson:"friends" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`

	IsOnline bool `bson:"-" json:"is_online"`
}

func (*User) TableName() string { return UserCollection }
