package models

import "time"

// ConversationModel 数据库会话模型
type ConversationModel struct {
	ID         string `gorm:"primaryKey;size:64"`
	PropertyID string `gorm:"index;size:64;not null"`
	GuestName  string `gorm:"size:128;not null"`
	Language   string `gorm:"size:16;not null"`
	CreatedAt  time.Time
}

// TableName 指定表名
func (ConversationModel) TableName() string {
	return "conversations"
}

// MessageModel 数据库消息模型
// Seq is the insertion sequence and breaks created_at ties.
type MessageModel struct {
	Seq            int64     `gorm:"primaryKey;autoIncrement"`
	ID             string    `gorm:"uniqueIndex;size:64;not null"`
	ConversationID string    `gorm:"index:idx_messages_conv_created;size:64;not null"`
	Role           string    `gorm:"size:16;not null"` // user, assistant
	Content        string    `gorm:"type:text;not null"`
	ContentType    string    `gorm:"size:16;not null"` // text, image
	MediaRef       string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"index:idx_messages_conv_created"`
}

// TableName 指定表名
func (MessageModel) TableName() string {
	return "messages"
}
