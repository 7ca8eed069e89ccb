package entity

import (
	"strings"
	"time"

	"github.com/oulia/oulia/gateway/internal/domain/valueobject"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message 消息实体
// Messages are append-only: there is no setter after construction.
type Message struct {
	id             string
	conversationID string
	role           Role
	content        valueobject.MessageContent
	createdAt      time.Time
}

// NewMessage 创建新消息（工厂方法）
func NewMessage(id, conversationID string, role Role, content valueobject.MessageContent) (*Message, error) {
	if id == "" {
		return nil, ErrInvalidMessageID
	}
	if conversationID == "" {
		return nil, ErrInvalidConversationID
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if content.IsImage() {
		if !content.HasMedia() {
			return nil, ErrMissingMedia
		}
	} else if strings.TrimSpace(content.Text()) == "" {
		return nil, ErrEmptyContent
	}

	return &Message{
		id:             id,
		conversationID: conversationID,
		role:           role,
		content:        content,
		createdAt:      time.Now().UTC(),
	}, nil
}

// ReconstructMessage 重建消息（用于从持久化层恢复）
func ReconstructMessage(id, conversationID string, role Role, content valueobject.MessageContent, createdAt time.Time) *Message {
	return &Message{
		id:             id,
		conversationID: conversationID,
		role:           role,
		content:        content,
		createdAt:      createdAt,
	}
}

// ID 返回消息ID
func (m *Message) ID() string {
	return m.id
}

// ConversationID 返回会话ID
func (m *Message) ConversationID() string {
	return m.conversationID
}

// Role 返回消息角色
func (m *Message) Role() Role {
	return m.role
}

// Content 返回消息内容
func (m *Message) Content() valueobject.MessageContent {
	return m.content
}

// CreatedAt 返回创建时间
func (m *Message) CreatedAt() time.Time {
	return m.createdAt
}

// IsFromUser 判断是否来自访客
func (m *Message) IsFromUser() bool {
	return m.role == RoleUser
}

// IsFromAssistant 判断是否来自助手
func (m *Message) IsFromAssistant() bool {
	return m.role == RoleAssistant
}
