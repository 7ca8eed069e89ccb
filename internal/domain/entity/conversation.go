package entity

import (
	"time"

	"github.com/oulia/oulia/gateway/internal/domain/valueobject"
)

// Conversation 会话实体
// A guest session scoped to one property. There is no close state; a
// conversation simply stops receiving turns.
type Conversation struct {
	id         string
	propertyID string
	guest      valueobject.Guest
	createdAt  time.Time
}

// NewConversation 创建新会话（工厂方法）
func NewConversation(id, propertyID string, guest valueobject.Guest) (*Conversation, error) {
	if id == "" {
		return nil, ErrInvalidConversationID
	}
	if propertyID == "" {
		return nil, ErrInvalidPropertyID
	}
	return &Conversation{
		id:         id,
		propertyID: propertyID,
		guest:      guest,
		createdAt:  time.Now().UTC(),
	}, nil
}

// ReconstructConversation 重建会话（用于从持久化层恢复）
func ReconstructConversation(id, propertyID string, guest valueobject.Guest, createdAt time.Time) *Conversation {
	return &Conversation{
		id:         id,
		propertyID: propertyID,
		guest:      guest,
		createdAt:  createdAt,
	}
}

func (c *Conversation) ID() string               { return c.id }
func (c *Conversation) PropertyID() string       { return c.propertyID }
func (c *Conversation) Guest() valueobject.Guest { return c.guest }
func (c *Conversation) GuestName() string        { return c.guest.Name() }
func (c *Conversation) Language() string         { return c.guest.Language() }
func (c *Conversation) CreatedAt() time.Time     { return c.createdAt }
