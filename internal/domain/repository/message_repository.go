package repository

import (
	"context"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
)

// MessageRepository 消息仓储接口
// Implementations return messages ordered by creation time, ties broken by
// insertion sequence.
type MessageRepository interface {
	// Save 保存消息
	Save(ctx context.Context, message *entity.Message) error

	// FindByConversationID 返回会话的完整历史（从旧到新）
	FindByConversationID(ctx context.Context, conversationID string) ([]*entity.Message, error)

	// FindRecent returns up to limit of the newest messages of a
	// conversation, oldest first, skipping excludeID.
	FindRecent(ctx context.Context, conversationID string, limit int, excludeID string) ([]*entity.Message, error)

	// Count 统计会话中的消息数量
	Count(ctx context.Context, conversationID string) (int64, error)
}

// ConversationRepository 会话仓储接口
type ConversationRepository interface {
	Save(ctx context.Context, conversation *entity.Conversation) error
	FindByID(ctx context.Context, id string) (*entity.Conversation, error)
	CountByProperty(ctx context.Context, propertyID string) (int64, error)
}
