package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
	"github.com/oulia/oulia/gateway/internal/domain/repository"
	"github.com/oulia/oulia/gateway/internal/domain/valueobject"
	"github.com/oulia/oulia/gateway/internal/infrastructure/persistence/models"
)

// GormMessageRepository GORM 实现的消息仓储
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository 创建 GORM 消息仓储
func NewGormMessageRepository(db *gorm.DB) repository.MessageRepository {
	return &GormMessageRepository{db: db}
}

// Save 保存消息 (append-only)
func (r *GormMessageRepository) Save(ctx context.Context, message *entity.Message) error {
	model := r.toModel(message)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return storeError("message", err)
	}
	return nil
}

// FindByConversationID 返回完整历史
func (r *GormMessageRepository) FindByConversationID(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	var rows []models.MessageModel
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at asc, seq asc").
		Find(&rows).Error
	if err != nil {
		return nil, storeError("messages", err)
	}
	return r.toEntities(rows), nil
}

// FindRecent 返回最近 limit 条消息（从旧到新）
func (r *GormMessageRepository) FindRecent(ctx context.Context, conversationID string, limit int, excludeID string) ([]*entity.Message, error) {
	if limit <= 0 {
		return []*entity.Message{}, nil
	}
	q := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var rows []models.MessageModel
	if err := q.Order("created_at desc, seq desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, storeError("messages", err)
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return r.toEntities(rows), nil
}

// Count 统计会话中的消息数量
func (r *GormMessageRepository) Count(ctx context.Context, conversationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MessageModel{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	if err != nil {
		return 0, storeError("messages", err)
	}
	return count, nil
}

// 转换方法

func (r *GormMessageRepository) toModel(m *entity.Message) *models.MessageModel {
	return &models.MessageModel{
		ID:             m.ID(),
		ConversationID: m.ConversationID(),
		Role:           string(m.Role()),
		Content:        m.Content().Text(),
		ContentType:    string(m.Content().ContentType()),
		MediaRef:       m.Content().MediaRef(),
		CreatedAt:      m.CreatedAt(),
	}
}

func (r *GormMessageRepository) toEntities(rows []models.MessageModel) []*entity.Message {
	messages := make([]*entity.Message, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		content := valueobject.NewMessageContentWithMedia(row.Content, valueobject.ContentType(row.ContentType), row.MediaRef)
		messages = append(messages, entity.ReconstructMessage(
			row.ID,
			row.ConversationID,
			entity.Role(row.Role),
			content,
			row.CreatedAt,
		))
	}
	return messages
}

// GormConversationRepository GORM 实现的会话仓储
type GormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository 创建 GORM 会话仓储
func NewGormConversationRepository(db *gorm.DB) repository.ConversationRepository {
	return &GormConversationRepository{db: db}
}

func (r *GormConversationRepository) Save(ctx context.Context, c *entity.Conversation) error {
	model := &models.ConversationModel{
		ID:         c.ID(),
		PropertyID: c.PropertyID(),
		GuestName:  c.GuestName(),
		Language:   c.Language(),
		CreatedAt:  c.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return storeError("conversation", err)
	}
	return nil
}

func (r *GormConversationRepository) FindByID(ctx context.Context, id string) (*entity.Conversation, error) {
	var model models.ConversationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, storeError("conversation", err)
	}
	// Stored rows already have their defaults applied.
	guest := valueobject.NewGuest(model.GuestName, model.Language, model.GuestName, model.Language)
	return entity.ReconstructConversation(model.ID, model.PropertyID, guest, model.CreatedAt), nil
}

func (r *GormConversationRepository) CountByProperty(ctx context.Context, propertyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ConversationModel{}).
		Where("property_id = ?", propertyID).
		Count(&count).Error
	if err != nil {
		return 0, storeError("conversations", err)
	}
	return count, nil
}
