package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
	"github.com/oulia/oulia/gateway/internal/domain/repository"
	"github.com/oulia/oulia/gateway/internal/infrastructure/persistence/models"
	domainErrors "github.com/oulia/oulia/gateway/pkg/errors"
)

// GormIssueRepository GORM 实现的问题仓储
type GormIssueRepository struct {
	db *gorm.DB
}

// NewGormIssueRepository 创建 GORM 问题仓储
func NewGormIssueRepository(db *gorm.DB) repository.IssueRepository {
	return &GormIssueRepository{db: db}
}

func (r *GormIssueRepository) Save(ctx context.Context, issue *entity.Issue) error {
	m := &models.IssueModel{
		ID:          issue.ID,
		PropertyID:  issue.PropertyID,
		Description: issue.Description,
		Category:    issue.Category,
		ImageRef:    issue.ImageRef,
		Status:      issue.Status,
		Priority:    issue.Priority,
		CreatedAt:   issue.CreatedAt,
	}
	if issue.ConversationID != "" {
		conversationID := issue.ConversationID
		m.ConversationID = &conversationID
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return storeError("issue", err)
	}
	return nil
}

func (r *GormIssueRepository) FindByProperty(ctx context.Context, propertyID string) ([]*entity.Issue, error) {
	var rows []models.IssueModel
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at desc, id desc").
		Find(&rows).Error
	if err != nil {
		return nil, storeError("issues", err)
	}
	out := make([]*entity.Issue, 0, len(rows))
	for _, m := range rows {
		issue := &entity.Issue{
			ID:          m.ID,
			PropertyID:  m.PropertyID,
			Description: m.Description,
			Category:    m.Category,
			ImageRef:    m.ImageRef,
			Status:      m.Status,
			Priority:    m.Priority,
			CreatedAt:   m.CreatedAt,
		}
		if m.ConversationID != nil {
			issue.ConversationID = *m.ConversationID
		}
		out = append(out, issue)
	}
	return out, nil
}

func (r *GormIssueRepository) CountByProperty(ctx context.Context, propertyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.IssueModel{}).Where("property_id = ?", propertyID).Count(&count).Error
	if err != nil {
		return 0, storeError("issues", err)
	}
	return count, nil
}

// GormNotificationRepository GORM 实现的通知仓储
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository 创建 GORM 通知仓储
func NewGormNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Save(ctx context.Context, n *entity.Notification) error {
	m := &models.NotificationModel{
		ID:        n.ID,
		HostID:    n.HostID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return storeError("notification", err)
	}
	return nil
}

func (r *GormNotificationRepository) FindByHost(ctx context.Context, hostID string) ([]*entity.Notification, error) {
	var rows []models.NotificationModel
	err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("created_at desc, id desc").
		Find(&rows).Error
	if err != nil {
		return nil, storeError("notifications", err)
	}
	out := make([]*entity.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, &entity.Notification{
			ID:        m.ID,
			HostID:    m.HostID,
			Title:     m.Title,
			Message:   m.Message,
			Type:      m.Type,
			Link:      m.Link,
			Read:      m.Read,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

func (r *GormNotificationRepository) MarkRead(ctx context.Context, hostID, id string) error {
	var m models.NotificationModel
	if err := r.db.WithContext(ctx).First(&m, "id = ? AND host_id = ?", id, hostID).Error; err != nil {
		return storeError("notification", err)
	}
	if m.Read {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&m).Update("read", true)
	if result.Error != nil {
		return storeError("notification", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.NewNotFoundError("notification not found")
	}
	return nil
}
