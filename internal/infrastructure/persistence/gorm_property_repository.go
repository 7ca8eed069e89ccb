package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
	"github.com/oulia/oulia/gateway/internal/domain/repository"
	"github.com/oulia/oulia/gateway/internal/domain/valueobject"
	"github.com/oulia/oulia/gateway/internal/infrastructure/persistence/models"
	domainErrors "github.com/oulia/oulia/gateway/pkg/errors"
)

// GormPropertyRepository GORM 实现的房源仓储
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository 创建 GORM 房源仓储
func NewGormPropertyRepository(db *gorm.DB) repository.PropertyRepository {
	return &GormPropertyRepository{db: db}
}

func (r *GormPropertyRepository) Save(ctx context.Context, p *entity.Property) error {
	if err := r.db.WithContext(ctx).Create(propertyToModel(p)).Error; err != nil {
		return storeError("property", err)
	}
	return nil
}

func (r *GormPropertyRepository) Update(ctx context.Context, p *entity.Property) error {
	result := r.db.WithContext(ctx).
		Model(&models.PropertyModel{}).
		Where("id = ?", p.ID).
		Select("name", "description", "address", "city", "country", "equipment",
			"ai_prompt", "ai_tone", "ai_personality", "updated_at").
		Updates(propertyToModel(p))
	if result.Error != nil {
		return storeError("property", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.NewNotFoundError("property not found")
	}
	return nil
}

func (r *GormPropertyRepository) FindByID(ctx context.Context, id string) (*entity.Property, error) {
	var m models.PropertyModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, storeError("property", err)
	}
	return propertyToEntity(&m), nil
}

func (r *GormPropertyRepository) FindByHost(ctx context.Context, hostID string) ([]*entity.Property, error) {
	var rows []models.PropertyModel
	err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("created_at desc, id desc").
		Find(&rows).Error
	if err != nil {
		return nil, storeError("properties", err)
	}
	out := make([]*entity.Property, 0, len(rows))
	for i := range rows {
		out = append(out, propertyToEntity(&rows[i]))
	}
	return out, nil
}

// Delete 级联删除房源及其所有数据
func (r *GormPropertyRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conversations := tx.Model(&models.ConversationModel{}).Select("id").Where("property_id = ?", id)
		if err := tx.Where("conversation_id IN (?)", conversations).Delete(&models.MessageModel{}).Error; err != nil {
			return err
		}
		for _, model := range []any{
			&models.ConversationModel{},
			&models.IssueModel{},
			&models.KnowledgeItemModel{},
			&models.ServiceModel{},
			&models.CheckInStepModel{},
		} {
			if err := tx.Where("property_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", id).Delete(&models.PropertyModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return storeError("property", err)
}

func propertyToModel(p *entity.Property) *models.PropertyModel {
	return &models.PropertyModel{
		ID:            p.ID,
		HostID:        p.HostID,
		Name:          p.Name,
		Description:   p.Description,
		Address:       p.Address,
		City:          p.City,
		Country:       p.Country,
		Equipment:     p.EquipmentRaw,
		AIPrompt:      p.AIPrompt,
		AITone:        string(p.AITone),
		AIPersonality: p.AIPersonality,
		AccessLink:    p.AccessLink,
		QRCode:        p.QRCode,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func propertyToEntity(m *models.PropertyModel) *entity.Property {
	tone, _ := valueobject.ParseTone(m.AITone)
	return &entity.Property{
		ID:            m.ID,
		HostID:        m.HostID,
		Name:          m.Name,
		Description:   m.Description,
		Address:       m.Address,
		City:          m.City,
		Country:       m.Country,
		EquipmentRaw:  m.Equipment,
		AIPrompt:      m.AIPrompt,
		AITone:        tone,
		AIPersonality: m.AIPersonality,
		AccessLink:    m.AccessLink,
		QRCode:        m.QRCode,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// GormKnowledgeRepository GORM 实现的知识库仓储
type GormKnowledgeRepository struct {
	db *gorm.DB
}

// NewGormKnowledgeRepository 创建 GORM 知识库仓储
func NewGormKnowledgeRepository(db *gorm.DB) repository.KnowledgeRepository {
	return &GormKnowledgeRepository{db: db}
}

func (r *GormKnowledgeRepository) SaveItem(ctx context.Context, item *entity.KnowledgeItem) error {
	m := &models.KnowledgeItemModel{
		ID:         item.ID,
		PropertyID: item.PropertyID,
		Title:      item.Title,
		Content:    item.Content,
		Category:   item.Category,
		CreatedAt:  item.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return storeError("knowledge item", err)
	}
	return nil
}

func (r *GormKnowledgeRepository) ListItems(ctx context.Context, propertyID string) ([]*entity.KnowledgeItem, error) {
	var rows []models.KnowledgeItemModel
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, storeError("knowledge items", err)
	}
	out := make([]*entity.KnowledgeItem, 0, len(rows))
	for _, m := range rows {
		out = append(out, &entity.KnowledgeItem{
			ID:         m.ID,
			PropertyID: m.PropertyID,
			Title:      m.Title,
			Content:    m.Content,
			Category:   m.Category,
			CreatedAt:  m.CreatedAt,
		})
	}
	return out, nil
}

func (r *GormKnowledgeRepository) DeleteItem(ctx context.Context, propertyID, itemID string) error {
	return r.deleteScoped(ctx, &models.KnowledgeItemModel{}, "knowledge item", propertyID, itemID)
}

func (r *GormKnowledgeRepository) SaveService(ctx context.Context, s *entity.Service) error {
	if err := r.db.WithContext(ctx).Create(serviceToModel(s)).Error; err != nil {
		return storeError("service", err)
	}
	return nil
}

func (r *GormKnowledgeRepository) UpdateService(ctx context.Context, s *entity.Service) error {
	result := r.db.WithContext(ctx).
		Model(&models.ServiceModel{}).
		Where("id = ? AND property_id = ?", s.ID, s.PropertyID).
		Select("name", "description", "is_available", "is_paid", "price").
		Updates(serviceToModel(s))
	if result.Error != nil {
		return storeError("service", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.NewNotFoundError("service not found")
	}
	return nil
}

func (r *GormKnowledgeRepository) FindService(ctx context.Context, propertyID, serviceID string) (*entity.Service, error) {
	var m models.ServiceModel
	if err := r.db.WithContext(ctx).First(&m, "id = ? AND property_id = ?", serviceID, propertyID).Error; err != nil {
		return nil, storeError("service", err)
	}
	return serviceToEntity(&m), nil
}

func (r *GormKnowledgeRepository) ListServices(ctx context.Context, propertyID string) ([]*entity.Service, error) {
	var rows []models.ServiceModel
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, storeError("services", err)
	}
	out := make([]*entity.Service, 0, len(rows))
	for i := range rows {
		out = append(out, serviceToEntity(&rows[i]))
	}
	return out, nil
}

func (r *GormKnowledgeRepository) DeleteService(ctx context.Context, propertyID, serviceID string) error {
	return r.deleteScoped(ctx, &models.ServiceModel{}, "service", propertyID, serviceID)
}

func (r *GormKnowledgeRepository) SaveCheckInStep(ctx context.Context, s *entity.CheckInStep) error {
	m := &models.CheckInStepModel{
		ID:          s.ID,
		PropertyID:  s.PropertyID,
		Step:        s.Step,
		Title:       s.Title,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return storeError("check-in step", err)
	}
	return nil
}

func (r *GormKnowledgeRepository) ListCheckInSteps(ctx context.Context, propertyID string) ([]*entity.CheckInStep, error) {
	var rows []models.CheckInStepModel
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("step asc, created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, storeError("check-in steps", err)
	}
	out := make([]*entity.CheckInStep, 0, len(rows))
	for _, m := range rows {
		out = append(out, &entity.CheckInStep{
			ID:          m.ID,
			PropertyID:  m.PropertyID,
			Step:        m.Step,
			Title:       m.Title,
			Description: m.Description,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out, nil
}

func (r *GormKnowledgeRepository) DeleteCheckInStep(ctx context.Context, propertyID, stepID string) error {
	return r.deleteScoped(ctx, &models.CheckInStepModel{}, "check-in step", propertyID, stepID)
}

// deleteScoped removes one row that must belong to propertyID.
func (r *GormKnowledgeRepository) deleteScoped(ctx context.Context, model any, what, propertyID, id string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND property_id = ?", id, propertyID).Delete(model)
	if result.Error != nil {
		return storeError(what, result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.NewNotFoundError(what + " not found")
	}
	return nil
}

func serviceToModel(s *entity.Service) *models.ServiceModel {
	return &models.ServiceModel{
		ID:          s.ID,
		PropertyID:  s.PropertyID,
		Name:        s.Name,
		Description: s.Description,
		IsAvailable: s.IsAvailable,
		IsPaid:      s.IsPaid,
		Price:       s.Price,
		CreatedAt:   s.CreatedAt,
	}
}

func serviceToEntity(m *models.ServiceModel) *entity.Service {
	return &entity.Service{
		ID:          m.ID,
		PropertyID:  m.PropertyID,
		Name:        m.Name,
		Description: m.Description,
		IsAvailable: m.IsAvailable,
		IsPaid:      m.IsPaid,
		Price:       m.Price,
		CreatedAt:   m.CreatedAt,
	}
}
