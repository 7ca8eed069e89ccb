package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
	"github.com/oulia/oulia/gateway/internal/domain/repository"
	"github.com/oulia/oulia/gateway/internal/infrastructure/persistence/models"
)

// GormHostRepository GORM 实现的房东仓储
type GormHostRepository struct {
	db *gorm.DB
}

// NewGormHostRepository 创建 GORM 房东仓储
func NewGormHostRepository(db *gorm.DB) repository.HostRepository {
	return &GormHostRepository{db: db}
}

func (r *GormHostRepository) Save(ctx context.Context, h *entity.Host) error {
	model := &models.HostModel{
		ID:           h.ID,
		Email:        h.Email,
		PasswordHash: h.PasswordHash,
		FirstName:    h.FirstName,
		LastName:     h.LastName,
		Phone:        h.Phone,
		CreatedAt:    h.CreatedAt,
		UpdatedAt:    h.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return storeError("host", err)
	}
	return nil
}

func (r *GormHostRepository) FindByID(ctx context.Context, id string) (*entity.Host, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormHostRepository) FindByEmail(ctx context.Context, email string) (*entity.Host, error) {
	return r.first(ctx, "email = ?", entity.NormalizeEmail(email))
}

func (r *GormHostRepository) first(ctx context.Context, query string, arg string) (*entity.Host, error) {
	var m models.HostModel
	if err := r.db.WithContext(ctx).First(&m, query, arg).Error; err != nil {
		return nil, storeError("host", err)
	}
	return &entity.Host{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Phone:        m.Phone,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}
