package repository

import (
	"context"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
)

// PropertyRepository 房源仓储接口
type PropertyRepository interface {
	Save(ctx context.Context, property *entity.Property) error
	Update(ctx context.Context, property *entity.Property) error
	FindByID(ctx context.Context, id string) (*entity.Property, error)
	// FindByHost lists a host's properties, newest first.
	FindByHost(ctx context.Context, hostID string) ([]*entity.Property, error)
	// Delete removes the property and everything that hangs off it.
	Delete(ctx context.Context, id string) error
}

// KnowledgeRepository stores the per-property knowledge base: facts,
// services and check-in steps.
type KnowledgeRepository interface {
	// Knowledge items come back in creation order, then id.
	SaveItem(ctx context.Context, item *entity.KnowledgeItem) error
	ListItems(ctx context.Context, propertyID string) ([]*entity.KnowledgeItem, error)
	DeleteItem(ctx context.Context, propertyID, itemID string) error

	SaveService(ctx context.Context, service *entity.Service) error
	UpdateService(ctx context.Context, service *entity.Service) error
	FindService(ctx context.Context, propertyID, serviceID string) (*entity.Service, error)
	ListServices(ctx context.Context, propertyID string) ([]*entity.Service, error)
	DeleteService(ctx context.Context, propertyID, serviceID string) error

	// Check-in steps come back ascending by step number.
	SaveCheckInStep(ctx context.Context, step *entity.CheckInStep) error
	ListCheckInSteps(ctx context.Context, propertyID string) ([]*entity.CheckInStep, error)
	DeleteCheckInStep(ctx context.Context, propertyID, stepID string) error
}
