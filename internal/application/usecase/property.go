package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
	"github.com/oulia/oulia/gateway/internal/domain/repository"
	"github.com/oulia/oulia/gateway/internal/domain/service"
	apperrors "github.com/oulia/oulia/gateway/pkg/errors"
)

// QRCodeGenerator renders a link as an image data URL.
type QRCodeGenerator interface {
	DataURL(content string) (string, error)
}

// ServiceInput describes a new guest service.
type ServiceInput struct {
	Name        string
	Description string
	IsAvailable bool
	IsPaid      bool
	Price       float64
}

// PropertyUseCase is the host-facing property catalog. Every operation is
// scoped to the calling host: another host's property reads as not found.
type PropertyUseCase struct {
	properties    repository.PropertyRepository
	knowledge     repository.KnowledgeRepository
	conversations repository.ConversationRepository
	issues        repository.IssueRepository
	notifications repository.NotificationRepository
	qr            QRCodeGenerator
	frontendURL   string
	cfg           service.EngineConfig
	newID         IDFunc
	logger        *zap.Logger
}

// NewPropertyUseCase 创建房源用例
func NewPropertyUseCase(
	repos Repositories,
	qr QRCodeGenerator,
	frontendURL string,
	cfg service.EngineConfig,
	newID IDFunc,
	logger *zap.Logger,
) *PropertyUseCase {
	return &PropertyUseCase{
		properties:    repos.Properties,
		knowledge:     repos.Knowledge,
		conversations: repos.Conversations,
		issues:        repos.Issues,
		notifications: repos.Notifications,
		qr:            qr,
		frontendURL:   strings.TrimRight(frontendURL, "/"),
		cfg:           cfg.WithDefaults(),
		newID:         defaultID(newID),
		logger:        logger,
	}
}

// Repositories groups the stores PropertyUseCase reads.
type Repositories struct {
	Properties    repository.PropertyRepository
	Knowledge     repository.KnowledgeRepository
	Conversations repository.ConversationRepository
	Issues        repository.IssueRepository
	Notifications repository.NotificationRepository
}

// AccessLink is the guest entry URL of a property.
func (uc *PropertyUseCase) AccessLink(propertyID string) string {
	return fmt.Sprintf("%s/guest/%s", uc.frontendURL, propertyID)
}

// Create adds a property with its access link and QR code.
func (uc *PropertyUseCase) Create(ctx context.Context, hostID string, spec entity.PropertySpec) (*entity.Property, error) {
	id := uc.newID()
	link := uc.AccessLink(id)
	qr, err := uc.qr.DataURL(link)
	if err != nil {
		return nil, apperrors.NewInternalErrorWithCause("generate qr code", err)
	}

	p, err := entity.NewProperty(id, hostID, spec, uc.cfg.DefaultTone, link, qr)
	if err != nil {
		return nil, invalid(err)
	}
	if err := uc.properties.Save(ctx, p); err != nil {
		uc.logger.Error("Failed to save property", zap.Error(err))
		return nil, err
	}
	uc.logger.Info("Property created", zap.String("property_id", p.ID), zap.String("host_id", hostID))
	return p, nil
}

// List returns the host's properties, newest first, with counters.
func (uc *PropertyUseCase) List(ctx context.Context, hostID string) ([]*entity.PropertySummary, error) {
	props, err := uc.properties.FindByHost(ctx, hostID)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.PropertySummary, 0, len(props))
	for _, p := range props {
		convs, err := uc.conversations.CountByProperty(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		issues, err := uc.issues.CountByProperty(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		services, err := uc.knowledge.ListServices(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &entity.PropertySummary{
			Property:          p,
			ConversationCount: convs,
			IssueCount:        issues,
			ServiceCount:      int64(len(services)),
		})
	}
	return out, nil
}

// Get returns one property with its knowledge base.
func (uc *PropertyUseCase) Get(ctx context.Context, hostID, id string) (*entity.PropertyDetail, error) {
	p, err := uc.owned(ctx, hostID, id)
	if err != nil {
		return nil, err
	}
	d := &entity.PropertyDetail{Property: p}
	if d.KnowledgeItems, err = uc.knowledge.ListItems(ctx, id); err != nil {
		return nil, err
	}
	if d.Services, err = uc.knowledge.ListServices(ctx, id); err != nil {
		return nil, err
	}
	if d.CheckInSteps, err = uc.knowledge.ListCheckInSteps(ctx, id); err != nil {
		return nil, err
	}
	if d.ConversationCount, err = uc.conversations.CountByProperty(ctx, id); err != nil {
		return nil, err
	}
	if d.IssueCount, err = uc.issues.CountByProperty(ctx, id); err != nil {
		return nil, err
	}
	return d, nil
}

// Update applies a partial update.
func (uc *PropertyUseCase) Update(ctx context.Context, hostID, id string, patch entity.PropertyPatch) (*entity.Property, error) {
	p, err := uc.owned(ctx, hostID, id)
	if err != nil {
		return nil, err
	}
	if err := p.Apply(patch); err != nil {
		return nil, invalid(err)
	}
	if err := uc.properties.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a property and everything attached to it.
func (uc *PropertyUseCase) Delete(ctx context.Context, hostID, id string) error {
	if _, err := uc.owned(ctx, hostID, id); err != nil {
		return err
	}
	if err := uc.properties.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("Property deleted", zap.String("property_id", id), zap.String("host_id", hostID))
	return nil
}

// GetPublic returns a property for the guest landing page. Callers must
// project it; host and assistant settings are not for guests.
func (uc *PropertyUseCase) GetPublic(ctx context.Context, id string) (*entity.Property, error) {
	return uc.properties.FindByID(ctx, id)
}

func (uc *PropertyUseCase) AddKnowledgeItem(ctx context.Context, hostID, propertyID, title, content, category string) (*entity.KnowledgeItem, error) {
	if _, err := uc.owned(ctx, hostID, propertyID); err != nil {
		return nil, err
	}
	item, err := entity.NewKnowledgeItem(uc.newID(), propertyID, title, content, category)
	if err != nil {
		return nil, invalid(err)
	}
	if err := uc.knowledge.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *PropertyUseCase) DeleteKnowledgeItem(ctx context.Context, hostID, propertyID, itemID string) error {
	if _, err := uc.owned(ctx, hostID, propertyID); err != nil {
		return err
	}
	return uc.knowledge.DeleteItem(ctx, propertyID, itemID)
}

func (uc *PropertyUseCase) AddService(ctx context.Context, hostID, propertyID string, in ServiceInput) (*entity.Service, error) {
	if _, err := uc.owned(ctx, hostID, propertyID); err != nil {
		return nil, err
	}
	s, err := entity.NewService(uc.newID(), propertyID, in.Name, in.Description, in.IsAvailable, in.IsPaid, in.Price)
	if err != nil {
		return nil, invalid(err)
	}
	if err := uc.knowledge.SaveService(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *PropertyUseCase) UpdateService(ctx context.Context, hostID, propertyID, serviceID string, patch entity.ServicePatch) (*entity.Service, error) {
	if _, err := uc.owned(ctx, hostID, propertyID); err != nil {
		return nil, err
	}
	s, err := uc.knowledge.FindService(ctx, propertyID, serviceID)
	if err != nil {
		return nil, err
	}
	if err := s.Apply(patch); err != nil {
		return nil, invalid(err)
	}
	if err := uc.knowledge.UpdateService(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *PropertyUseCase) DeleteService(ctx context.Context, hostID, propertyID, serviceID string) error {
	if _, err := uc.owned(ctx, hostID, propertyID); err != nil {
		return err
	}
	return uc.knowledge.DeleteService(ctx, propertyID, serviceID)
}

func (uc *PropertyUseCase) AddCheckInStep(ctx context.Context, hostID, propertyID string, step int, title, description string) (*entity.CheckInStep, error) {
	if _, err := uc.owned(ctx, hostID, propertyID); err != nil {
		return nil, err
	}
	s, err := entity.NewCheckInStep(uc.newID(), propertyID, step, title, description)
	if err != nil {
		return nil, invalid(err)
	}
	if err := uc.knowledge.SaveCheckInStep(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *PropertyUseCase) DeleteCheckInStep(ctx context.Context, hostID, propertyID, stepID string) error {
	if _, err := uc.owned(ctx, hostID, propertyID); err != nil {
		return err
	}
	return uc.knowledge.DeleteCheckInStep(ctx, propertyID, stepID)
}

// ListIssues returns a property's issues, newest first.
func (uc *PropertyUseCase) ListIssues(ctx context.Context, hostID, propertyID string) ([]*entity.Issue, error) {
	if _, err := uc.owned(ctx, hostID, propertyID); err != nil {
		return nil, err
	}
	return uc.issues.FindByProperty(ctx, propertyID)
}

func (uc *PropertyUseCase) ListNotifications(ctx context.Context, hostID string) ([]*entity.Notification, error) {
	return uc.notifications.FindByHost(ctx, hostID)
}

func (uc *PropertyUseCase) MarkNotificationRead(ctx context.Context, hostID, id string) error {
	return uc.notifications.MarkRead(ctx, hostID, id)
}

func (uc *PropertyUseCase) owned(ctx context.Context, hostID, id string) (*entity.Property, error) {
	p, err := uc.properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.HostID != hostID {
		return nil, apperrors.NewNotFoundError("property not found")
	}
	return p, nil
}
