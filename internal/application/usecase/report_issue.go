package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
	"github.com/oulia/oulia/gateway/internal/domain/repository"
	"github.com/oulia/oulia/gateway/internal/domain/service"
	"github.com/oulia/oulia/gateway/internal/infrastructure/eventbus"
	apperrors "github.com/oulia/oulia/gateway/pkg/errors"
)

// ReportIssueInput is a guest problem report.
type ReportIssueInput struct {
	PropertyID     string
	ConversationID string
	Description    string
	Category       string
	ImageRef       string
}

// ReportIssueUseCase stores issues and notifies the owning host.
type ReportIssueUseCase struct {
	properties    repository.PropertyRepository
	hosts         repository.HostRepository
	issues        repository.IssueRepository
	notifications repository.NotificationRepository
	bus           eventbus.Bus
	cfg           service.EngineConfig
	newID         IDFunc
	logger        *zap.Logger
}

// NewReportIssueUseCase 创建问题上报用例. bus may be nil.
func NewReportIssueUseCase(
	properties repository.PropertyRepository,
	hosts repository.HostRepository,
	issues repository.IssueRepository,
	notifications repository.NotificationRepository,
	bus eventbus.Bus,
	cfg service.EngineConfig,
	newID IDFunc,
	logger *zap.Logger,
) *ReportIssueUseCase {
	return &ReportIssueUseCase{
		properties:    properties,
		hosts:         hosts,
		issues:        issues,
		notifications: notifications,
		bus:           bus,
		cfg:           cfg.WithDefaults(),
		newID:         defaultID(newID),
		logger:        logger,
	}
}

// Execute stores the issue then, best effort, one host notification. The
// issue is kept even when the host cannot be notified.
func (uc *ReportIssueUseCase) Execute(ctx context.Context, in ReportIssueInput) (*entity.Issue, error) {
	property, err := uc.properties.FindByID(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, apperrors.NewInvalidInputError(entity.ErrMissingDescription.Error())
	}

	issue, err := entity.NewIssue(uc.newID(), property.ID, in.ConversationID, in.Description, in.Category, in.ImageRef, uc.cfg.DefaultIssueCategory)
	if err != nil {
		return nil, invalid(err)
	}
	if err := uc.issues.Save(ctx, issue); err != nil {
		uc.logger.Error("Failed to save issue", zap.Error(err))
		return nil, err
	}

	log := uc.logger.With(zap.String("issue_id", issue.ID), zap.String("property_id", property.ID))
	log.Info("Issue reported", zap.String("category", issue.Category))

	host, err := uc.hosts.FindByID(ctx, property.HostID)
	if err != nil {
		log.Warn("Owning host not found, skipping notification", zap.Error(err))
		return issue, nil
	}

	n := entity.NewIssueNotification(uc.newID(), host.ID, property, issue)
	if err := uc.notifications.Save(ctx, n); err != nil {
		log.Warn("Failed to save notification", zap.Error(err))
		return issue, nil
	}

	if uc.bus != nil {
		uc.bus.Publish(ctx, eventbus.NewEvent(eventbus.EventTypeIssueReported, eventbus.IssueReportedPayload{
			HostID:         host.ID,
			PropertyID:     property.ID,
			PropertyName:   property.Name,
			IssueID:        issue.ID,
			Category:       issue.Category,
			NotificationID: n.ID,
			Title:          n.Title,
			Message:        n.Message,
			Link:           n.Link,
			CreatedAt:      n.CreatedAt,
		}))
	}
	return issue, nil
}
