package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
	"github.com/oulia/oulia/gateway/internal/domain/repository"
	"github.com/oulia/oulia/gateway/internal/domain/service"
	"github.com/oulia/oulia/gateway/internal/domain/valueobject"
)

// ConversationUseCase opens guest conversations and reads their history.
type ConversationUseCase struct {
	properties    repository.PropertyRepository
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	cfg           service.EngineConfig
	newID         IDFunc
	logger        *zap.Logger
}

// NewConversationUseCase 创建会话用例
func NewConversationUseCase(
	properties repository.PropertyRepository,
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	cfg service.EngineConfig,
	newID IDFunc,
	logger *zap.Logger,
) *ConversationUseCase {
	return &ConversationUseCase{
		properties:    properties,
		conversations: conversations,
		messages:      messages,
		cfg:           cfg.WithDefaults(),
		newID:         defaultID(newID),
		logger:        logger,
	}
}

// Start opens a fresh conversation on a property. Blank guest name and
// language fall back to the engine defaults.
func (uc *ConversationUseCase) Start(ctx context.Context, propertyID, guestName, language string) (*entity.Conversation, error) {
	property, err := uc.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	guest := valueobject.NewGuest(guestName, language, uc.cfg.DefaultGuestName, uc.cfg.DefaultLanguage)
	conv, err := entity.NewConversation(uc.newID(), property.ID, guest)
	if err != nil {
		return nil, invalid(err)
	}
	if err := uc.conversations.Save(ctx, conv); err != nil {
		uc.logger.Error("Failed to save conversation", zap.Error(err))
		return nil, err
	}

	uc.logger.Info("Conversation started",
		zap.String("conversation_id", conv.ID()),
		zap.String("property_id", property.ID),
		zap.String("language", conv.Language()),
	)
	return conv, nil
}

// History returns every message of a conversation, oldest first.
func (uc *ConversationUseCase) History(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	if _, err := uc.conversations.FindByID(ctx, conversationID); err != nil {
		return nil, err
	}
	return uc.messages.FindByConversationID(ctx, conversationID)
}
