package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
	"github.com/oulia/oulia/gateway/internal/domain/repository"
	"github.com/oulia/oulia/gateway/internal/domain/service"
	"github.com/oulia/oulia/gateway/internal/domain/valueobject"
	apperrors "github.com/oulia/oulia/gateway/pkg/errors"
)

// ImageInstruction is sent with every guest photo.
const ImageInstruction = "Describe what you see and help the guest with their question."

// SubmitTurnInput is one guest message.
type SubmitTurnInput struct {
	ConversationID string
	Content        string
	ContentType    valueobject.ContentType
	MediaRef       string
}

// TurnResult holds both sides of a completed turn.
type TurnResult struct {
	UserMessage      *entity.Message
	AssistantMessage *entity.Message
}

// ChatTurnUseCase runs one guest turn: persist, analyze, assemble, generate.
type ChatTurnUseCase struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	properties    repository.PropertyRepository
	knowledge     repository.KnowledgeRepository
	model         service.LanguageModel
	prompts       *service.PromptBuilder
	locks         *service.TurnLocks
	cfg           service.EngineConfig
	newID         IDFunc
	logger        *zap.Logger
}

// NewChatTurnUseCase 创建对话轮次用例
func NewChatTurnUseCase(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	properties repository.PropertyRepository,
	knowledge repository.KnowledgeRepository,
	model service.LanguageModel,
	cfg service.EngineConfig,
	newID IDFunc,
	logger *zap.Logger,
) *ChatTurnUseCase {
	cfg = cfg.WithDefaults()
	return &ChatTurnUseCase{
		conversations: conversations,
		messages:      messages,
		properties:    properties,
		knowledge:     knowledge,
		model:         model,
		prompts:       service.NewPromptBuilder(cfg),
		locks:         service.NewTurnLocks(),
		cfg:           cfg,
		newID:         defaultID(newID),
		logger:        logger,
	}
}

// Execute runs a turn. Turns of one conversation never overlap. On a
// generation failure the guest message stays stored and the returned error
// carries a fallback reply in the guest's language.
func (uc *ChatTurnUseCase) Execute(ctx context.Context, in SubmitTurnInput) (*TurnResult, error) {
	conv, err := uc.conversations.FindByID(ctx, in.ConversationID)
	if err != nil {
		return nil, err
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = valueobject.ContentTypeText
	}
	content := valueobject.NewMessageContentWithMedia(strings.TrimSpace(in.Content), contentType, strings.TrimSpace(in.MediaRef))
	userMsg, err := entity.NewMessage(uc.newID(), conv.ID(), entity.RoleUser, content)
	if err != nil {
		return nil, invalid(err)
	}

	release, err := uc.locks.Acquire(ctx, conv.ID())
	if err != nil {
		return nil, apperrors.NewUpstreamGenerationError(service.FallbackReply(conv.Language()), err)
	}
	defer release()

	if err := uc.messages.Save(ctx, userMsg); err != nil {
		uc.logger.Error("Failed to save guest message", zap.Error(err))
		return nil, err
	}

	prompt := content.Text()
	if content.IsImage() {
		prompt = uc.describeImage(ctx, conv, content)
	}

	recent, err := uc.messages.FindRecent(ctx, conv.ID(), uc.cfg.HistoryLimit, userMsg.ID())
	if err != nil {
		return nil, err
	}
	systemContext, err := uc.systemContext(ctx, conv.PropertyID())
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, uc.cfg.LLMTimeout)
	defer cancel()

	start := time.Now()
	reply, err := uc.model.GenerateChatReply(genCtx, systemContext, toChatTurns(recent), prompt)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = fmt.Errorf("empty reply from language model")
	}
	if err != nil {
		uc.logger.Error("Chat generation failed",
			zap.String("conversation_id", conv.ID()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, apperrors.NewUpstreamGenerationError(service.FallbackReply(conv.Language()), err)
	}

	assistantMsg, err := entity.NewMessage(uc.newID(), conv.ID(), entity.RoleAssistant,
		valueobject.NewMessageContent(reply, valueobject.ContentTypeText))
	if err != nil {
		return nil, apperrors.NewInternalErrorWithCause("build assistant message", err)
	}
	if err := uc.messages.Save(ctx, assistantMsg); err != nil {
		uc.logger.Error("Failed to save assistant message", zap.Error(err))
		return nil, err
	}

	uc.logger.Info("Chat turn completed",
		zap.String("conversation_id", conv.ID()),
		zap.Int("history", len(recent)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &TurnResult{UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}

// describeImage builds the effective prompt for a photo turn. A failed
// analysis degrades to the guest's own text.
func (uc *ChatTurnUseCase) describeImage(ctx context.Context, conv *entity.Conversation, content valueobject.MessageContent) string {
	imgCtx, cancel := context.WithTimeout(ctx, uc.cfg.LLMTimeout)
	defer cancel()

	analysis, err := uc.model.AnalyzeImage(imgCtx, content.MediaRef(), ImageInstruction)
	if err != nil || strings.TrimSpace(analysis) == "" {
		uc.logger.Warn("Image analysis failed, continuing with text only",
			zap.String("conversation_id", conv.ID()),
			zap.Error(err),
		)
		return content.Text()
	}
	return fmt.Sprintf("[Analyzed image] %s\n\nGuest question: %s", strings.TrimSpace(analysis), content.Text())
}

func (uc *ChatTurnUseCase) systemContext(ctx context.Context, propertyID string) (string, error) {
	property, err := uc.properties.FindByID(ctx, propertyID)
	if err != nil {
		return "", err
	}
	items, err := uc.knowledge.ListItems(ctx, propertyID)
	if err != nil {
		return "", err
	}
	services, err := uc.knowledge.ListServices(ctx, propertyID)
	if err != nil {
		return "", err
	}
	steps, err := uc.knowledge.ListCheckInSteps(ctx, propertyID)
	if err != nil {
		return "", err
	}
	return uc.prompts.Build(service.PersonaInput{
		Property:     property,
		Knowledge:    items,
		Services:     services,
		CheckInSteps: steps,
	}), nil
}

func toChatTurns(msgs []*entity.Message) []service.ChatTurn {
	turns := make([]service.ChatTurn, 0, len(msgs))
	for _, m := range msgs {
		role := service.ChatRoleUser
		if m.IsFromAssistant() {
			role = service.ChatRoleModel
		}
		turns = append(turns, service.ChatTurn{Role: role, Text: m.Content().Text()})
	}
	return turns
}
