package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/domain/service"
	apperrors "github.com/oulia/oulia/gateway/pkg/errors"
)

// TranslateUseCase translates free text for guests.
type TranslateUseCase struct {
	model  service.LanguageModel
	cfg    service.EngineConfig
	logger *zap.Logger
}

func NewTranslateUseCase(model service.LanguageModel, cfg service.EngineConfig, logger *zap.Logger) *TranslateUseCase {
	return &TranslateUseCase{model: model, cfg: cfg.WithDefaults(), logger: logger}
}

// Execute returns text translated into targetLanguage.
func (uc *TranslateUseCase) Execute(ctx context.Context, text, targetLanguage string) (string, error) {
	text, targetLanguage = strings.TrimSpace(text), strings.TrimSpace(targetLanguage)
	if text == "" {
		return "", apperrors.NewInvalidInputError("text is required")
	}
	if targetLanguage == "" {
		return "", apperrors.NewInvalidInputError("target language is required")
	}

	ctx, cancel := context.WithTimeout(ctx, uc.cfg.LLMTimeout)
	defer cancel()

	prompt := fmt.Sprintf("Translate the following text into %s. Reply ONLY with the translation, no explanations:\n\n%s", targetLanguage, text)
	out, err := uc.model.GenerateText(ctx, prompt)
	if err == nil && strings.TrimSpace(out) == "" {
		err = fmt.Errorf("empty translation")
	}
	if err != nil {
		uc.logger.Error("Translation failed", zap.String("target", targetLanguage), zap.Error(err))
		return "", apperrors.NewTranslationError("translation failed", err)
	}
	return strings.TrimSpace(out), nil
}
