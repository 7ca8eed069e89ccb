package service

import (
	"time"

	"github.com/oulia/oulia/gateway/internal/domain/valueobject"
)

// EngineConfig holds the conversation engine defaults. It is built once from
// configuration and handed to the use cases at construction.
type EngineConfig struct {
	HistoryLimit         int
	DefaultLanguage      string
	DefaultGuestName     string
	DefaultTone          valueobject.Tone
	DefaultPersonality   string
	DefaultIssueCategory string
	LLMTimeout           time.Duration
}

// DefaultEngineConfig 返回默认引擎配置
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		HistoryLimit:         20,
		DefaultLanguage:      "fr",
		DefaultGuestName:     "Guest",
		DefaultTone:          valueobject.ToneWelcoming,
		DefaultPersonality:   "Professional and caring",
		DefaultIssueCategory: "other",
		LLMTimeout:           60 * time.Second,
	}
}

// WithDefaults fills zero fields from DefaultEngineConfig.
func (c EngineConfig) WithDefaults() EngineConfig {
	def := DefaultEngineConfig()
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = def.HistoryLimit
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = def.DefaultLanguage
	}
	if c.DefaultGuestName == "" {
		c.DefaultGuestName = def.DefaultGuestName
	}
	if c.DefaultTone == "" {
		c.DefaultTone = def.DefaultTone
	}
	if c.DefaultPersonality == "" {
		c.DefaultPersonality = def.DefaultPersonality
	}
	if c.DefaultIssueCategory == "" {
		c.DefaultIssueCategory = def.DefaultIssueCategory
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = def.LLMTimeout
	}
	return c
}
