package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/domain/service"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("language model circuit breaker is open")

// BreakerConfig 熔断器配置
type BreakerConfig struct {
	// MaxFailures is the number of consecutive outage errors that trip the
	// circuit. Default: 5
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before probing.
	// Default: 30s
	OpenTimeout time.Duration
}

// BreakerModel guards a LanguageModel with a circuit breaker. Only errors
// that say the provider is unhealthy count as failures: a rejected image or
// a cancelled turn never opens the circuit.
type BreakerModel struct {
	inner   service.LanguageModel
	breaker *gobreaker.CircuitBreaker
}

var _ service.LanguageModel = (*BreakerModel)(nil)

// NewBreakerModel wraps inner.
func NewBreakerModel(inner service.LanguageModel, cfg BreakerConfig, logger *zap.Logger) *BreakerModel {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var llmErr *service.LLMError
			if errors.As(err, &llmErr) {
				return !llmErr.CountsAsOutage()
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &BreakerModel{inner: inner, breaker: gobreaker.NewCircuitBreaker(settings)}
}

// State returns "closed", "open" or "half-open".
func (b *BreakerModel) State() string {
	return b.breaker.State().String()
}

func (b *BreakerModel) GenerateChatReply(ctx context.Context, systemContext string, history []service.ChatTurn, newMessage string) (string, error) {
	return b.execute(func() (string, error) {
		return b.inner.GenerateChatReply(ctx, systemContext, history, newMessage)
	})
}

func (b *BreakerModel) AnalyzeImage(ctx context.Context, mediaRef, instruction string) (string, error) {
	return b.execute(func() (string, error) {
		return b.inner.AnalyzeImage(ctx, mediaRef, instruction)
	})
}

func (b *BreakerModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	return b.execute(func() (string, error) {
		return b.inner.GenerateText(ctx, prompt)
	})
}

func (b *BreakerModel) execute(fn func() (string, error)) (string, error) {
	out, err := b.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &service.LLMError{Kind: service.ErrKindTransient, Message: "generation temporarily unavailable", Cause: ErrCircuitOpen}
		}
		return "", err
	}
	return out.(string), nil
}
