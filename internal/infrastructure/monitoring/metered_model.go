package monitoring

import (
	"context"
	"time"

	"github.com/oulia/oulia/gateway/internal/domain/service"
)

// MeteredModel records every call to the wrapped LanguageModel.
type MeteredModel struct {
	inner   service.LanguageModel
	monitor *Monitor
}

var _ service.LanguageModel = (*MeteredModel)(nil)

// NewMeteredModel wraps inner.
func NewMeteredModel(inner service.LanguageModel, monitor *Monitor) *MeteredModel {
	return &MeteredModel{inner: inner, monitor: monitor}
}

func (m *MeteredModel) GenerateChatReply(ctx context.Context, systemContext string, history []service.ChatTurn, newMessage string) (string, error) {
	start := time.Now()
	out, err := m.inner.GenerateChatReply(ctx, systemContext, history, newMessage)
	m.monitor.RecordModelCall(time.Since(start), err)
	return out, err
}

func (m *MeteredModel) AnalyzeImage(ctx context.Context, mediaRef, instruction string) (string, error) {
	m.monitor.IncImageAnalysis()
	start := time.Now()
	out, err := m.inner.AnalyzeImage(ctx, mediaRef, instruction)
	m.monitor.RecordModelCall(time.Since(start), err)
	return out, err
}

func (m *MeteredModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.monitor.IncTranslation()
	start := time.Now()
	out, err := m.inner.GenerateText(ctx, prompt)
	m.monitor.RecordModelCall(time.Since(start), err)
	return out, err
}
