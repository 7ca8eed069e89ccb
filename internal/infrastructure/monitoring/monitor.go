package monitoring

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/infrastructure/eventbus"
)

// Metrics 指标收集器
type Metrics struct {
	// HTTP 请求
	RequestsTotal  uint64
	RequestsFailed uint64 // status >= 500

	// 模型调用
	ModelCallsTotal    uint64
	ModelCallsFailed   uint64
	ModelLatencySum    uint64 // nanoseconds
	ModelLatencyCount  uint64
	ImageAnalysesTotal uint64
	TranslationsTotal  uint64

	// 业务事件
	IssuesReported uint64

	StartTime time.Time
}

// Monitor 性能监控器
type Monitor struct {
	metrics *Metrics
	logger  *zap.Logger

	// liveClients reports connected notification sockets, if wired.
	liveClients func() int
}

// NewMonitor 创建监控器
func NewMonitor(logger *zap.Logger) *Monitor {
	return &Monitor{
		metrics: &Metrics{StartTime: time.Now()},
		logger:  logger,
	}
}

// 计数方法
func (m *Monitor) IncRequest(status int) {
	atomic.AddUint64(&m.metrics.RequestsTotal, 1)
	if status >= 500 {
		atomic.AddUint64(&m.metrics.RequestsFailed, 1)
	}
}

func (m *Monitor) IncImageAnalysis() { atomic.AddUint64(&m.metrics.ImageAnalysesTotal, 1) }
func (m *Monitor) IncTranslation()   { atomic.AddUint64(&m.metrics.TranslationsTotal, 1) }

// RecordModelCall counts one language model round trip.
func (m *Monitor) RecordModelCall(d time.Duration, err error) {
	atomic.AddUint64(&m.metrics.ModelCallsTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.metrics.ModelCallsFailed, 1)
	}
	atomic.AddUint64(&m.metrics.ModelLatencySum, uint64(d.Nanoseconds()))
	atomic.AddUint64(&m.metrics.ModelLatencyCount, 1)
}

// SetLiveClients installs the gauge source for connected host sockets.
func (m *Monitor) SetLiveClients(fn func() int) {
	m.liveClients = fn
}

// HandleIssueReported is an eventbus handler.
func (m *Monitor) HandleIssueReported(_ context.Context, _ eventbus.Event) {
	atomic.AddUint64(&m.metrics.IssuesReported, 1)
}

// GetStats 获取当前统计
func (m *Monitor) GetStats() map[string]interface{} {
	avgLatency := float64(0)
	if count := atomic.LoadUint64(&m.metrics.ModelLatencyCount); count > 0 {
		avgLatency = float64(atomic.LoadUint64(&m.metrics.ModelLatencySum)) / float64(count) / 1e6 // ms
	}

	stats := map[string]interface{}{
		"uptime_seconds":     time.Since(m.metrics.StartTime).Seconds(),
		"requests_total":     atomic.LoadUint64(&m.metrics.RequestsTotal),
		"requests_failed":    atomic.LoadUint64(&m.metrics.RequestsFailed),
		"model_calls_total":  atomic.LoadUint64(&m.metrics.ModelCallsTotal),
		"model_calls_failed": atomic.LoadUint64(&m.metrics.ModelCallsFailed),
		"image_analyses":     atomic.LoadUint64(&m.metrics.ImageAnalysesTotal),
		"translations":       atomic.LoadUint64(&m.metrics.TranslationsTotal),
		"issues_reported":    atomic.LoadUint64(&m.metrics.IssuesReported),
		"model_latency_ms":   avgLatency,
	}
	if m.liveClients != nil {
		stats["live_clients"] = m.liveClients()
	}
	return stats
}
