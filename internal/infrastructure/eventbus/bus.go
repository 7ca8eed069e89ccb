package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/pkg/safego"
)

// Event 事件接口
type Event interface {
	Type() string
	Timestamp() time.Time
	Payload() any
}

// BaseEvent 基础事件实现
type BaseEvent struct {
	EventType      string
	EventTimestamp time.Time
	EventPayload   any
}

// Type 返回事件类型
func (e *BaseEvent) Type() string {
	return e.EventType
}

// Timestamp 返回事件时间戳
func (e *BaseEvent) Timestamp() time.Time {
	return e.EventTimestamp
}

// Payload 返回事件载荷
func (e *BaseEvent) Payload() any {
	return e.EventPayload
}

// NewEvent 创建新事件
func NewEvent(eventType string, payload any) *BaseEvent {
	return &BaseEvent{
		EventType:      eventType,
		EventTimestamp: time.Now().UTC(),
		EventPayload:   payload,
	}
}

// Handler 事件处理函数
type Handler func(ctx context.Context, event Event)

// Bus 事件总线接口
type Bus interface {
	// Publish 发布事件 (never blocks the caller)
	Publish(ctx context.Context, event Event)
	// Subscribe 订阅事件; "*" receives every type
	Subscribe(eventType string, handler Handler)
	// Close 关闭事件总线, draining queued events
	Close()
}

// InMemoryBus 内存事件总线
type InMemoryBus struct {
	mu        sync.RWMutex
	handlers  map[string][]Handler
	eventChan chan eventWrapper
	closed    bool
	logger    *zap.Logger
	wg        sync.WaitGroup
}

type eventWrapper struct {
	ctx   context.Context
	event Event
}

// NewInMemoryBus 创建内存事件总线
func NewInMemoryBus(logger *zap.Logger, bufferSize int) *InMemoryBus {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	bus := &InMemoryBus{
		handlers:  make(map[string][]Handler),
		eventChan: make(chan eventWrapper, bufferSize),
		logger:    logger.With(zap.String("component", "eventbus")),
	}

	// 启动事件分发协程
	bus.wg.Add(1)
	go bus.dispatch()

	return bus
}

// Publish 发布事件
// Handlers run after the publishing request may have finished, so they get
// a context that keeps its values but not its cancellation.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	select {
	case b.eventChan <- eventWrapper{ctx: context.WithoutCancel(ctx), event: event}:
		b.logger.Debug("Event published", zap.String("type", event.Type()))
	default:
		b.logger.Warn("Event buffer full, dropping event", zap.String("type", event.Type()))
	}
}

// Subscribe 订阅事件
func (b *InMemoryBus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.logger.Debug("Handler subscribed", zap.String("event_type", eventType))
}

// Close 关闭事件总线
func (b *InMemoryBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.eventChan)
	b.mu.Unlock()

	b.wg.Wait()
	b.logger.Info("Event bus closed")
}

// dispatch 事件分发循环
func (b *InMemoryBus) dispatch() {
	defer b.wg.Done()

	for wrapper := range b.eventChan {
		b.dispatchEvent(wrapper.ctx, wrapper.event)
	}
}

// dispatchEvent 分发单个事件
func (b *InMemoryBus) dispatchEvent(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[event.Type()])+len(b.handlers["*"]))
	handlers = append(handlers, b.handlers[event.Type()]...)
	handlers = append(handlers, b.handlers["*"]...)
	b.mu.RUnlock()

	// 并行执行处理器
	var wg sync.WaitGroup
	for _, handler := range handlers {
		wg.Add(1)
		go func(h Handler) {
			defer wg.Done()
			defer safego.Recover(b.logger, "eventbus-handler", zap.String("event_type", event.Type()))
			h(ctx, event)
		}(handler)
	}
	wg.Wait()
}

// EventTypeIssueReported fires after an issue notification was stored.
const EventTypeIssueReported = "issue_reported"

// IssueReportedPayload 问题报告事件载荷
type IssueReportedPayload struct {
	HostID         string    `json:"host_id"`
	PropertyID     string    `json:"property_id"`
	PropertyName   string    `json:"property_name"`
	IssueID        string    `json:"issue_id"`
	Category       string    `json:"category"`
	NotificationID string    `json:"notification_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Link           string    `json:"link"`
	CreatedAt      time.Time `json:"created_at"`
}
