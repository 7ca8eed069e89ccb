package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/application/usecase"
	"github.com/oulia/oulia/gateway/internal/domain/entity"
	"github.com/oulia/oulia/gateway/internal/domain/service"
	"github.com/oulia/oulia/gateway/internal/infrastructure/eventbus"
	"github.com/oulia/oulia/gateway/internal/infrastructure/persistence"
)

// fakeModel records every call and answers from fixed values.
type fakeModel struct {
	mu sync.Mutex

	reply    string
	replyErr error
	analysis string
	imageErr error
	text     string
	textErr  error
	delay    time.Duration

	systemContexts []string
	histories      [][]service.ChatTurn
	prompts        []string
	textPrompts    []string

	active    int32
	maxActive int32
}

func (m *fakeModel) GenerateChatReply(ctx context.Context, systemContext string, history []service.ChatTurn, newMessage string) (string, error) {
	n := atomic.AddInt32(&m.active, 1)
	defer atomic.AddInt32(&m.active, -1)
	for {
		old := atomic.LoadInt32(&m.maxActive)
		if n <= old || atomic.CompareAndSwapInt32(&m.maxActive, old, n) {
			break
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.systemContexts = append(m.systemContexts, systemContext)
	m.histories = append(m.histories, history)
	m.prompts = append(m.prompts, newMessage)
	if m.replyErr != nil {
		return "", m.replyErr
	}
	if m.reply == "" {
		return "reply to " + newMessage, nil
	}
	return m.reply, nil
}

func (m *fakeModel) AnalyzeImage(ctx context.Context, mediaRef, instruction string) (string, error) {
	return m.analysis, m.imageErr
}

func (m *fakeModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textPrompts = append(m.textPrompts, prompt)
	return m.text, m.textErr
}

type harness struct {
	repos         persistence.Repositories
	model         *fakeModel
	bus           *eventbus.InMemoryBus
	conversations *usecase.ConversationUseCase
	turns         *usecase.ChatTurnUseCase
	translate     *usecase.TranslateUseCase
	issues        *usecase.ReportIssueUseCase
	properties    *usecase.PropertyUseCase
}

type stubQR struct{}

func (stubQR) DataURL(content string) (string, error) { return "data:image/png;base64,QR:" + content, nil }

func sequentialIDs() usecase.IDFunc {
	var n int64
	return func() string { return fmt.Sprintf("id-%03d", atomic.AddInt64(&n, 1)) }
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	repos := persistence.NewMemoryRepositories()
	model := &fakeModel{}
	bus := eventbus.NewInMemoryBus(zap.NewNop(), 16)
	t.Cleanup(bus.Close)

	cfg := service.DefaultEngineConfig()
	ids := sequentialIDs()
	logger := zap.NewNop()

	return &harness{
		repos: repos,
		model: model,
		bus:   bus,
		conversations: usecase.NewConversationUseCase(
			repos.Properties, repos.Conversations, repos.Messages, cfg, ids, logger),
		turns: usecase.NewChatTurnUseCase(
			repos.Conversations, repos.Messages, repos.Properties, repos.Knowledge, model, cfg, ids, logger),
		translate: usecase.NewTranslateUseCase(model, cfg, logger),
		issues: usecase.NewReportIssueUseCase(
			repos.Properties, repos.Hosts, repos.Issues, repos.Notifications, bus, cfg, ids, logger),
		properties: usecase.NewPropertyUseCase(usecase.Repositories{
			Properties:    repos.Properties,
			Knowledge:     repos.Knowledge,
			Conversations: repos.Conversations,
			Issues:        repos.Issues,
			Notifications: repos.Notifications,
		}, stubQR{}, "http://front.test/", cfg, ids, logger),
	}
}

func (h *harness) host(t *testing.T, id string) *entity.Host {
	t.Helper()
	host, err := entity.NewHost(id, id+"@example.com", "hash", "Ada", "Host", "")
	require.NoError(t, err)
	require.NoError(t, h.repos.Hosts.Save(context.Background(), host))
	return host
}

func (h *harness) property(t *testing.T, hostID, name string) *entity.Property {
	t.Helper()
	p, err := h.properties.Create(context.Background(), hostID, entity.PropertySpec{
		Name:    name,
		Address: "1 rue de la Paix",
		City:    "Paris",
		Country: "France",
	})
	require.NoError(t, err)
	return p
}
