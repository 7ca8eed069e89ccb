package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oulia/oulia/gateway/internal/application/usecase"
	"github.com/oulia/oulia/gateway/internal/domain/entity"
	"github.com/oulia/oulia/gateway/internal/domain/service"
	"github.com/oulia/oulia/gateway/internal/domain/valueobject"
	apperrors "github.com/oulia/oulia/gateway/pkg/errors"
)

func TestStartConversation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.host(t, "host-1")
	p := h.property(t, "host-1", "Loft A")

	conv, err := h.conversations.Start(ctx, p.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Guest", conv.GuestName())
	assert.Equal(t, "fr", conv.Language())

	other, err := h.conversations.Start(ctx, p.ID, "Marie", "EN")
	require.NoError(t, err)
	assert.NotEqual(t, conv.ID(), other.ID())
	assert.Equal(t, "en", other.Language())

	_, err = h.conversations.Start(ctx, "missing", "", "")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = h.conversations.History(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestChatTurn_LoftAWiFi(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.host(t, "host-1")
	p := h.property(t, "host-1", "Loft A")
	_, err := h.properties.AddKnowledgeItem(ctx, "host-1", p.ID, "WiFi", "Network LoftA, password 1234", "Access")
	require.NoError(t, err)
	_, err = h.properties.AddService(ctx, "host-1", p.ID, usecase.ServiceInput{
		Name:        "Late checkout",
		Description: "Leave at 2pm",
		IsAvailable: true,
		IsPaid:      true,
		Price:       20,
	})
	require.NoError(t, err)

	conv, err := h.conversations.Start(ctx, p.ID, "", "en")
	require.NoError(t, err)

	res, err := h.turns.Execute(ctx, usecase.SubmitTurnInput{ConversationID: conv.ID(), Content: "What's the WiFi password?"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, res.UserMessage.Role())
	assert.Equal(t, entity.RoleAssistant, res.AssistantMessage.Role())

	require.Len(t, h.model.systemContexts, 1)
	assert.Contains(t, h.model.systemContexts[0], "LoftA")
	assert.Contains(t, h.model.systemContexts[0], "1234")
	assert.Contains(t, h.model.systemContexts[0], "Late checkout (20 €)")
	assert.Empty(t, h.model.histories[0], "the current message must not be part of history")
	assert.Equal(t, "What's the WiFi password?", h.model.prompts[0])

	history, err := h.conversations.History(ctx, conv.ID())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, res.UserMessage.ID(), history[0].ID())
	assert.Equal(t, res.AssistantMessage.ID(), history[1].ID())
}

func TestChatTurn_CatalogEditsApplyOnNextTurn(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.host(t, "host-1")
	p := h.property(t, "host-1", "Loft A")
	wifi, err := h.properties.AddKnowledgeItem(ctx, "host-1", p.ID, "WiFi", "Network LoftA, password 1234", "Access")
	require.NoError(t, err)

	conv, err := h.conversations.Start(ctx, p.ID, "", "en")
	require.NoError(t, err)
	turn := usecase.SubmitTurnInput{ConversationID: conv.ID(), Content: "Anything new?"}

	_, err = h.turns.Execute(ctx, turn)
	require.NoError(t, err)

	require.NoError(t, h.properties.DeleteKnowledgeItem(ctx, "host-1", p.ID, wifi.ID))
	_, err = h.properties.AddKnowledgeItem(ctx, "host-1", p.ID, "Parking", "Spot 12 in the basement", "Access")
	require.NoError(t, err)
	_, err = h.properties.AddService(ctx, "host-1", p.ID, usecase.ServiceInput{Name: "Breakfast", IsAvailable: true})
	require.NoError(t, err)

	_, err = h.turns.Execute(ctx, turn)
	require.NoError(t, err)

	require.Len(t, h.model.systemContexts, 2)
	assert.Contains(t, h.model.systemContexts[0], "1234")
	assert.NotContains(t, h.model.systemContexts[0], "Spot 12")
	assert.NotContains(t, h.model.systemContexts[1], "1234")
	assert.Contains(t, h.model.systemContexts[1], "Spot 12")
	assert.Contains(t, h.model.systemContexts[1], "Breakfast (Included)")
}

func TestChatTurn_HistoryIsBoundedAndOrdered(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.host(t, "host-1")
	p := h.property(t, "host-1", "Loft A")
	conv, err := h.conversations.Start(ctx, p.ID, "", "")
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		_, err := h.turns.Execute(ctx, usecase.SubmitTurnInput{ConversationID: conv.ID(), Content: "q" + string(rune('a'+i))})
		require.NoError(t, err)
	}

	last := h.model.histories[len(h.model.histories)-1]
	require.Len(t, last, 20)
	assert.Equal(t, service.ChatRoleUser, last[0].Role)
	assert.Equal(t, "qb", last[0].Text)
	assert.Equal(t, service.ChatRoleModel, last[19].Role)
	assert.Equal(t, "reply to qk", last[19].Text)
}

func TestChatTurn_GatewayFailureKeepsGuestMessage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.host(t, "host-1")
	p := h.property(t, "host-1", "Loft A")
	conv, err := h.conversations.Start(ctx, p.ID, "", "de")
	require.NoError(t, err)

	cause := errors.New("quota exceeded")
	h.model.replyErr = cause

	_, err = h.turns.Execute(ctx, usecase.SubmitTurnInput{ConversationID: conv.ID(), Content: "Hallo"})
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstreamGeneration(err))
	assert.Equal(t, service.FallbackReply("de"), apperrors.MessageOf(err))
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, apperrors.MessageOf(err), "quota")

	history, err := h.conversations.History(ctx, conv.ID())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entity.RoleUser, history[0].Role())
}

func TestChatTurn_ImageAnalysis(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.host(t, "host-1")
	p := h.property(t, "host-1", "Loft A")
	conv, err := h.conversations.Start(ctx, p.ID, "", "")
	require.NoError(t, err)

	h.model.analysis = "a leaking faucet"
	in := usecase.SubmitTurnInput{
		ConversationID: conv.ID(),
		Content:        "What should I do?",
		ContentType:    valueobject.ContentTypeImage,
		MediaRef:       "data:image/jpeg;base64,AAAA",
	}
	res, err := h.turns.Execute(ctx, in)
	require.NoError(t, err)

	prompt := h.model.prompts[0]
	assert.Equal(t, "[Analyzed image] a leaking faucet\n\nGuest question: What should I do?", prompt)
	assert.True(t, res.UserMessage.Content().IsImage())
	assert.Equal(t, "What should I do?", res.UserMessage.Content().Text(), "stored message keeps the guest's own text")

	h.model.imageErr = errors.New("vision down")
	_, err = h.turns.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "What should I do?", h.model.prompts[1])
}

func TestChatTurn_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.host(t, "host-1")
	p := h.property(t, "host-1", "Loft A")
	conv, err := h.conversations.Start(ctx, p.ID, "", "")
	require.NoError(t, err)

	_, err = h.turns.Execute(ctx, usecase.SubmitTurnInput{ConversationID: "missing", Content: "hi"})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = h.turns.Execute(ctx, usecase.SubmitTurnInput{ConversationID: conv.ID(), Content: "   "})
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = h.turns.Execute(ctx, usecase.SubmitTurnInput{ConversationID: conv.ID(), ContentType: valueobject.ContentTypeImage})
	assert.True(t, apperrors.IsInvalidInput(err))

	n, err := h.repos.Messages.Count(ctx, conv.ID())
	require.NoError(t, err)
	assert.Zero(t, n, "rejected turns must not persist anything")
}

func TestChatTurn_ConcurrentTurnsAreSerialized(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.host(t, "host-1")
	p := h.property(t, "host-1", "Loft A")
	conv, err := h.conversations.Start(ctx, p.ID, "", "")
	require.NoError(t, err)
	h.model.delay = 5 * time.Millisecond

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.turns.Execute(ctx, usecase.SubmitTurnInput{ConversationID: conv.ID(), Content: strings.Repeat("x", i+1)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, h.model.maxActive)

	history, err := h.conversations.History(ctx, conv.ID())
	require.NoError(t, err)
	require.Len(t, history, 2*n)
	for i := 0; i < len(history); i += 2 {
		require.Equal(t, entity.RoleUser, history[i].Role())
		require.Equal(t, entity.RoleAssistant, history[i+1].Role())
		assert.Equal(t, "reply to "+history[i].Content().Text(), history[i+1].Content().Text())
	}
}

func TestTranslate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.model.text = "  Hello  "
	out, err := h.translate.Execute(ctx, "Bonjour", "English")
	require.NoError(t, err)
	assert.Equal(t, "Hello", out)
	assert.Equal(t, "Translate the following text into English. Reply ONLY with the translation, no explanations:\n\nBonjour", h.model.textPrompts[0])

	_, err = h.translate.Execute(ctx, "", "English")
	assert.True(t, apperrors.IsInvalidInput(err))
	_, err = h.translate.Execute(ctx, "Bonjour", " ")
	assert.True(t, apperrors.IsInvalidInput(err))

	h.model.textErr = errors.New("boom")
	_, err = h.translate.Execute(ctx, "Bonjour", "English")
	assert.True(t, apperrors.IsTranslation(err))
}
