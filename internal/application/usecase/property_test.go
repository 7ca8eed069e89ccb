package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oulia/oulia/gateway/internal/application/usecase"
	"github.com/oulia/oulia/gateway/internal/domain/entity"
	"github.com/oulia/oulia/gateway/internal/domain/valueobject"
	apperrors "github.com/oulia/oulia/gateway/pkg/errors"
)

func TestPropertyCreate_DerivesLinkAndQR(t *testing.T) {
	h := newHarness(t)
	p := h.property(t, "host-1", "Loft A")

	assert.Equal(t, "http://front.test/guest/"+p.ID, p.AccessLink)
	assert.True(t, strings.HasSuffix(p.QRCode, p.AccessLink))
	assert.Equal(t, valueobject.ToneWelcoming, p.AITone)

	_, err := h.properties.Create(context.Background(), "host-1", entity.PropertySpec{Name: "No address"})
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestProperty_HostScoping(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.property(t, "host-1", "Loft A")

	_, err := h.properties.Get(ctx, "host-2", p.ID)
	assert.True(t, apperrors.IsNotFound(err))

	name := "Stolen"
	_, err = h.properties.Update(ctx, "host-2", p.ID, entity.PropertyPatch{Name: &name})
	assert.True(t, apperrors.IsNotFound(err))

	assert.True(t, apperrors.IsNotFound(h.properties.Delete(ctx, "host-2", p.ID)))

	_, err = h.properties.AddKnowledgeItem(ctx, "host-2", p.ID, "t", "c", "")
	assert.True(t, apperrors.IsNotFound(err))

	list, err := h.properties.List(ctx, "host-2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProperty_DetailAndCounts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.host(t, "host-1")
	p := h.property(t, "host-1", "Loft A")

	_, err := h.properties.AddKnowledgeItem(ctx, "host-1", p.ID, "WiFi", "LoftA / 1234", "Access")
	require.NoError(t, err)
	_, err = h.properties.AddService(ctx, "host-1", p.ID, usecase.ServiceInput{Name: "Breakfast", IsAvailable: true, IsPaid: true, Price: 12.5})
	require.NoError(t, err)
	_, err = h.properties.AddCheckInStep(ctx, "host-1", p.ID, 2, "Open the door", "")
	require.NoError(t, err)
	_, err = h.properties.AddCheckInStep(ctx, "host-1", p.ID, 1, "Get the key", "Lockbox 42")
	require.NoError(t, err)
	_, err = h.conversations.Start(ctx, p.ID, "", "")
	require.NoError(t, err)
	_, err = h.issues.Execute(ctx, usecase.ReportIssueInput{PropertyID: p.ID, Description: "Leak"})
	require.NoError(t, err)

	d, err := h.properties.Get(ctx, "host-1", p.ID)
	require.NoError(t, err)
	assert.Len(t, d.KnowledgeItems, 1)
	assert.Len(t, d.Services, 1)
	require.Len(t, d.CheckInSteps, 2)
	assert.Equal(t, 1, d.CheckInSteps[0].Step)
	assert.EqualValues(t, 1, d.ConversationCount)
	assert.EqualValues(t, 1, d.IssueCount)

	list, err := h.properties.List(ctx, "host-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, list[0].ServiceCount)
	assert.EqualValues(t, 1, list[0].ConversationCount)
	assert.EqualValues(t, 1, list[0].IssueCount)

	issues, err := h.properties.ListIssues(ctx, "host-1", p.ID)
	require.NoError(t, err)
	assert.Len(t, issues, 1)
}

func TestProperty_UpdateKeepsIdentity(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.property(t, "host-1", "Loft A")

	name, tone := "Loft B", "casual"
	updated, err := h.properties.Update(ctx, "host-1", p.ID, entity.PropertyPatch{Name: &name, AITone: &tone})
	require.NoError(t, err)
	assert.Equal(t, "Loft B", updated.Name)
	assert.Equal(t, valueobject.ToneCasual, updated.AITone)
	assert.Equal(t, p.AccessLink, updated.AccessLink)
	assert.Equal(t, p.QRCode, updated.QRCode)

	bad := "grumpy"
	_, err = h.properties.Update(ctx, "host-1", p.ID, entity.PropertyPatch{AITone: &bad})
	assert.True(t, apperrors.IsInvalidInput(err))

	public, err := h.properties.GetPublic(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loft B", public.Name)
}

func TestProperty_ServiceLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.property(t, "host-1", "Loft A")

	s, err := h.properties.AddService(ctx, "host-1", p.ID, usecase.ServiceInput{Name: "Late checkout", IsAvailable: true})
	require.NoError(t, err)

	off := false
	updated, err := h.properties.UpdateService(ctx, "host-1", p.ID, s.ID, entity.ServicePatch{IsAvailable: &off})
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)

	negative := -1.0
	_, err = h.properties.UpdateService(ctx, "host-1", p.ID, s.ID, entity.ServicePatch{Price: &negative})
	assert.True(t, apperrors.IsInvalidInput(err))

	require.NoError(t, h.properties.DeleteService(ctx, "host-1", p.ID, s.ID))
	_, err = h.properties.UpdateService(ctx, "host-1", p.ID, s.ID, entity.ServicePatch{IsAvailable: &off})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProperty_DeleteCascades(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.host(t, "host-1")
	p := h.property(t, "host-1", "Loft A")
	conv, err := h.conversations.Start(ctx, p.ID, "", "")
	require.NoError(t, err)
	_, err = h.turns.Execute(ctx, usecase.SubmitTurnInput{ConversationID: conv.ID(), Content: "hi"})
	require.NoError(t, err)

	require.NoError(t, h.properties.Delete(ctx, "host-1", p.ID))

	_, err = h.properties.GetPublic(ctx, p.ID)
	assert.True(t, apperrors.IsNotFound(err))
	_, err = h.conversations.History(ctx, conv.ID())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestNotifications_MarkRead(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.host(t, "host-1")
	p := h.property(t, "host-1", "Loft A")
	_, err := h.issues.Execute(ctx, usecase.ReportIssueInput{PropertyID: p.ID, Description: "Leak"})
	require.NoError(t, err)

	notes, err := h.properties.ListNotifications(ctx, "host-1")
	require.NoError(t, err)
	require.Len(t, notes, 1)

	assert.True(t, apperrors.IsNotFound(h.properties.MarkNotificationRead(ctx, "host-2", notes[0].ID)))
	require.NoError(t, h.properties.MarkNotificationRead(ctx, "host-1", notes[0].ID))

	notes, err = h.properties.ListNotifications(ctx, "host-1")
	require.NoError(t, err)
	assert.True(t, notes[0].Read)
}
