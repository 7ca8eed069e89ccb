package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oulia/oulia/gateway/internal/application/usecase"
	"github.com/oulia/oulia/gateway/internal/domain/entity"
	"github.com/oulia/oulia/gateway/internal/infrastructure/eventbus"
	apperrors "github.com/oulia/oulia/gateway/pkg/errors"
)

func TestReportIssue_TwoReportsTwoNotifications(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.host(t, "host-1")
	p := h.property(t, "host-1", "Loft A")

	var mu sync.Mutex
	var events []eventbus.IssueReportedPayload
	h.bus.Subscribe(eventbus.EventTypeIssueReported, func(_ context.Context, e eventbus.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e.Payload().(eventbus.IssueReportedPayload))
	})

	first, err := h.issues.Execute(ctx, usecase.ReportIssueInput{PropertyID: p.ID, Description: "The faucet is leaking"})
	require.NoError(t, err)
	assert.Equal(t, entity.IssueStatusOpen, first.Status)
	assert.Equal(t, entity.IssuePriorityMedium, first.Priority)
	assert.Equal(t, "other", first.Category)

	second, err := h.issues.Execute(ctx, usecase.ReportIssueInput{PropertyID: p.ID, Description: "No hot water", Category: "plumbing"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	issues, err := h.repos.Issues.FindByProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, issues, 2)

	notes, err := h.repos.Notifications.FindByHost(ctx, "host-1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	for _, n := range notes {
		assert.Equal(t, "New issue reported", n.Title)
		assert.Equal(t, entity.NotificationTypeIssue, n.Type)
		assert.False(t, n.Read)
	}
	assert.Contains(t, []string{notes[0].Message, notes[1].Message}, `An issue was reported at "Loft A": The faucet is leaking`)
	assert.Contains(t, []string{notes[0].Link, notes[1].Link}, "/properties/"+p.ID+"/issues/"+second.ID)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestReportIssue_UnresolvedHostKeepsIssue(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	// The owning host account was never stored.
	p := h.property(t, "ghost", "Loft A")

	issue, err := h.issues.Execute(ctx, usecase.ReportIssueInput{PropertyID: p.ID, Description: "Broken lamp"})
	require.NoError(t, err)
	require.NotNil(t, issue)

	n, err := h.repos.Issues.CountByProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	notes, err := h.repos.Notifications.FindByHost(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestReportIssue_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.host(t, "host-1")
	p := h.property(t, "host-1", "Loft A")

	_, err := h.issues.Execute(ctx, usecase.ReportIssueInput{PropertyID: p.ID, Description: "  "})
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = h.issues.Execute(ctx, usecase.ReportIssueInput{PropertyID: "missing", Description: "x"})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = h.issues.Execute(ctx, usecase.ReportIssueInput{PropertyID: "missing", Description: ""})
	assert.True(t, apperrors.IsNotFound(err), "an unknown property wins over a blank description")
}
