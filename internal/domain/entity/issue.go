package entity

import (
	"strings"
	"time"
)

// Issue statuses and priorities.
const (
	IssueStatusOpen       = "open"
	IssueStatusInProgress = "in_progress"
	IssueStatusResolved   = "resolved"

	IssuePriorityLow    = "low"
	IssuePriorityMedium = "medium"
	IssuePriorityHigh   = "high"
)

// Issue is a problem a guest reported about a property.
type Issue struct {
	ID             string
	PropertyID     string
	ConversationID string // empty when reported outside a conversation
	Description    string
	Category       string
	ImageRef       string
	Status         string
	Priority       string
	CreatedAt      time.Time
}

// NewIssue builds an open, medium-priority issue.
func NewIssue(id, propertyID, conversationID, description, category, imageRef, defaultCategory string) (*Issue, error) {
	if propertyID == "" {
		return nil, ErrInvalidPropertyID
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrMissingDescription
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = defaultCategory
	}
	return &Issue{
		ID:             id,
		PropertyID:     propertyID,
		ConversationID: strings.TrimSpace(conversationID),
		Description:    description,
		Category:       category,
		ImageRef:       imageRef,
		Status:         IssueStatusOpen,
		Priority:       IssuePriorityMedium,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
