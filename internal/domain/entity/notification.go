package entity

import (
	"fmt"
	"time"
)

// NotificationTypeIssue tags notifications raised by issue reports.
const NotificationTypeIssue = "issue"

// Notification is an alert addressed to a host.
type Notification struct {
	ID        string
	HostID    string
	Title     string
	Message   string
	Type      string
	Link      string
	Read      bool
	CreatedAt time.Time
}

// NewIssueNotification builds the alert sent to a host when an issue is
// reported on one of their properties.
func NewIssueNotification(id, hostID string, property *Property, issue *Issue) *Notification {
	return &Notification{
		ID:        id,
		HostID:    hostID,
		Title:     "New issue reported",
		Message:   fmt.Sprintf("An issue was reported at \"%s\": %s", property.Name, issue.Description),
		Type:      NotificationTypeIssue,
		Link:      IssueLink(property.ID, issue.ID),
		CreatedAt: time.Now().UTC(),
	}
}

// IssueLink is the host dashboard path of an issue.
func IssueLink(propertyID, issueID string) string {
	return fmt.Sprintf("/properties/%s/issues/%s", propertyID, issueID)
}
