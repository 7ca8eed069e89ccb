package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oulia/oulia/gateway/internal/domain/valueobject"
)

func TestNewMessage_Validation(t *testing.T) {
	text := valueobject.NewMessageContent("hello", valueobject.ContentTypeText)

	_, err := NewMessage("", "c1", RoleUser, text)
	assert.ErrorIs(t, err, ErrInvalidMessageID)

	_, err = NewMessage("m1", "c1", Role("bot"), text)
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = NewMessage("m1", "c1", RoleUser, valueobject.NewMessageContent("   ", valueobject.ContentTypeText))
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = NewMessage("m1", "c1", RoleUser, valueobject.NewMessageContent("look", valueobject.ContentTypeImage))
	assert.ErrorIs(t, err, ErrMissingMedia)

	// An image turn may carry no caption.
	img := valueobject.NewMessageContentWithMedia("", valueobject.ContentTypeImage, "data:image/png;base64,AAAA")
	msg, err := NewMessage("m1", "c1", RoleUser, img)
	require.NoError(t, err)
	assert.True(t, msg.IsFromUser())
	assert.False(t, msg.CreatedAt().IsZero())
}

func TestNewProperty_Defaults(t *testing.T) {
	p, err := NewProperty("p1", "h1", PropertySpec{
		Name:    " Loft A ",
		Address: "1 rue Haute",
		City:    "Lyon",
		Country: "France",
	}, valueobject.ToneWelcoming, "http://localhost:5173/guest/p1", "data:image/png;base64,")
	require.NoError(t, err)

	assert.Equal(t, "Loft A", p.Name)
	assert.Equal(t, valueobject.ToneWelcoming, p.AITone)
	_, ok := p.Equipment()
	assert.False(t, ok)

	_, err = NewProperty("p2", "h1", PropertySpec{Name: "x", Address: "a", City: "b", Country: "c", AITone: "grumpy"},
		valueobject.ToneWelcoming, "", "")
	assert.ErrorIs(t, err, ErrInvalidTone)
}

func TestProperty_ApplyKeepsIdentity(t *testing.T) {
	p, err := NewProperty("p1", "h1", PropertySpec{Name: "Loft", Address: "a", City: "b", Country: "c"},
		valueobject.ToneWelcoming, "link", "qr")
	require.NoError(t, err)

	name := "Loft B"
	tone := "chaleureux"
	equipment := []string{"WiFi", "Kitchen"}
	require.NoError(t, p.Apply(PropertyPatch{Name: &name, AITone: &tone, Equipment: &equipment}))

	assert.Equal(t, "Loft B", p.Name)
	assert.Equal(t, valueobject.ToneWarm, p.AITone)
	eq, ok := p.Equipment()
	require.True(t, ok)
	assert.Equal(t, "WiFi, Kitchen", eq.Join())
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "link", p.AccessLink)
	assert.Equal(t, "qr", p.QRCode)

	empty := "  "
	assert.ErrorIs(t, p.Apply(PropertyPatch{City: &empty}), ErrMissingAddress)
}

func TestNewIssue_Defaults(t *testing.T) {
	issue, err := NewIssue("i1", "p1", "", "Leaking faucet", "", "", "other")
	require.NoError(t, err)
	assert.Equal(t, "other", issue.Category)
	assert.Equal(t, IssueStatusOpen, issue.Status)
	assert.Equal(t, IssuePriorityMedium, issue.Priority)

	_, err = NewIssue("i2", "p1", "", "   ", "plumbing", "", "other")
	assert.ErrorIs(t, err, ErrMissingDescription)
}

func TestNewIssueNotification(t *testing.T) {
	p := &Property{ID: "p1", Name: "Loft A"}
	issue := &Issue{ID: "i1", Description: "No hot water"}

	n := NewIssueNotification("n1", "h1", p, issue)
	assert.Equal(t, "h1", n.HostID)
	assert.Equal(t, NotificationTypeIssue, n.Type)
	assert.Equal(t, `An issue was reported at "Loft A": No hot water`, n.Message)
	assert.Equal(t, "/properties/p1/issues/i1", n.Link)
	assert.False(t, n.Read)
}

func TestNewHost_NormalizesEmail(t *testing.T) {
	h, err := NewHost("h1", " Alice@Example.COM ", "hash", "Alice", "Martin", "")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", h.Email)

	_, err = NewHost("h2", "nope", "hash", "A", "B", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}
