package handlers

import (
	"time"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
)

// --- JSON views ---

type hostView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toHostView(h *entity.Host) hostView {
	return hostView{ID: h.ID, Email: h.Email, FirstName: h.FirstName, LastName: h.LastName, Phone: h.Phone, CreatedAt: h.CreatedAt}
}

type propertyView struct {
	ID            string    `json:"id"`
	HostID        string    `json:"hostId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	Equipments    []string  `json:"equipments"`
	AIPrompt      string    `json:"aiPrompt"`
	AITone        string    `json:"aiTone"`
	AIPersonality string    `json:"aiPersonality"`
	AccessLink    string    `json:"accessLink"`
	QRCode        string    `json:"qrCode"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func equipments(p *entity.Property) []string {
	eq, ok := p.Equipment()
	if !ok {
		return []string{}
	}
	return eq
}

func toPropertyView(p *entity.Property) propertyView {
	return propertyView{
		ID:            p.ID,
		HostID:        p.HostID,
		Name:          p.Name,
		Description:   p.Description,
		Address:       p.Address,
		City:          p.City,
		Country:       p.Country,
		Equipments:    equipments(p),
		AIPrompt:      p.AIPrompt,
		AITone:        p.AITone.String(),
		AIPersonality: p.AIPersonality,
		AccessLink:    p.AccessLink,
		QRCode:        p.QRCode,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// publicPropertyView is what a guest may see: no owner, no assistant setup.
type publicPropertyView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Equipments  []string `json:"equipments"`
	AccessLink  string   `json:"accessLink"`
}

func toPublicPropertyView(p *entity.Property) publicPropertyView {
	return publicPropertyView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Address:     p.Address,
		City:        p.City,
		Country:     p.Country,
		Equipments:  equipments(p),
		AccessLink:  p.AccessLink,
	}
}

type countsView struct {
	Conversations int64 `json:"conversations"`
	Issues        int64 `json:"issues"`
	Services      int64 `json:"services"`
}

type propertySummaryView struct {
	propertyView
	Count countsView `json:"_count"`
}

type propertyDetailView struct {
	propertyView
	KnowledgeItems []knowledgeItemView `json:"knowledgeItems"`
	Services       []serviceView       `json:"services"`
	CheckInSteps   []checkInStepView   `json:"checkInSteps"`
	Count          countsView          `json:"_count"`
}

type knowledgeItemView struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"propertyId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toKnowledgeItemView(i *entity.KnowledgeItem) knowledgeItemView {
	return knowledgeItemView{ID: i.ID, PropertyID: i.PropertyID, Title: i.Title, Content: i.Content, Category: i.Category, CreatedAt: i.CreatedAt}
}

type serviceView struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"propertyId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsAvailable bool      `json:"isAvailable"`
	IsPaid      bool      `json:"isPaid"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toServiceView(s *entity.Service) serviceView {
	return serviceView{
		ID: s.ID, PropertyID: s.PropertyID, Name: s.Name, Description: s.Description,
		IsAvailable: s.IsAvailable, IsPaid: s.IsPaid, Price: s.Price, CreatedAt: s.CreatedAt,
	}
}

type checkInStepView struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"propertyId"`
	Step        int       `json:"step"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toCheckInStepView(s *entity.CheckInStep) checkInStepView {
	return checkInStepView{ID: s.ID, PropertyID: s.PropertyID, Step: s.Step, Title: s.Title, Description: s.Description, CreatedAt: s.CreatedAt}
}

type conversationView struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"propertyId"`
	GuestName  string    `json:"guestName"`
	Language   string    `json:"language"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toConversationView(c *entity.Conversation) conversationView {
	return conversationView{ID: c.ID(), PropertyID: c.PropertyID(), GuestName: c.GuestName(), Language: c.Language(), CreatedAt: c.CreatedAt()}
}

type messageView struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	ContentType    string    `json:"contentType"`
	MediaURL       string    `json:"mediaUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toMessageView(m *entity.Message) messageView {
	return messageView{
		ID:             m.ID(),
		ConversationID: m.ConversationID(),
		Role:           string(m.Role()),
		Content:        m.Content().Text(),
		ContentType:    string(m.Content().ContentType()),
		MediaURL:       m.Content().MediaRef(),
		CreatedAt:      m.CreatedAt(),
	}
}

type issueView struct {
	ID             string    `json:"id"`
	PropertyID     string    `json:"propertyId"`
	ConversationID string    `json:"conversationId,omitempty"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toIssueView(i *entity.Issue) issueView {
	return issueView{
		ID: i.ID, PropertyID: i.PropertyID, ConversationID: i.ConversationID, Description: i.Description,
		Category: i.Category, ImageURL: i.ImageRef, Status: i.Status, Priority: i.Priority, CreatedAt: i.CreatedAt,
	}
}

type notificationView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Link      string    `json:"link"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func toNotificationView(n *entity.Notification) notificationView {
	return notificationView{ID: n.ID, Title: n.Title, Message: n.Message, Type: n.Type, Link: n.Link, Read: n.Read, CreatedAt: n.CreatedAt}
}

func mapSlice[T, V any](in []T, f func(T) V) []V {
	out := make([]V, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
