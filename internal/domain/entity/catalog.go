package entity

import (
	"strings"
	"time"
)

// KnowledgeItem is one fact of a property's knowledge base.
type KnowledgeItem struct {
	ID         string
	PropertyID string
	Title      string
	Content    string
	Category   string
	CreatedAt  time.Time
}

// NewKnowledgeItem 创建知识条目
func NewKnowledgeItem(id, propertyID, title, content, category string) (*KnowledgeItem, error) {
	if propertyID == "" {
		return nil, ErrInvalidPropertyID
	}
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" {
		return nil, ErrMissingTitle
	}
	if content == "" {
		return nil, ErrMissingContent
	}
	return &KnowledgeItem{
		ID:         id,
		PropertyID: propertyID,
		Title:      title,
		Content:    content,
		Category:   strings.TrimSpace(category),
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Service is an extra a host offers to guests (late checkout, breakfast...).
type Service struct {
	ID          string
	PropertyID  string
	Name        string
	Description string
	IsAvailable bool
	IsPaid      bool
	Price       float64
	CreatedAt   time.Time
}

// NewService 创建服务
func NewService(id, propertyID, name, description string, available, paid bool, price float64) (*Service, error) {
	if propertyID == "" {
		return nil, ErrInvalidPropertyID
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingServiceName
	}
	if price < 0 {
		return nil, ErrNegativePrice
	}
	return &Service{
		ID:          id,
		PropertyID:  propertyID,
		Name:        name,
		Description: strings.TrimSpace(description),
		IsAvailable: available,
		IsPaid:      paid,
		Price:       price,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// ServicePatch is a partial service update.
type ServicePatch struct {
	Name        *string
	Description *string
	IsAvailable *bool
	IsPaid      *bool
	Price       *float64
}

// Apply mutates s according to patch.
func (s *Service) Apply(patch ServicePatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return ErrMissingServiceName
		}
		s.Name = name
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return ErrNegativePrice
		}
		s.Price = *patch.Price
	}
	if patch.Description != nil {
		s.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.IsAvailable != nil {
		s.IsAvailable = *patch.IsAvailable
	}
	if patch.IsPaid != nil {
		s.IsPaid = *patch.IsPaid
	}
	return nil
}

// CheckInStep is one step of the arrival guide, ordered by Step.
type CheckInStep struct {
	ID          string
	PropertyID  string
	Step        int
	Title       string
	Description string
	CreatedAt   time.Time
}

// NewCheckInStep 创建入住步骤
func NewCheckInStep(id, propertyID string, step int, title, description string) (*CheckInStep, error) {
	if propertyID == "" {
		return nil, ErrInvalidPropertyID
	}
	if step <= 0 {
		return nil, ErrInvalidStep
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrMissingTitle
	}
	return &CheckInStep{
		ID:          id,
		PropertyID:  propertyID,
		Step:        step,
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now().UTC(),
	}, nil
}
