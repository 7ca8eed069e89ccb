package entity

import (
	"strings"
	"time"

	"github.com/oulia/oulia/gateway/internal/domain/valueobject"
)

// Property 房源聚合根
// Owns its knowledge items, services and check-in steps.
type Property struct {
	ID          string
	HostID      string
	Name        string
	Description string
	Address     string
	City        string
	Country     string
	// EquipmentRaw is the stored JSON list; use Equipment() to read it.
	EquipmentRaw  string
	AIPrompt      string
	AITone        valueobject.Tone
	AIPersonality string
	AccessLink    string
	QRCode        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PropertySpec carries the host-editable fields of a property.
type PropertySpec struct {
	Name          string
	Description   string
	Address       string
	City          string
	Country       string
	Equipment     []string
	AIPrompt      string
	AITone        string
	AIPersonality string
}

// NewProperty validates spec and builds a property. accessLink and qrCode
// are derived from id by the caller and never change afterwards.
func NewProperty(id, hostID string, spec PropertySpec, defaultTone valueobject.Tone, accessLink, qrCode string) (*Property, error) {
	if id == "" {
		return nil, ErrInvalidPropertyID
	}
	if hostID == "" {
		return nil, ErrInvalidHostID
	}
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, ErrInvalidPropertyName
	}
	address, city, country := strings.TrimSpace(spec.Address), strings.TrimSpace(spec.City), strings.TrimSpace(spec.Country)
	if address == "" || city == "" || country == "" {
		return nil, ErrMissingAddress
	}

	tone := defaultTone
	if strings.TrimSpace(spec.AITone) != "" {
		t, ok := valueobject.ParseTone(spec.AITone)
		if !ok {
			return nil, ErrInvalidTone
		}
		tone = t
	}

	now := time.Now().UTC()
	return &Property{
		ID:            id,
		HostID:        hostID,
		Name:          name,
		Description:   strings.TrimSpace(spec.Description),
		Address:       address,
		City:          city,
		Country:       country,
		EquipmentRaw:  valueobject.Equipment(spec.Equipment).Encode(),
		AIPrompt:      strings.TrimSpace(spec.AIPrompt),
		AITone:        tone,
		AIPersonality: strings.TrimSpace(spec.AIPersonality),
		AccessLink:    accessLink,
		QRCode:        qrCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Equipment decodes the stored amenity list; malformed data reads as absent.
func (p *Property) Equipment() (valueobject.Equipment, bool) {
	return valueobject.DecodeEquipment(p.EquipmentRaw)
}

// PropertyPatch is a partial update. Nil fields are left untouched.
type PropertyPatch struct {
	Name          *string
	Description   *string
	Address       *string
	City          *string
	Country       *string
	Equipment     *[]string
	AIPrompt      *string
	AITone        *string
	AIPersonality *string
}

// Apply mutates p according to patch. Identity, owner, access link and QR
// code are not patchable.
func (p *Property) Apply(patch PropertyPatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return ErrInvalidPropertyName
		}
		p.Name = name
	}
	for _, f := range []struct {
		src *string
		dst *string
	}{
		{patch.Address, &p.Address},
		{patch.City, &p.City},
		{patch.Country, &p.Country},
	} {
		if f.src == nil {
			continue
		}
		v := strings.TrimSpace(*f.src)
		if v == "" {
			return ErrMissingAddress
		}
		*f.dst = v
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Equipment != nil {
		p.EquipmentRaw = valueobject.Equipment(*patch.Equipment).Encode()
	}
	if patch.AIPrompt != nil {
		p.AIPrompt = strings.TrimSpace(*patch.AIPrompt)
	}
	if patch.AITone != nil {
		t, ok := valueobject.ParseTone(*patch.AITone)
		if !ok {
			return ErrInvalidTone
		}
		p.AITone = t
	}
	if patch.AIPersonality != nil {
		p.AIPersonality = strings.TrimSpace(*patch.AIPersonality)
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// PropertySummary is a property with its activity counters.
type PropertySummary struct {
	Property          *Property
	ConversationCount int64
	IssueCount        int64
	ServiceCount      int64
}

// PropertyDetail is a property with its full knowledge base.
type PropertyDetail struct {
	Property          *Property
	KnowledgeItems    []*KnowledgeItem
	Services          []*Service
	CheckInSteps      []*CheckInStep
	ConversationCount int64
	IssueCount        int64
}
