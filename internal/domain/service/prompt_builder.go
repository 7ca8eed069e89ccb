package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
	"github.com/oulia/oulia/gateway/internal/domain/valueobject"
)

// ContextPreamble is the user-side half of the instruction exchange that
// precedes every conversation history.
const ContextPreamble = "Here are your role and instructions:"

// PersonaInput is everything the builder reads to describe a property.
type PersonaInput struct {
	Property     *entity.Property
	Knowledge    []*entity.KnowledgeItem
	Services     []*entity.Service
	CheckInSteps []*entity.CheckInStep
}

// PromptBuilder assembles the concierge system context. It is pure: the
// same input always yields the same text.
type PromptBuilder struct {
	defaultTone        valueobject.Tone
	defaultPersonality string
}

// NewPromptBuilder 创建提示词构建器
func NewPromptBuilder(cfg EngineConfig) *PromptBuilder {
	cfg = cfg.WithDefaults()
	return &PromptBuilder{
		defaultTone:        cfg.DefaultTone,
		defaultPersonality: cfg.DefaultPersonality,
	}
}

// Build renders the system context for in.Property.
func (b *PromptBuilder) Build(in PersonaInput) string {
	p := in.Property
	if p == nil {
		p = &entity.Property{}
	}

	var sb strings.Builder

	// 1. identity
	fmt.Fprintf(&sb, "You are Oulia, the personal virtual assistant of \"%s\".\n\n", p.Name)
	sb.WriteString("Your mission is to help travelers enjoy their stay: explain how the place works, ")
	sb.WriteString("answer their questions and take care of their needs (check-in, comfort, bookings, troubleshooting).\n\n")

	sb.WriteString("PROPERTY INFORMATION:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", p.Name)
	fmt.Fprintf(&sb, "- Address: %s, %s, %s\n", p.Address, p.City, p.Country)
	fmt.Fprintf(&sb, "- Description: %s\n", orPlaceholder(p.Description, "Not provided"))
	equipment := "Not specified"
	if eq, ok := p.Equipment(); ok {
		equipment = eq.Join()
	}
	fmt.Fprintf(&sb, "- Equipment: %s\n", equipment)

	// 2. knowledge base
	if len(in.Knowledge) > 0 {
		sb.WriteString("\nKNOWLEDGE BASE:\n")
		for _, item := range in.Knowledge {
			fmt.Fprintf(&sb, "\n[%s] %s:\n%s\n", orPlaceholder(item.Category, "General"), item.Title, item.Content)
		}
	}

	// 3. services
	available := make([]*entity.Service, 0, len(in.Services))
	for _, s := range in.Services {
		if s.IsAvailable {
			available = append(available, s)
		}
	}
	if len(available) > 0 {
		sb.WriteString("\nAVAILABLE SERVICES:\n")
		for _, s := range available {
			fmt.Fprintf(&sb, "- %s (%s): %s\n", s.Name, priceLabel(s), s.Description)
		}
	}

	// 4. check-in guide
	if len(in.CheckInSteps) > 0 {
		steps := make([]*entity.CheckInStep, len(in.CheckInSteps))
		copy(steps, in.CheckInSteps)
		sort.SliceStable(steps, func(i, j int) bool { return steps[i].Step < steps[j].Step })

		sb.WriteString("\nCHECK-IN GUIDE:\n")
		for _, s := range steps {
			fmt.Fprintf(&sb, "%d. %s: %s\n", s.Step, s.Title, s.Description)
		}
	}

	// 5. host instructions
	if instructions := strings.TrimSpace(p.AIPrompt); instructions != "" {
		fmt.Fprintf(&sb, "\nHOST INSTRUCTIONS:\n%s\n", instructions)
	}

	// 6. tone
	sb.WriteString("\nTONE AND STYLE:\n")
	fmt.Fprintf(&sb, "- Tone: %s\n", p.AITone.OrDefault(b.defaultTone))
	fmt.Fprintf(&sb, "- Personality: %s\n", orPlaceholder(p.AIPersonality, b.defaultPersonality))

	// 7. rules
	sb.WriteString(rulesBlock)

	return sb.String()
}

const rulesBlock = `
IMPORTANT RULES:
1. You understand and answer text and photos naturally.
2. You rely EXCLUSIVELY on the information above to answer.
3. When the traveler asks a question, answer clearly, precisely and kindly.
4. When the traveler has a problem, identify the cause and offer to report an issue to the host.
5. When the traveler wants to book a service, present the options and offer to make the booking.
6. When the traveler asks for advice, suggest relevant local recommendations.
7. You NEVER talk about other properties or personal topics unrelated to the stay.
8. If you do not have the information, calmly explain how to contact the host.
9. Always answer in the language the traveler writes in.

You are like a smart hotel concierge: welcoming, helpful and professional.`

func priceLabel(s *entity.Service) string {
	if !s.IsPaid {
		return "Included"
	}
	return strconv.FormatFloat(s.Price, 'f', -1, 64) + " €"
}

func orPlaceholder(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}
