package service

import (
	"strings"
	"testing"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
	"github.com/oulia/oulia/gateway/internal/domain/valueobject"
)

func loftA() *entity.Property {
	return &entity.Property{
		ID:           "p1",
		Name:         "Loft A",
		Address:      "12 rue des Lilas",
		City:         "Lyon",
		Country:      "France",
		EquipmentRaw: `["WiFi","Netflix"]`,
		AITone:       valueobject.ToneWarm,
	}
}

func TestPromptBuilder_EmptyProperty(t *testing.T) {
	b := NewPromptBuilder(DefaultEngineConfig())
	out := b.Build(PersonaInput{Property: &entity.Property{Name: "Studio"}})

	for _, want := range []string{
		`You are Oulia, the personal virtual assistant of "Studio"`,
		"PROPERTY INFORMATION:",
		"- Description: Not provided",
		"- Equipment: Not specified",
		"- Tone: welcoming",
		"- Personality: Professional and caring",
		"IMPORTANT RULES:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	for _, absent := range []string{"KNOWLEDGE BASE", "AVAILABLE SERVICES", "CHECK-IN GUIDE", "HOST INSTRUCTIONS"} {
		if strings.Contains(out, absent) {
			t.Errorf("unexpected section %q", absent)
		}
	}
}

func TestPromptBuilder_MalformedEquipment(t *testing.T) {
	p := loftA()
	p.EquipmentRaw = `["WiFi",`

	out := NewPromptBuilder(DefaultEngineConfig()).Build(PersonaInput{Property: p})
	if !strings.Contains(out, "- Equipment: Not specified") {
		t.Fatalf("malformed equipment should degrade to placeholder:\n%s", out)
	}
}

func TestPromptBuilder_FullProperty(t *testing.T) {
	p := loftA()
	p.Description = "Bright loft near the river"
	p.AIPrompt = "Quiet hours start at 22:00."
	p.AIPersonality = "Cheerful"

	out := NewPromptBuilder(DefaultEngineConfig()).Build(PersonaInput{
		Property: p,
		Knowledge: []*entity.KnowledgeItem{
			{Title: "WiFi", Content: "Network: LoftA, password: 1234", Category: "Connectivity"},
			{Title: "Trash", Content: "Bins are in the courtyard"},
		},
		Services: []*entity.Service{
			{Name: "Breakfast", Description: "Croissants", IsAvailable: true, IsPaid: true, Price: 12.5},
			{Name: "Towels", Description: "Fresh set", IsAvailable: true},
			{Name: "Spa", Description: "Closed", IsAvailable: false, IsPaid: true, Price: 40},
		},
		CheckInSteps: []*entity.CheckInStep{
			{Step: 2, Title: "Door", Description: "Code 4321"},
			{Step: 1, Title: "Keybox", Description: "Left of the gate"},
		},
	})

	for _, want := range []string{
		"- Equipment: WiFi, Netflix",
		"- Address: 12 rue des Lilas, Lyon, France",
		"[Connectivity] WiFi:\nNetwork: LoftA, password: 1234",
		"[General] Trash:\nBins are in the courtyard",
		"- Breakfast (12.5 €): Croissants",
		"- Towels (Included): Fresh set",
		"HOST INSTRUCTIONS:\nQuiet hours start at 22:00.",
		"- Tone: warm",
		"- Personality: Cheerful",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(out, "Spa") {
		t.Error("unavailable service must not be listed")
	}

	first := strings.Index(out, "1. Keybox: Left of the gate")
	second := strings.Index(out, "2. Door: Code 4321")
	if first < 0 || second < 0 || first > second {
		t.Errorf("check-in steps out of order (%d, %d)", first, second)
	}
}

func TestPromptBuilder_Deterministic(t *testing.T) {
	b := NewPromptBuilder(DefaultEngineConfig())
	in := PersonaInput{
		Property:  loftA(),
		Knowledge: []*entity.KnowledgeItem{{Title: "WiFi", Content: "1234"}},
	}
	if b.Build(in) != b.Build(in) {
		t.Fatal("Build must be deterministic")
	}
}

func TestFallbackReply(t *testing.T) {
	cases := map[string]string{
		"fr":    fallbackReplies["fr"],
		"FR-ca": fallbackReplies["fr"],
		"de":    fallbackReplies["de"],
		"pt":    fallbackReplies["en"],
		"":      fallbackReplies["en"],
	}
	for lang, want := range cases {
		if got := FallbackReply(lang); got != want {
			t.Errorf("FallbackReply(%q) = %q, want %q", lang, got, want)
		}
	}
}
