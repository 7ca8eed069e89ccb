package valueobject

import "strings"

// Tone is the conversational register a host picks for the concierge.
type Tone string

const (
	ToneWelcoming    Tone = "welcoming"
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneWarm         Tone = "warm"
)

// toneAliases accepts the labels used by the French host dashboard.
var toneAliases = map[string]Tone{
	"accueillant":   ToneWelcoming,
	"professionnel": ToneProfessional,
	"decontracte":   ToneCasual,
	"décontracté":   ToneCasual,
	"chaleureux":    ToneWarm,
}

// ParseTone normalizes raw into a known Tone.
func ParseTone(raw string) (Tone, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch Tone(s) {
	case ToneWelcoming, ToneProfessional, ToneCasual, ToneWarm:
		return Tone(s), true
	}
	if t, ok := toneAliases[s]; ok {
		return t, true
	}
	return "", false
}

// OrDefault returns t, or def when t is empty.
func (t Tone) OrDefault(def Tone) Tone {
	if t == "" {
		return def
	}
	return t
}

// String implements fmt.Stringer.
func (t Tone) String() string {
	return string(t)
}
