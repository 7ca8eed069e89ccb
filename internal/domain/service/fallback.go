package service

import "strings"

var fallbackReplies = map[string]string{
	"fr": "Désolé, je rencontre un problème technique. Pouvez-vous réessayer ?",
	"en": "Sorry, I'm having a technical problem. Could you try again?",
	"es": "Lo siento, tengo un problema técnico. ¿Puede intentarlo de nuevo?",
	"de": "Entschuldigung, ich habe ein technisches Problem. Können Sie es noch einmal versuchen?",
	"it": "Mi dispiace, ho un problema tecnico. Può riprovare?",
}

// FallbackReply returns the static apology shown when generation fails.
// Regional variants ("fr-CA") use their base language; unknown languages
// get English.
func FallbackReply(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if reply, ok := fallbackReplies[lang]; ok {
		return reply
	}
	return fallbackReplies["en"]
}
