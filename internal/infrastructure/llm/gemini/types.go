package gemini

// --- Google Gemini API Types ---
// Reference: https://ai.google.dev/api/rest/v1beta/models/generateContent

// Request is the Gemini generateContent request format.
type Request struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content represents a conversation turn.
type Content struct {
	Role  string `json:"role,omitempty"` // "user" | "model"
	Parts []Part `json:"parts"`
}

// Part is a polymorphic content element within a Content.
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Blob carries inline base64 media.
type Blob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// GenerationConfig controls generation parameters.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
	TopK            int     `json:"topK,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// Response is the Gemini generateContent response format.
type Response struct {
	Candidates     []Candidate     `json:"candidates"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *UsageMetadata  `json:"usageMetadata,omitempty"`
	ModelVersion   string          `json:"modelVersion,omitempty"`
}

// Candidate is a single response candidate.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"` // "STOP" | "MAX_TOKENS" | "SAFETY"
}

// PromptFeedback is set when the prompt itself was rejected.
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// UsageMetadata reports token consumption.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// Total returns the total token count.
func (u *UsageMetadata) Total() int {
	if u.TotalTokenCount > 0 {
		return u.TotalTokenCount
	}
	return u.PromptTokenCount + u.CandidatesTokenCount
}
