package service

import "context"

// ChatRole is the speaker of a model-facing turn.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatTurn is one prior exchange handed to the model as history.
type ChatTurn struct {
	Role ChatRole
	Text string
}

// LanguageModel is the port to the external generation service.
type LanguageModel interface {
	// GenerateChatReply continues a conversation. systemContext is injected
	// ahead of history as the first exchange.
	GenerateChatReply(ctx context.Context, systemContext string, history []ChatTurn, newMessage string) (string, error)

	// AnalyzeImage describes the image behind mediaRef following instruction.
	AnalyzeImage(ctx context.Context, mediaRef, instruction string) (string, error)

	// GenerateText runs a single stateless prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
}
