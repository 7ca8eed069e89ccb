package telegram

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/infrastructure/eventbus"
)

// MessageLimit Telegram 消息长度限制
const MessageLimit = 4096

// Sender is the slice of the bot API the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier mirrors issue notifications into an operator Telegram chat.
type Notifier struct {
	bot    Sender
	chatID int64
	logger *zap.Logger
}

// NewNotifier connects to the Bot API with token.
func NewNotifier(token string, chatID int64, logger *zap.Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	logger.Info("Telegram notifier authorized", zap.String("username", bot.Self.UserName))
	return NewNotifierWithSender(bot, chatID, logger), nil
}

// NewNotifierWithSender builds a notifier on an existing sender.
func NewNotifierWithSender(bot Sender, chatID int64, logger *zap.Logger) *Notifier {
	return &Notifier{bot: bot, chatID: chatID, logger: logger.With(zap.String("component", "telegram"))}
}

// HandleIssueReported is an eventbus.Handler. Send failures are logged only.
func (n *Notifier) HandleIssueReported(ctx context.Context, event eventbus.Event) {
	p, ok := event.Payload().(eventbus.IssueReportedPayload)
	if !ok {
		return
	}
	for _, chunk := range ChunkMessage(FormatIssue(p)) {
		if ctx.Err() != nil {
			return
		}
		msg := tgbotapi.NewMessage(n.chatID, chunk)
		msg.DisableWebPagePreview = true
		if _, err := n.bot.Send(msg); err != nil {
			n.logger.Warn("Failed to send issue alert",
				zap.String("issue_id", p.IssueID),
				zap.Error(err),
			)
			return
		}
	}
}

// FormatIssue renders the alert text.
func FormatIssue(p eventbus.IssueReportedPayload) string {
	var sb strings.Builder
	sb.WriteString("🚨 ")
	sb.WriteString(p.Title)
	sb.WriteString("\n\n")
	sb.WriteString(p.Message)
	if p.Category != "" {
		fmt.Fprintf(&sb, "\n\nCategory: %s", p.Category)
	}
	if p.Link != "" {
		fmt.Fprintf(&sb, "\nLink: %s", p.Link)
	}
	return sb.String()
}

// ChunkMessage splits text into pieces Telegram accepts, preferring line
// then word boundaries. Never splits a UTF-8 sequence.
func ChunkMessage(text string) []string {
	if utf8.RuneCountInString(text) <= MessageLimit {
		return []string{text}
	}

	var chunks []string
	remaining := []rune(text)
	for len(remaining) > MessageLimit {
		window := string(remaining[:MessageLimit])
		cut := strings.LastIndex(window, "\n")
		if cut < len(window)/2 {
			cut = strings.LastIndex(window, " ")
		}
		if cut <= 0 {
			cut = len(window)
		}
		head := window[:cut]
		chunks = append(chunks, head)
		remaining = []rune(strings.TrimLeft(string(remaining[utf8.RuneCountInString(head):]), " \n"))
	}
	if len(remaining) > 0 {
		chunks = append(chunks, string(remaining))
	}
	return chunks
}
