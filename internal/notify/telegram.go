// Package notify pushes daily workout suggestions to Telegram.
package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/claude/ironlog/internal/refresh"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier sends suggestion snapshots to a single Telegram chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *slog.Logger
}

// New creates a Notifier. Fails if the token is rejected by the Telegram API.
func New(token string, chatID int64, log *slog.Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID, log: log}, nil
}

// HandleSnapshot formats and sends one snapshot. Intended as a Refresher
// subscriber; send failures are logged, not propagated.
func (n *Notifier) HandleSnapshot(snap refresh.Snapshot) {
	msg := tgbotapi.NewMessage(n.chatID, FormatSnapshot(snap))
	if _, err := n.bot.Send(msg); err != nil {
		n.log.Error("telegram send failed", "error", err)
		return
	}
	n.log.Info("suggestion sent", "focus", snap.Suggestion.Focus, "chat_id", n.chatID)
}

// FormatSnapshot renders the suggestion card as a plain-text message.
func FormatSnapshot(snap refresh.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s — %s\n", snap.At.Format("Mon Jan 2"), snap.Suggestion.Message)
	fmt.Fprintf(&b, "%s\n", snap.Suggestion.Reason)
	if len(snap.Suggestion.FreshMuscles) > 0 {
		names := make([]string, len(snap.Suggestion.FreshMuscles))
		for i, g := range snap.Suggestion.FreshMuscles {
			names[i] = string(g)
		}
		fmt.Fprintf(&b, "Fresh: %s", strings.Join(names, ", "))
	} else {
		b.WriteString("Nothing is fresh today.")
	}
	return b.String()
}
