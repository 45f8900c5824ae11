package telegram

import (
	"go.uber.org/zap"
)

// Notifier sends fire-and-forget text messages through the Bot API.
// Delivery failures are logged, never propagated; a user who blocked
// the bot must not stall fulfillment.
type Notifier struct {
	api    *BotAPI
	logger *zap.Logger
}

func NewNotifier(api *BotAPI, logger *zap.Logger) *Notifier {
	return &Notifier{api: api, logger: logger}
}

func (n *Notifier) Notify(chatID string, text string) {
	if _, err := n.api.SendMessage(chatID, text, nil); err != nil {
		n.logger.Warn("notification delivery failed",
			zap.String("chat_id", chatID), zap.Error(err))
	}
}
