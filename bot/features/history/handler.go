package history

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"refbot/bot/common"
)

// HandleHistory replies with the caller's recent ledger entries
func (f *Feature) HandleHistory(ctx context.Context, update tgbotapi.Update) {
	from := update.Message.From
	chatID := update.Message.Chat.ID

	entries, err := f.ledgerService.GetHistory(ctx, from.ID, common.DisplayName(from))
	if err != nil {
		log.Errorf("Error getting history for user %d: %v", from.ID, err)
		common.SendText(f.api, chatID, "Unable to retrieve history. Please try again.")
		return
	}

	if len(entries) == 0 {
		common.SendText(f.api, chatID, "📜 No history yet.")
		return
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, entry.Description)
	}
	common.SendText(f.api, chatID, "📜 History:\n"+strings.Join(lines, "\n"))
}
