package history

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"refbot/service"
)

type Feature struct {
	api           *tgbotapi.BotAPI
	ledgerService service.LedgerService
}

func New(api *tgbotapi.BotAPI, ledgerService service.LedgerService) *Feature {
	return &Feature{
		api:           api,
		ledgerService: ledgerService,
	}
}
