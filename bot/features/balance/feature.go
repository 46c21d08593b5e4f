package balance

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"refbot/service"
)

// WithdrawCallback is the callback data of the inline Withdraw button
const WithdrawCallback = "withdraw"

type Feature struct {
	api              *tgbotapi.BotAPI
	ledgerService    service.LedgerService
	withdrawalAmount int64 // cents
}

func New(api *tgbotapi.BotAPI, ledgerService service.LedgerService, withdrawalAmount int64) *Feature {
	return &Feature{
		api:              api,
		ledgerService:    ledgerService,
		withdrawalAmount: withdrawalAmount,
	}
}
