package onboarding

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"refbot/service"
)

// Config holds the onboarding texts' variable parts
type Config struct {
	WebsiteURL    string
	SignupBonus   int64 // cents
	ReferralBonus int64 // cents
}

type Feature struct {
	api           *tgbotapi.BotAPI
	ledgerService service.LedgerService
	config        Config
}

func New(api *tgbotapi.BotAPI, ledgerService service.LedgerService, config Config) *Feature {
	return &Feature{
		api:           api,
		ledgerService: ledgerService,
		config:        config,
	}
}
