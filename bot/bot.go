package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"refbot/bot/features/balance"
	"refbot/bot/features/history"
	"refbot/bot/features/onboarding"
	"refbot/events"
	"refbot/service"
)

// Config holds bot configuration
type Config struct {
	Token            string
	LogChannelID     int64
	WebsiteURL       string
	SignupBonus      int64
	ReferralBonus    int64
	WithdrawalAmount int64
}

type Bot struct {
	config     Config
	api        *tgbotapi.BotAPI
	onboarding *onboarding.Feature
	balance    *balance.Feature
	history    *history.Feature
	eventBus   *events.Bus
}

func New(config Config, ledgerService service.LedgerService, eventBus *events.Bus) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating telegram session: %w", err)
	}

	bot := &Bot{
		config: config,
		api:    api,
		onboarding: onboarding.New(api, ledgerService, onboarding.Config{
			WebsiteURL:    config.WebsiteURL,
			SignupBonus:   config.SignupBonus,
			ReferralBonus: config.ReferralBonus,
		}),
		balance:  balance.New(api, ledgerService, config.WithdrawalAmount),
		history:  history.New(api, ledgerService),
		eventBus: eventBus,
	}

	// Route ledger events to the log channel
	bot.subscribeNotifications()

	return bot, nil
}

// Start runs the long-poll update loop until the context is cancelled.
// Each update is handled in its own goroutine, so concurrency comes from
// the transport; per-account safety lives in the store's atomic updates.
func (b *Bot) Start(ctx context.Context) {
	log.Infof("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.route(ctx, update)
		}
	}
}

func (b *Bot) route(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		switch update.Message.Command() {
		case "start":
			b.dispatch("start", func() { b.onboarding.HandleStart(ctx, update) })
		case "refer":
			b.dispatch("refer", func() { b.onboarding.HandleRefer(ctx, update) })
		case "balance":
			b.dispatch("balance", func() { b.balance.HandleBalance(ctx, update) })
		case "history":
			b.dispatch("history", func() { b.history.HandleHistory(ctx, update) })
		}
	case update.CallbackQuery != nil:
		if update.CallbackQuery.Data == balance.WithdrawCallback {
			b.dispatch("withdraw", func() { b.balance.HandleWithdraw(ctx, update.CallbackQuery) })
		}
	}
}

// dispatch runs a handler in its own goroutine. A panicking handler is
// logged and dropped so one malformed update cannot take the bot down.
func (b *Bot) dispatch(name string, handler func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(log.Fields{
					"handler": name,
					"panic":   r,
				}).Error("Update handler panicked")
			}
		}()
		handler()
	}()
}

func (b *Bot) Close() {
	b.api.StopReceivingUpdates()
}
