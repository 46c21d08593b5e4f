package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"refbot/events"
	"refbot/service"
)

// subscribeNotifications wires ledger events to the operational log
// channel. Handlers run on the event bus's goroutines after the owning
// transaction commits; a failed send is logged and never fails the
// operation that produced the event.
func (b *Bot) subscribeNotifications() {
	if b.config.LogChannelID == 0 {
		log.Warn("LOG_CHANNEL_ID not set, channel notifications disabled")
		return
	}

	b.eventBus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.UserCreatedEvent)
		if !ok {
			return
		}
		referredBy := "None"
		if e.ReferredBy != nil {
			referredBy = fmt.Sprintf("%d", *e.ReferredBy)
		}
		b.notify(fmt.Sprintf("🆕 New User Joined:\nName/ID: %d\nReferred By: %s\nBalance: $%s",
			e.TelegramID, referredBy, service.FormatAmount(e.InitialBalance)))
	})

	b.eventBus.Subscribe(events.EventTypeReferralBonus, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.ReferralBonusEvent)
		if !ok {
			return
		}
		b.notify(fmt.Sprintf("💰 Referral Bonus:\nUser: %d\nReferred New User: %d\nAmount: $%s",
			e.ReferrerID, e.NewUserID, service.FormatAmount(e.Amount)))
	})

	b.eventBus.Subscribe(events.EventTypeWithdrawal, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.WithdrawalEvent)
		if !ok {
			return
		}
		b.notify(fmt.Sprintf("💸 Withdraw:\nUser: %s\nID: %d\nCode: %s",
			e.Username, e.TelegramID, e.Code))
	})
}

// notify sends a best-effort message to the log channel
func (b *Bot) notify(text string) {
	msg := tgbotapi.NewMessage(b.config.LogChannelID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Errorf("Error sending log channel notification: %v", err)
	}
}
