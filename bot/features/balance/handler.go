package balance

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"refbot/bot/common"
	"refbot/service"
)

// HandleBalance replies with the caller's balance and referral count,
// offering the inline Withdraw button.
func (f *Feature) HandleBalance(ctx context.Context, update tgbotapi.Update) {
	from := update.Message.From
	chatID := update.Message.Chat.ID

	user, err := f.ledgerService.GetBalance(ctx, from.ID, common.DisplayName(from))
	if err != nil {
		log.Errorf("Error getting balance for user %d: %v", from.ID, err)
		common.SendText(f.api, chatID, "Unable to retrieve balance. Please try again.")
		return
	}

	text := fmt.Sprintf("💰 Balance: $%s\n👥 Referrals: %d",
		common.FormatBalance(user.Balance), user.ReferralCount)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💸 Withdraw", WithdrawCallback),
		),
	)
	common.SendWithKeyboard(f.api, chatID, text, keyboard)
}

// HandleWithdraw processes a press of the Withdraw button
func (f *Feature) HandleWithdraw(ctx context.Context, query *tgbotapi.CallbackQuery) {
	from := query.From

	// Telegram omits Message on callback queries when the originating
	// message is too old. This is a private chat, so the user's ID is
	// the chat ID.
	chatID := from.ID
	if query.Message != nil {
		chatID = query.Message.Chat.ID
	}

	result, err := f.ledgerService.Withdraw(ctx, from.ID, common.DisplayName(from))
	if err != nil {
		log.Errorf("Error withdrawing for user %d: %v", from.ID, err)
		common.SendText(f.api, chatID, "Unable to process withdrawal. Please try again.")
		common.AckCallback(f.api, query.ID)
		return
	}

	if result.Withdrawn {
		common.SendText(f.api, chatID, fmt.Sprintf("✅ Withdrawal successful!\n🔑 Your code:\n%s", result.Code))
	} else {
		common.SendText(f.api, chatID, fmt.Sprintf("❌ Minimum $%s required to withdraw!",
			service.FormatAmount(f.withdrawalAmount)))
	}

	common.AckCallback(f.api, query.ID)
}
