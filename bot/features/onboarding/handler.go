package onboarding

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"refbot/bot/common"
	"refbot/service"
)

// HandleStart creates the caller's account on first contact, crediting the
// referrer named in the deep-link argument when there is one.
func (f *Feature) HandleStart(ctx context.Context, update tgbotapi.Update) {
	from := update.Message.From
	chatID := update.Message.Chat.ID

	var referredBy *int64
	if arg := update.Message.CommandArguments(); arg != "" {
		if referrerID, err := strconv.ParseInt(arg, 10, 64); err == nil {
			referredBy = &referrerID
		}
	}

	if _, err := f.ledgerService.GetOrCreateUser(ctx, from.ID, common.DisplayName(from), referredBy); err != nil {
		log.Errorf("Error ensuring account for user %d: %v", from.ID, err)
		common.SendText(f.api, chatID, "Something went wrong. Please try again.")
		return
	}

	text := fmt.Sprintf("👋 Welcome %s!\n🎁 You got $%s signup bonus!\nStart playing now 👇",
		from.FirstName, service.FormatAmount(f.config.SignupBonus))

	if f.config.WebsiteURL == "" {
		common.SendText(f.api, chatID, text)
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonWebApp("▶️ Play", tgbotapi.WebAppInfo{URL: f.config.WebsiteURL}),
		),
	)
	common.SendWithKeyboard(f.api, chatID, text, keyboard)
}

// HandleRefer replies with the caller's personal referral link
func (f *Feature) HandleRefer(ctx context.Context, update tgbotapi.Update) {
	from := update.Message.From
	chatID := update.Message.Chat.ID

	if _, err := f.ledgerService.GetOrCreateUser(ctx, from.ID, common.DisplayName(from), nil); err != nil {
		log.Errorf("Error ensuring account for user %d: %v", from.ID, err)
		common.SendText(f.api, chatID, "Something went wrong. Please try again.")
		return
	}

	link := fmt.Sprintf("https://t.me/%s?start=%d", f.api.Self.UserName, from.ID)
	text := fmt.Sprintf("🔗 Your referral link:\n%s\nShare & earn $%s per friend!",
		link, service.FormatAmount(f.config.ReferralBonus))
	common.SendText(f.api, chatID, text)
}
