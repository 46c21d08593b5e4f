package common

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// SendText sends a plain text reply to a chat
func SendText(api *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := api.Send(msg); err != nil {
		log.Errorf("Error sending message to chat %d: %v", chatID, err)
	}
}

// SendWithKeyboard sends a text reply with an inline keyboard attached
func SendWithKeyboard(api *tgbotapi.BotAPI, chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := api.Send(msg); err != nil {
		log.Errorf("Error sending message to chat %d: %v", chatID, err)
	}
}

// AckCallback confirms a callback query so the client stops showing a spinner
func AckCallback(api *tgbotapi.BotAPI, queryID string) {
	callback := tgbotapi.NewCallback(queryID, "")
	if _, err := api.Request(callback); err != nil {
		log.Errorf("Error acknowledging callback query: %v", err)
	}
}

// DisplayName returns the best human-readable name for a Telegram user
func DisplayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}
