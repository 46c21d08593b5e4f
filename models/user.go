package models

import (
	"time"
)

// User represents a Telegram user with a balance
type User struct {
	TelegramID    int64     `db:"telegram_id"`
	Username      string    `db:"username"`
	Balance       int64     `db:"balance"` // cents
	ReferralCount int       `db:"referral_count"`
	ReferredBy    *int64    `db:"referred_by"` // set at creation, never changed
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
