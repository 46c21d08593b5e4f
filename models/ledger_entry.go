package models

import (
	"time"
)

// EntryType represents the type of ledger entry
type EntryType string

const (
	EntryTypeReferralBonus EntryType = "referral_bonus"
	EntryTypeWithdrawal    EntryType = "withdrawal"
)

// LedgerEntry represents a single credit or debit on a user's account.
// Description holds the exact text shown to the user in /history.
type LedgerEntry struct {
	ID           int64     `db:"id"`
	TelegramID   int64     `db:"telegram_id"`
	EntryType    EntryType `db:"entry_type"`
	Amount       int64     `db:"amount"` // signed cents
	BalanceAfter int64     `db:"balance_after"`
	Description  string    `db:"description"`
	CreatedAt    time.Time `db:"created_at"`
}
