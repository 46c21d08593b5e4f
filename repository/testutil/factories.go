package testutil

import (
	"time"

	"refbot/models"
)

// CreateTestUser creates a test user with default values
func CreateTestUser(telegramID int64, username string) *models.User {
	now := time.Now()
	return &models.User{
		TelegramID: telegramID,
		Username:   username,
		Balance:    100,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// CreateTestUserWithBalance creates a test user with a specific balance
func CreateTestUserWithBalance(telegramID int64, username string, balance int64) *models.User {
	user := CreateTestUser(telegramID, username)
	user.Balance = balance
	return user
}

// CreateTestLedgerEntry creates a test ledger entry
func CreateTestLedgerEntry(telegramID int64, entryType models.EntryType) *models.LedgerEntry {
	return &models.LedgerEntry{
		TelegramID:   telegramID,
		EntryType:    entryType,
		Amount:       10,
		BalanceAfter: 110,
		Description:  "+0.1$ from referral 42",
		CreatedAt:    time.Now(),
	}
}
