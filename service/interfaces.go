package service

import (
	"context"

	"refbot/events"
	"refbot/models"
)

// UserRepository defines the interface for user account data access
type UserRepository interface {
	// GetByTelegramID retrieves a user by their Telegram ID, nil if absent
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)

	// Create creates a new user with the signup bonus as the initial balance
	Create(ctx context.Context, telegramID int64, username string, referredBy *int64, initialBalance int64) (*models.User, error)

	// CreditReferralBonus atomically credits a referrer and bumps their
	// referral count; returns nil when the referrer does not exist
	CreditReferralBonus(ctx context.Context, referrerID int64, amount int64) (*models.User, error)

	// DebitForWithdrawal conditionally deducts the withdrawal amount;
	// reports whether the debit was applied
	DebitForWithdrawal(ctx context.Context, telegramID int64, amount int64) (int64, bool, error)
}

// LedgerRepository defines the interface for account history access
type LedgerRepository interface {
	// Append records a new ledger entry
	Append(ctx context.Context, entry *models.LedgerEntry) error

	// GetByUser returns the newest entries for a user, oldest first
	GetByUser(ctx context.Context, telegramID int64, limit int) ([]*models.LedgerEntry, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// WithdrawalResult is the outcome of a withdrawal attempt.
// Withdrawn false means the balance did not cover the withdrawal amount;
// that is a normal result, not an error.
type WithdrawalResult struct {
	Withdrawn  bool
	Code       string
	NewBalance int64
}

// LedgerService defines the interface for account ledger operations
type LedgerService interface {
	// GetOrCreateUser retrieves an existing account or creates one with the
	// signup bonus, crediting the referrer when one is named and exists.
	// The referrer is only honored on the very first interaction.
	GetOrCreateUser(ctx context.Context, telegramID int64, username string, referredBy *int64) (*models.User, error)

	// GetBalance returns the (possibly newly created) account for display
	GetBalance(ctx context.Context, telegramID int64, username string) (*models.User, error)

	// Withdraw debits one withdrawal amount and issues a redemption code
	Withdraw(ctx context.Context, telegramID int64, username string) (*WithdrawalResult, error)

	// GetHistory returns the account's recent ledger entries, oldest first
	GetHistory(ctx context.Context, telegramID int64, username string) ([]*models.LedgerEntry, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	LedgerRepository() LedgerRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
