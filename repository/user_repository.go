package repository

import (
	"context"
	"fmt"

	"refbot/database"
	"refbot/models"

	"github.com/jackc/pgx/v5"
)

// UserRepository provides access to user account records
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository bound to a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByTelegramID retrieves a user by their Telegram ID.
// Returns nil without error when no account exists.
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	query := `
		SELECT telegram_id, username, balance, referral_count, referred_by, created_at, updated_at
		FROM users
		WHERE telegram_id = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, telegramID).Scan(
		&user.TelegramID,
		&user.Username,
		&user.Balance,
		&user.ReferralCount,
		&user.ReferredBy,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by telegram ID %d: %w", telegramID, err)
	}

	return &user, nil
}

// Create creates a new user with the signup bonus as the initial balance
func (r *UserRepository) Create(ctx context.Context, telegramID int64, username string, referredBy *int64, initialBalance int64) (*models.User, error) {
	query := `
		INSERT INTO users (telegram_id, username, balance, referred_by)
		VALUES ($1, $2, $3, $4)
		RETURNING telegram_id, username, balance, referral_count, referred_by, created_at, updated_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, telegramID, username, initialBalance, referredBy).Scan(
		&user.TelegramID,
		&user.Username,
		&user.Balance,
		&user.ReferralCount,
		&user.ReferredBy,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user with telegram ID %d: %w", telegramID, err)
	}

	return &user, nil
}

// CreditReferralBonus atomically credits a referrer's balance and bumps
// their referral count. Returns nil user when the referrer does not exist,
// which callers treat as a silent skip.
func (r *UserRepository) CreditReferralBonus(ctx context.Context, referrerID int64, amount int64) (*models.User, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET balance = balance + $1, referral_count = referral_count + 1, updated_at = NOW()
		WHERE telegram_id = $2
		RETURNING telegram_id, username, balance, referral_count, referred_by, created_at, updated_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, amount, referrerID).Scan(
		&user.TelegramID,
		&user.Username,
		&user.Balance,
		&user.ReferralCount,
		&user.ReferredBy,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to credit referral bonus for user %d: %w", referrerID, err)
	}

	return &user, nil
}

// DebitForWithdrawal deducts the withdrawal amount only if the balance
// covers it. The conditional update makes concurrent withdrawals safe:
// at most one of two racing debits can succeed. Returns the new balance
// and whether the debit was applied.
func (r *UserRepository) DebitForWithdrawal(ctx context.Context, telegramID int64, amount int64) (int64, bool, error) {
	if amount <= 0 {
		return 0, false, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET balance = balance - $1, updated_at = NOW()
		WHERE telegram_id = $2 AND balance >= $1
		RETURNING balance
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, amount, telegramID).Scan(&newBalance)

	if err == pgx.ErrNoRows {
		// Missing user or insufficient balance
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to debit balance for user %d: %w", telegramID, err)
	}

	return newBalance, true, nil
}
