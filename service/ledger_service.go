package service

import (
	"context"
	"fmt"

	"refbot/events"
	"refbot/models"
)

// historyLimit caps how many ledger entries a single /history read returns.
// The underlying table is append-only and unbounded.
const historyLimit = 50

// Amounts holds the ledger's bonus and withdrawal sizes in cents
type Amounts struct {
	SignupBonus      int64
	ReferralBonus    int64
	WithdrawalAmount int64
}

// ledgerService implements the LedgerService interface
type ledgerService struct {
	uowFactory UnitOfWorkFactory
	amounts    Amounts
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory, amounts Amounts) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
		amounts:    amounts,
	}
}

// GetOrCreateUser retrieves an existing account or creates a new one with
// the signup bonus. For a brand-new account, a named referrer (that exists
// and is not the caller) is credited in the same transaction.
func (s *ledgerService) GetOrCreateUser(ctx context.Context, telegramID int64, username string, referredBy *int64) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := s.getOrCreate(ctx, uow, telegramID, username, referredBy)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// getOrCreate is the shared find-or-create step used by every operation.
// It must run inside an already-begun unit of work.
func (s *ledgerService) getOrCreate(ctx context.Context, uow UnitOfWork, telegramID int64, username string, referredBy *int64) (*models.User, error) {
	user, err := uow.UserRepository().GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	// Existing account: the referrer argument is ignored, only the first
	// interaction can set it
	if user != nil {
		return user, nil
	}

	user, err = uow.UserRepository().Create(ctx, telegramID, username, referredBy, s.amounts.SignupBonus)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		TelegramID:     telegramID,
		Username:       username,
		ReferredBy:     referredBy,
		InitialBalance: user.Balance,
	})

	if referredBy != nil && *referredBy != telegramID {
		if err := s.creditReferrer(ctx, uow, *referredBy, telegramID); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// creditReferrer pays the referral bonus for a new signup. A referrer that
// does not exist is skipped without error or notification.
func (s *ledgerService) creditReferrer(ctx context.Context, uow UnitOfWork, referrerID, newUserID int64) error {
	referrer, err := uow.UserRepository().CreditReferralBonus(ctx, referrerID, s.amounts.ReferralBonus)
	if err != nil {
		return fmt.Errorf("failed to credit referrer: %w", err)
	}
	if referrer == nil {
		return nil
	}

	entry := &models.LedgerEntry{
		TelegramID:   referrerID,
		EntryType:    models.EntryTypeReferralBonus,
		Amount:       s.amounts.ReferralBonus,
		BalanceAfter: referrer.Balance,
		Description:  fmt.Sprintf("+%s$ from referral %d", FormatAmount(s.amounts.ReferralBonus), newUserID),
	}
	if err := uow.LedgerRepository().Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to record referral bonus: %w", err)
	}

	uow.EventBus().Publish(events.ReferralBonusEvent{
		ReferrerID: referrerID,
		NewUserID:  newUserID,
		Amount:     s.amounts.ReferralBonus,
	})

	return nil
}

// GetBalance returns the (possibly newly created) account for display
func (s *ledgerService) GetBalance(ctx context.Context, telegramID int64, username string) (*models.User, error) {
	return s.GetOrCreateUser(ctx, telegramID, username, nil)
}

// Withdraw debits one withdrawal amount from the account and issues a
// redemption code. The debit is a conditional update, so the balance can
// never go negative even under concurrent attempts.
func (s *ledgerService) Withdraw(ctx context.Context, telegramID int64, username string) (*WithdrawalResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := s.getOrCreate(ctx, uow, telegramID, username, nil)
	if err != nil {
		return nil, err
	}

	if user.Balance < s.amounts.WithdrawalAmount {
		// The account may still have been created above
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return &WithdrawalResult{}, nil
	}

	code, err := NewWithdrawalCode()
	if err != nil {
		return nil, err
	}

	newBalance, debited, err := uow.UserRepository().DebitForWithdrawal(ctx, telegramID, s.amounts.WithdrawalAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to debit balance: %w", err)
	}
	if !debited {
		// A concurrent withdrawal drained the balance between the read
		// and the conditional debit
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return &WithdrawalResult{}, nil
	}

	entry := &models.LedgerEntry{
		TelegramID:   telegramID,
		EntryType:    models.EntryTypeWithdrawal,
		Amount:       -s.amounts.WithdrawalAmount,
		BalanceAfter: newBalance,
		Description:  fmt.Sprintf("-%s$ Withdraw → Code: %s", FormatAmount(s.amounts.WithdrawalAmount), code),
	}
	if err := uow.LedgerRepository().Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record withdrawal: %w", err)
	}

	uow.EventBus().Publish(events.WithdrawalEvent{
		TelegramID: telegramID,
		Username:   username,
		Amount:     s.amounts.WithdrawalAmount,
		Code:       code,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &WithdrawalResult{
		Withdrawn:  true,
		Code:       code,
		NewBalance: newBalance,
	}, nil
}

// GetHistory returns the account's recent ledger entries, oldest first
func (s *ledgerService) GetHistory(ctx context.Context, telegramID int64, username string) ([]*models.LedgerEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := s.getOrCreate(ctx, uow, telegramID, username, nil); err != nil {
		return nil, err
	}

	entries, err := uow.LedgerRepository().GetByUser(ctx, telegramID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entries, nil
}
