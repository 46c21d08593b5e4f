package service

import (
	"context"
	"errors"
	"testing"

	"refbot/events"
	"refbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testAmounts = Amounts{
	SignupBonus:      100,
	ReferralBonus:    10,
	WithdrawalAmount: 100,
}

type serviceMocks struct {
	factory    *MockUnitOfWorkFactory
	uow        *MockUnitOfWork
	userRepo   *MockUserRepository
	ledgerRepo *MockLedgerRepository
	publisher  *MockEventPublisher
}

func newTestService(t *testing.T) (LedgerService, *serviceMocks) {
	t.Helper()

	m := &serviceMocks{
		factory:    new(MockUnitOfWorkFactory),
		uow:        new(MockUnitOfWork),
		userRepo:   new(MockUserRepository),
		ledgerRepo: new(MockLedgerRepository),
		publisher:  &MockEventPublisher{},
	}
	m.uow.SetRepositories(m.userRepo, m.ledgerRepo, m.publisher)
	m.factory.On("Create").Return(m.uow)

	return NewLedgerService(m.factory, testAmounts), m
}

func TestLedgerService_GetOrCreateUser_ExistingUser(t *testing.T) {
	ctx := context.Background()
	service, m := newTestService(t)

	existingUser := &models.User{
		TelegramID:    123456,
		Username:      "testuser",
		Balance:       110,
		ReferralCount: 1,
	}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("GetByTelegramID", ctx, int64(123456)).Return(existingUser, nil)

	// A referrer on a repeat call is ignored
	referrerID := int64(77)
	user, err := service.GetOrCreateUser(ctx, 123456, "testuser", &referrerID)

	require.NoError(t, err)
	assert.Equal(t, existingUser, user)

	m.userRepo.AssertNotCalled(t, "Create")
	m.userRepo.AssertNotCalled(t, "CreditReferralBonus")
	m.ledgerRepo.AssertNotCalled(t, "Append")
	assert.Empty(t, m.publisher.Events)
}

func TestLedgerService_GetOrCreateUser_NewUserNoReferrer(t *testing.T) {
	ctx := context.Background()
	service, m := newTestService(t)

	newUser := &models.User{
		TelegramID: 123456,
		Username:   "newuser",
		Balance:    testAmounts.SignupBonus,
	}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("GetByTelegramID", ctx, int64(123456)).Return(nil, nil)
	m.userRepo.On("Create", ctx, int64(123456), "newuser", (*int64)(nil), testAmounts.SignupBonus).Return(newUser, nil)

	user, err := service.GetOrCreateUser(ctx, 123456, "newuser", nil)

	require.NoError(t, err)
	assert.Equal(t, newUser, user)

	// No history entry for the signup bonus itself
	m.ledgerRepo.AssertNotCalled(t, "Append")

	require.Len(t, m.publisher.Events, 1)
	created, ok := m.publisher.Events[0].(events.UserCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(123456), created.TelegramID)
	assert.Equal(t, testAmounts.SignupBonus, created.InitialBalance)
	assert.Nil(t, created.ReferredBy)
}

func TestLedgerService_GetOrCreateUser_ReferrerCredited(t *testing.T) {
	ctx := context.Background()
	service, m := newTestService(t)

	referrerID := int64(111)
	newUser := &models.User{
		TelegramID: 222,
		Username:   "u2",
		Balance:    testAmounts.SignupBonus,
		ReferredBy: &referrerID,
	}
	creditedReferrer := &models.User{
		TelegramID:    111,
		Username:      "u1",
		Balance:       110,
		ReferralCount: 1,
	}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("GetByTelegramID", ctx, int64(222)).Return(nil, nil)
	m.userRepo.On("Create", ctx, int64(222), "u2", &referrerID, testAmounts.SignupBonus).Return(newUser, nil)
	m.userRepo.On("CreditReferralBonus", ctx, int64(111), testAmounts.ReferralBonus).Return(creditedReferrer, nil)
	m.ledgerRepo.On("Append", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.TelegramID == 111 &&
			e.EntryType == models.EntryTypeReferralBonus &&
			e.Amount == testAmounts.ReferralBonus &&
			e.BalanceAfter == 110 &&
			e.Description == "+0.1$ from referral 222"
	})).Return(nil)

	user, err := service.GetOrCreateUser(ctx, 222, "u2", &referrerID)

	require.NoError(t, err)
	assert.Equal(t, newUser, user)

	m.userRepo.AssertExpectations(t)
	m.ledgerRepo.AssertExpectations(t)

	require.Len(t, m.publisher.Events, 2)
	bonus, ok := m.publisher.Events[1].(events.ReferralBonusEvent)
	require.True(t, ok)
	assert.Equal(t, int64(111), bonus.ReferrerID)
	assert.Equal(t, int64(222), bonus.NewUserID)
	assert.Equal(t, testAmounts.ReferralBonus, bonus.Amount)
}

func TestLedgerService_GetOrCreateUser_SelfReferral(t *testing.T) {
	ctx := context.Background()
	service, m := newTestService(t)

	selfID := int64(123456)
	newUser := &models.User{
		TelegramID: selfID,
		Balance:    testAmounts.SignupBonus,
		ReferredBy: &selfID,
	}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("GetByTelegramID", ctx, selfID).Return(nil, nil)
	m.userRepo.On("Create", ctx, selfID, "selfref", &selfID, testAmounts.SignupBonus).Return(newUser, nil)

	_, err := service.GetOrCreateUser(ctx, selfID, "selfref", &selfID)

	require.NoError(t, err)
	m.userRepo.AssertNotCalled(t, "CreditReferralBonus")
	m.ledgerRepo.AssertNotCalled(t, "Append")
}

func TestLedgerService_GetOrCreateUser_UnknownReferrer(t *testing.T) {
	ctx := context.Background()
	service, m := newTestService(t)

	referrerID := int64(999)
	newUser := &models.User{
		TelegramID: 222,
		Balance:    testAmounts.SignupBonus,
		ReferredBy: &referrerID,
	}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("GetByTelegramID", ctx, int64(222)).Return(nil, nil)
	m.userRepo.On("Create", ctx, int64(222), "u2", &referrerID, testAmounts.SignupBonus).Return(newUser, nil)
	// Referrer does not exist: credited silently skipped
	m.userRepo.On("CreditReferralBonus", ctx, int64(999), testAmounts.ReferralBonus).Return(nil, nil)

	user, err := service.GetOrCreateUser(ctx, 222, "u2", &referrerID)

	require.NoError(t, err)
	assert.Equal(t, newUser, user)

	m.ledgerRepo.AssertNotCalled(t, "Append")
	require.Len(t, m.publisher.Events, 1)
	assert.Equal(t, events.EventTypeUserCreated, m.publisher.Events[0].Type())
}

func TestLedgerService_GetOrCreateUser_CreateError(t *testing.T) {
	ctx := context.Background()
	service, m := newTestService(t)

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("GetByTelegramID", ctx, int64(123456)).Return(nil, nil)
	m.userRepo.On("Create", ctx, int64(123456), "failuser", (*int64)(nil), testAmounts.SignupBonus).Return(nil, errors.New("database error"))

	user, err := service.GetOrCreateUser(ctx, 123456, "failuser", nil)

	require.Error(t, err)
	assert.Nil(t, user)
	assert.Contains(t, err.Error(), "failed to create user")
	m.uow.AssertNotCalled(t, "Commit")
}

func TestLedgerService_Withdraw_Success(t *testing.T) {
	ctx := context.Background()
	service, m := newTestService(t)

	existingUser := &models.User{
		TelegramID: 111,
		Username:   "u1",
		Balance:    110,
	}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("GetByTelegramID", ctx, int64(111)).Return(existingUser, nil)
	m.userRepo.On("DebitForWithdrawal", ctx, int64(111), testAmounts.WithdrawalAmount).Return(int64(10), true, nil)
	m.ledgerRepo.On("Append", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.TelegramID == 111 &&
			e.EntryType == models.EntryTypeWithdrawal &&
			e.Amount == -testAmounts.WithdrawalAmount &&
			e.BalanceAfter == 10
	})).Return(nil)

	result, err := service.Withdraw(ctx, 111, "u1")

	require.NoError(t, err)
	assert.True(t, result.Withdrawn)
	assert.Len(t, result.Code, 20)
	assert.Equal(t, int64(10), result.NewBalance)

	// The history entry carries the issued code
	appended := m.ledgerRepo.Calls[0].Arguments.Get(1).(*models.LedgerEntry)
	assert.Equal(t, "-1$ Withdraw → Code: "+result.Code, appended.Description)

	require.Len(t, m.publisher.Events, 1)
	withdrawal, ok := m.publisher.Events[0].(events.WithdrawalEvent)
	require.True(t, ok)
	assert.Equal(t, result.Code, withdrawal.Code)
	assert.Equal(t, testAmounts.WithdrawalAmount, withdrawal.Amount)
}

func TestLedgerService_Withdraw_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	service, m := newTestService(t)

	existingUser := &models.User{
		TelegramID: 111,
		Username:   "u1",
		Balance:    10,
	}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("GetByTelegramID", ctx, int64(111)).Return(existingUser, nil)

	result, err := service.Withdraw(ctx, 111, "u1")

	require.NoError(t, err)
	assert.False(t, result.Withdrawn)
	assert.Empty(t, result.Code)

	m.userRepo.AssertNotCalled(t, "DebitForWithdrawal")
	m.ledgerRepo.AssertNotCalled(t, "Append")
	assert.Empty(t, m.publisher.Events)
}

func TestLedgerService_Withdraw_LostRace(t *testing.T) {
	ctx := context.Background()
	service, m := newTestService(t)

	existingUser := &models.User{
		TelegramID: 111,
		Username:   "u1",
		Balance:    100,
	}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("GetByTelegramID", ctx, int64(111)).Return(existingUser, nil)
	// A concurrent withdrawal claimed the balance after the read
	m.userRepo.On("DebitForWithdrawal", ctx, int64(111), testAmounts.WithdrawalAmount).Return(int64(0), false, nil)

	result, err := service.Withdraw(ctx, 111, "u1")

	require.NoError(t, err)
	assert.False(t, result.Withdrawn)
	m.ledgerRepo.AssertNotCalled(t, "Append")
	assert.Empty(t, m.publisher.Events)
}

func TestLedgerService_Withdraw_CreatesAccountFirst(t *testing.T) {
	ctx := context.Background()
	service, m := newTestService(t)

	newUser := &models.User{
		TelegramID: 333,
		Username:   "fresh",
		Balance:    testAmounts.SignupBonus,
	}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("GetByTelegramID", ctx, int64(333)).Return(nil, nil)
	m.userRepo.On("Create", ctx, int64(333), "fresh", (*int64)(nil), testAmounts.SignupBonus).Return(newUser, nil)
	m.userRepo.On("DebitForWithdrawal", ctx, int64(333), testAmounts.WithdrawalAmount).Return(int64(0), true, nil)
	m.ledgerRepo.On("Append", ctx, mock.Anything).Return(nil)

	result, err := service.Withdraw(ctx, 333, "fresh")

	require.NoError(t, err)
	assert.True(t, result.Withdrawn)
	assert.Equal(t, int64(0), result.NewBalance)
}

func TestLedgerService_GetHistory(t *testing.T) {
	ctx := context.Background()
	service, m := newTestService(t)

	existingUser := &models.User{TelegramID: 111, Balance: 10}
	entries := []*models.LedgerEntry{
		{TelegramID: 111, Description: "+0.1$ from referral 222"},
		{TelegramID: 111, Description: "-1$ Withdraw → Code: abc"},
	}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("GetByTelegramID", ctx, int64(111)).Return(existingUser, nil)
	m.ledgerRepo.On("GetByUser", ctx, int64(111), historyLimit).Return(entries, nil)

	got, err := service.GetHistory(ctx, 111, "u1")

	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestLedgerService_GetBalance_DelegatesToGetOrCreate(t *testing.T) {
	ctx := context.Background()
	service, m := newTestService(t)

	existingUser := &models.User{TelegramID: 111, Balance: 110, ReferralCount: 1}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.userRepo.On("GetByTelegramID", ctx, int64(111)).Return(existingUser, nil)

	user, err := service.GetBalance(ctx, 111, "u1")

	require.NoError(t, err)
	assert.Equal(t, existingUser, user)
}
