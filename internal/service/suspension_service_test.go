package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lendora/loan-engine/internal/domain"
	customError "github.com/lendora/loan-engine/pkg/errors"
	"github.com/lendora/loan-engine/pkg/utils"
	"github.com/lendora/loan-engine/tests/mocks"
)

func TestSuspend(t *testing.T) {
	admin := &domain.Account{ID: "acc-admin", Role: domain.RoleAdmin}
	manager := &domain.Account{ID: "acc-manager", Role: domain.RoleManager}
	borrower := func() *domain.Account {
		return &domain.Account{ID: "acc-borrower", Role: domain.RoleBorrower}
	}

	t.Run("Success - admin suspends borrower for one hour", func(t *testing.T) {
		accountRepo := &mocks.MockAccountRepository{}
		accountRepo.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
		accountRepo.On("GetByID", mock.Anything, "acc-borrower").Return(borrower(), nil)
		accountRepo.On("SetSuspension", mock.Anything, "acc-borrower", mock.MatchedBy(func(until *time.Time) bool {
			return until != nil && time.Until(*until) > 55*time.Minute && time.Until(*until) <= time.Hour
		}), "repeated chargebacks").Return(nil)

		service := NewSuspensionService(accountRepo)
		account, err := service.Suspend(context.Background(), admin.ID, "acc-borrower", &domain.SuspendAccountRequest{
			Reason:       "repeated chargebacks",
			Duration:     1,
			DurationType: utils.DurationHour,
		})

		assert.NoError(t, err)
		assert.True(t, account.Suspended)
		assert.NotNil(t, account.SuspendUntil)

		// Suspended now, active once the wall clock passes the expiry, with
		// no further write
		assert.False(t, account.IsActive(time.Now()))
		assert.True(t, account.IsActive(account.SuspendUntil.Add(time.Second)))
		accountRepo.AssertExpectations(t)
	})

	t.Run("Success - admin suspends permanently", func(t *testing.T) {
		accountRepo := &mocks.MockAccountRepository{}
		accountRepo.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
		accountRepo.On("GetByID", mock.Anything, "acc-borrower").Return(borrower(), nil)
		accountRepo.On("SetSuspension", mock.Anything, "acc-borrower", (*time.Time)(nil), "fraud").Return(nil)

		service := NewSuspensionService(accountRepo)
		account, err := service.Suspend(context.Background(), admin.ID, "acc-borrower", &domain.SuspendAccountRequest{
			Reason:    "fraud",
			Permanent: true,
		})

		assert.NoError(t, err)
		assert.True(t, account.Suspended)
		assert.Nil(t, account.SuspendUntil)
		assert.False(t, account.IsActive(time.Now().AddDate(10, 0, 0)))
	})

	t.Run("Failure - manager cannot suspend permanently", func(t *testing.T) {
		accountRepo := &mocks.MockAccountRepository{}
		accountRepo.On("GetByID", mock.Anything, manager.ID).Return(manager, nil)
		accountRepo.On("GetByID", mock.Anything, "acc-borrower").Return(borrower(), nil)

		service := NewSuspensionService(accountRepo)
		_, err := service.Suspend(context.Background(), manager.ID, "acc-borrower", &domain.SuspendAccountRequest{
			Reason:    "spam",
			Permanent: true,
		})

		assert.ErrorIs(t, err, customError.ErrForbidden)
		accountRepo.AssertNotCalled(t, "SetSuspension", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - blank reason is rejected", func(t *testing.T) {
		accountRepo := &mocks.MockAccountRepository{}
		accountRepo.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
		accountRepo.On("GetByID", mock.Anything, "acc-borrower").Return(borrower(), nil)

		service := NewSuspensionService(accountRepo)
		_, err := service.Suspend(context.Background(), admin.ID, "acc-borrower", &domain.SuspendAccountRequest{
			Reason:       "   ",
			Duration:     1,
			DurationType: utils.DurationDay,
		})

		assert.ErrorIs(t, err, customError.ErrValidation)
	})

	t.Run("Failure - zero duration is rejected", func(t *testing.T) {
		accountRepo := &mocks.MockAccountRepository{}
		accountRepo.On("GetByID", mock.Anything, manager.ID).Return(manager, nil)
		accountRepo.On("GetByID", mock.Anything, "acc-borrower").Return(borrower(), nil)

		service := NewSuspensionService(accountRepo)
		_, err := service.Suspend(context.Background(), manager.ID, "acc-borrower", &domain.SuspendAccountRequest{
			Reason:       "late payments",
			Duration:     0,
			DurationType: utils.DurationDay,
		})

		assert.ErrorIs(t, err, customError.ErrValidation)
	})

	t.Run("Failure - manager cannot suspend another manager", func(t *testing.T) {
		accountRepo := &mocks.MockAccountRepository{}
		other := &domain.Account{ID: "acc-manager-2", Role: domain.RoleManager}
		accountRepo.On("GetByID", mock.Anything, manager.ID).Return(manager, nil)
		accountRepo.On("GetByID", mock.Anything, other.ID).Return(other, nil)

		service := NewSuspensionService(accountRepo)
		_, err := service.Suspend(context.Background(), manager.ID, other.ID, &domain.SuspendAccountRequest{
			Reason:       "abuse",
			Duration:     1,
			DurationType: utils.DurationWeek,
		})

		assert.ErrorIs(t, err, customError.ErrForbidden)
	})

	t.Run("Failure - suspended actor cannot suspend others", func(t *testing.T) {
		accountRepo := &mocks.MockAccountRepository{}
		until := time.Now().Add(time.Hour)
		suspendedManager := &domain.Account{
			ID:           manager.ID,
			Role:         domain.RoleManager,
			Suspended:    true,
			SuspendUntil: &until,
		}
		accountRepo.On("GetByID", mock.Anything, manager.ID).Return(suspendedManager, nil)

		service := NewSuspensionService(accountRepo)
		_, err := service.Suspend(context.Background(), manager.ID, "acc-borrower", &domain.SuspendAccountRequest{
			Reason:       "spam",
			Duration:     1,
			DurationType: utils.DurationDay,
		})

		assert.ErrorIs(t, err, customError.ErrSuspended)
	})
}

func TestUnsuspend(t *testing.T) {
	admin := &domain.Account{ID: "acc-admin", Role: domain.RoleAdmin}

	t.Run("Success - clears all suspension fields", func(t *testing.T) {
		accountRepo := &mocks.MockAccountRepository{}
		until := time.Now().Add(48 * time.Hour)
		suspended := &domain.Account{
			ID:               "acc-borrower",
			Role:             domain.RoleBorrower,
			Suspended:        true,
			SuspendUntil:     &until,
			SuspensionReason: "late payments",
		}
		accountRepo.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
		accountRepo.On("GetByID", mock.Anything, "acc-borrower").Return(suspended, nil)
		accountRepo.On("ClearSuspension", mock.Anything, "acc-borrower").Return(nil)

		service := NewSuspensionService(accountRepo)
		account, err := service.Unsuspend(context.Background(), admin.ID, "acc-borrower")

		assert.NoError(t, err)
		assert.False(t, account.Suspended)
		assert.Nil(t, account.SuspendUntil)
		assert.Empty(t, account.SuspensionReason)
		assert.True(t, account.IsActive(time.Now()))
	})

	t.Run("Failure - borrower cannot unsuspend", func(t *testing.T) {
		accountRepo := &mocks.MockAccountRepository{}
		actor := &domain.Account{ID: "acc-b1", Role: domain.RoleBorrower}
		target := &domain.Account{ID: "acc-b2", Role: domain.RoleBorrower, Suspended: true}
		accountRepo.On("GetByID", mock.Anything, actor.ID).Return(actor, nil)
		accountRepo.On("GetByID", mock.Anything, target.ID).Return(target, nil)

		service := NewSuspensionService(accountRepo)
		_, err := service.Unsuspend(context.Background(), actor.ID, target.ID)

		assert.ErrorIs(t, err, customError.ErrForbidden)
		accountRepo.AssertNotCalled(t, "ClearSuspension", mock.Anything, mock.Anything)
	})
}
