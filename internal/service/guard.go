package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lendora/loan-engine/internal/domain"
	"github.com/lendora/loan-engine/internal/repository"
	customError "github.com/lendora/loan-engine/pkg/errors"
)

// guardActor resolves the acting account and enforces the suspension gate.
// Every identity-initiated mutating operation goes through here before any
// lifecycle state is touched. Expiry is evaluated lazily against now; the
// stored suspended flag may be stale and that is fine.
func guardActor(ctx context.Context, accounts repository.AccountRepository, actorID string, now time.Time) (*domain.Account, error) {
	account, err := accounts.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapNotFound("Account", actorID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if !account.IsActive(now) {
		return nil, &customError.SuspensionError{
			Reason: account.SuspensionReason,
			Until:  account.SuspendUntil,
		}
	}

	return account, nil
}

// resolveActor resolves the acting account without the suspension gate, for
// read-only operations.
func resolveActor(ctx context.Context, accounts repository.AccountRepository, actorID string) (*domain.Account, error) {
	account, err := accounts.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapNotFound("Account", actorID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return account, nil
}
