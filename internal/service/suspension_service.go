package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lendora/loan-engine/internal/domain"
	"github.com/lendora/loan-engine/internal/policy"
	"github.com/lendora/loan-engine/internal/repository"
	customError "github.com/lendora/loan-engine/pkg/errors"
	"github.com/lendora/loan-engine/pkg/utils"
)

// SuspensionService sets and lifts account suspensions. It only writes the
// stored fields; whether a suspension is in effect is always decided lazily
// by Account.IsActive at guard time.
type SuspensionService struct {
	accountRepo repository.AccountRepository
}

func NewSuspensionService(accountRepo repository.AccountRepository) *SuspensionService {
	return &SuspensionService{accountRepo: accountRepo}
}

// Suspend blocks the target account. Managers must give a positive duration,
// converted to an absolute expiry; admins may instead suspend permanently.
// A new suspension replaces any existing one.
func (s *SuspensionService) Suspend(ctx context.Context, actorID, targetID string, request *domain.SuspendAccountRequest) (*domain.Account, error) {
	now := time.Now().UTC()

	actor, err := guardActor(ctx, s.accountRepo, actorID, now)
	if err != nil {
		return nil, err
	}

	target, err := s.getTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanSuspend(actor, target); err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(request.Reason)
	if reason == "" {
		return nil, customError.WrapValidation("a suspension reason is required")
	}

	var until *time.Time
	if request.Permanent {
		if actor.Role != domain.RoleAdmin {
			return nil, customError.WrapForbidden("only admins can suspend an account permanently")
		}
	} else {
		expiry, err := utils.SuspendUntil(now, request.Duration, request.DurationType)
		if err != nil {
			return nil, customError.WrapValidation(err.Error())
		}
		until = &expiry
	}

	if err := s.accountRepo.SetSuspension(ctx, target.ID, until, reason); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	target.Suspended = true
	target.SuspendUntil = until
	target.SuspensionReason = reason
	return target, nil
}

// Unsuspend lifts any suspension on the target unconditionally.
func (s *SuspensionService) Unsuspend(ctx context.Context, actorID, targetID string) (*domain.Account, error) {
	now := time.Now().UTC()

	actor, err := guardActor(ctx, s.accountRepo, actorID, now)
	if err != nil {
		return nil, err
	}

	target, err := s.getTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanSuspend(actor, target); err != nil {
		return nil, err
	}

	if err := s.accountRepo.ClearSuspension(ctx, target.ID); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	target.Suspended = false
	target.SuspendUntil = nil
	target.SuspensionReason = ""
	return target, nil
}

func (s *SuspensionService) getTarget(ctx context.Context, targetID string) (*domain.Account, error) {
	target, err := s.accountRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapNotFound("Account", targetID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return target, nil
}
