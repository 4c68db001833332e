package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lendora/loan-engine/internal/config"
	"github.com/lendora/loan-engine/internal/domain"
	"github.com/lendora/loan-engine/internal/policy"
	"github.com/lendora/loan-engine/internal/repository"
	customError "github.com/lendora/loan-engine/pkg/errors"
)

const (
	statsCacheKey = "applications:stats"
	statsCacheTTL = 5 * time.Minute
)

// ApplicationService owns the application lifecycle: a single pending state
// with three terminal exits. Transitions never cascade; paying the fee does
// not approve anything.
type ApplicationService struct {
	applicationRepo repository.ApplicationRepository
	accountRepo     repository.AccountRepository
	productRepo     repository.ProductRepository
	redis           *redis.Client
	config          *config.Config
}

func NewApplicationService(
	applicationRepo repository.ApplicationRepository,
	accountRepo repository.AccountRepository,
	productRepo repository.ProductRepository,
	redisClient *redis.Client,
	config *config.Config,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		accountRepo:     accountRepo,
		productRepo:     productRepo,
		redis:           redisClient,
		config:          config,
	}
}

// Create submits a new application in pending/unpaid on behalf of a borrower.
func (s *ApplicationService) Create(ctx context.Context, actorID string, request *domain.CreateApplicationRequest) (*domain.Application, error) {
	now := time.Now().UTC()

	actor, err := guardActor(ctx, s.accountRepo, actorID, now)
	if err != nil {
		return nil, err
	}

	if actor.Role != domain.RoleBorrower {
		return nil, customError.WrapForbidden("only borrowers can submit loan applications")
	}

	product, err := s.productRepo.GetByID(ctx, request.LoanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapNotFound("Loan product", request.LoanID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	// Requested amount must fall within [minimum, product limit]
	minAmount := s.config.GetMinLoanAmount()
	if request.Amount.LessThan(minAmount) {
		return nil, customError.WrapValidation(
			fmt.Sprintf("requested amount %s is below the minimum of %s", request.Amount, minAmount))
	}
	if request.Amount.GreaterThan(product.MaxLoanLimit) {
		return nil, customError.WrapValidation(
			fmt.Sprintf("requested amount %s exceeds the loan limit of %s", request.Amount, product.MaxLoanLimit))
	}

	application := &domain.Application{
		ID:            uuid.New(),
		BorrowerID:    actor.ID,
		LoanID:        product.ID,
		Amount:        request.Amount,
		InterestRate:  product.InterestRate,
		FullName:      request.FullName,
		Email:         request.Email,
		Phone:         request.Phone,
		MonthlyIncome: request.MonthlyIncome,
		Status:        domain.ApplicationStatusPending,
		FeeStatus:     domain.FeeStatusUnpaid,
		CreatedAt:     now,
	}

	if err := s.applicationRepo.Create(ctx, application); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return application, nil
}

// Cancel lets the borrower withdraw their own pending application.
func (s *ApplicationService) Cancel(ctx context.Context, applicationID uuid.UUID, actorID string) (*domain.Application, error) {
	now := time.Now().UTC()

	actor, err := guardActor(ctx, s.accountRepo, actorID, now)
	if err != nil {
		return nil, err
	}

	application, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	// Authorization first, so a forbidden caller never learns about state
	// conflicts.
	if err := policy.CanTransition(actor, application, nil, policy.ActionCancel); err != nil {
		return nil, err
	}

	if err := s.applicationRepo.Cancel(ctx, applicationID); err != nil {
		return nil, s.transitionError(applicationID, err)
	}

	application.Status = domain.ApplicationStatusCancelled
	return application, nil
}

// Approve moves a pending application to approved and stamps approved_at.
func (s *ApplicationService) Approve(ctx context.Context, applicationID uuid.UUID, actorID string) (*domain.Application, error) {
	now := time.Now().UTC()

	actor, err := guardActor(ctx, s.accountRepo, actorID, now)
	if err != nil {
		return nil, err
	}

	application, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	product, err := s.getProductForPolicy(ctx, application.LoanID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanTransition(actor, application, product, policy.ActionApprove); err != nil {
		return nil, err
	}

	if err := s.applicationRepo.Approve(ctx, applicationID, now); err != nil {
		return nil, s.transitionError(applicationID, err)
	}

	application.Status = domain.ApplicationStatusApproved
	application.ApprovedAt = &now
	return application, nil
}

// Reject moves a pending application to rejected and stamps rejected_at.
// Rejection is fully terminal; resubmission requires a new application.
func (s *ApplicationService) Reject(ctx context.Context, applicationID uuid.UUID, actorID string, reason string) (*domain.Application, error) {
	now := time.Now().UTC()

	actor, err := guardActor(ctx, s.accountRepo, actorID, now)
	if err != nil {
		return nil, err
	}

	application, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	product, err := s.getProductForPolicy(ctx, application.LoanID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanTransition(actor, application, product, policy.ActionReject); err != nil {
		return nil, err
	}

	if err := s.applicationRepo.Reject(ctx, applicationID, now, reason); err != nil {
		return nil, s.transitionError(applicationID, err)
	}

	application.Status = domain.ApplicationStatusRejected
	application.RejectedAt = &now
	application.RejectReason = reason
	return application, nil
}

// Get returns an application for its borrower or any manager/admin.
func (s *ApplicationService) Get(ctx context.Context, applicationID uuid.UUID, actorID string) (*domain.Application, error) {
	actor, err := resolveActor(ctx, s.accountRepo, actorID)
	if err != nil {
		return nil, err
	}

	application, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanView(actor, application); err != nil {
		return nil, err
	}

	return application, nil
}

// Stats returns aggregate application counts by status, read through the
// Redis cache when available.
func (s *ApplicationService) Stats(ctx context.Context) (*domain.ApplicationStats, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, statsCacheKey).Result()
		if err == nil {
			var stats domain.ApplicationStats
			if jsonErr := json.Unmarshal([]byte(cached), &stats); jsonErr == nil {
				return &stats, nil
			}
		}
	}

	return s.RefreshStats(ctx)
}

// RefreshStats recomputes the aggregate counts and repopulates the cache.
// Also called periodically by the scheduler.
func (s *ApplicationService) RefreshStats(ctx context.Context) (*domain.ApplicationStats, error) {
	stats, err := s.applicationRepo.CountByStatus(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if s.redis != nil {
		if payload, err := json.Marshal(stats); err == nil {
			// Cache failures are not fatal for a reporting view
			_ = s.redis.Set(ctx, statsCacheKey, payload, statsCacheTTL).Err()
		}
	}

	return stats, nil
}

func (s *ApplicationService) getApplication(ctx context.Context, applicationID uuid.UUID) (*domain.Application, error) {
	application, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapNotFound("Application", applicationID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return application, nil
}

// getProductForPolicy fetches the product for the manager-ownership check.
// A missing product does not block an admin, so absence maps to nil rather
// than an error.
func (s *ApplicationService) getProductForPolicy(ctx context.Context, loanID string) (*domain.LoanProduct, error) {
	product, err := s.productRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return product, nil
}

func (s *ApplicationService) transitionError(applicationID uuid.UUID, err error) error {
	if errors.Is(err, customError.ErrInvalidState) {
		// The CAS found the row no longer pending: a concurrent transition
		// won, or the application was already terminal.
		return customError.WrapInvalidState(applicationID.String(), "no longer pending")
	}
	return customError.WrapDatabaseError(err)
}
