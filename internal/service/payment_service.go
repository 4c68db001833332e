package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lendora/loan-engine/internal/config"
	"github.com/lendora/loan-engine/internal/domain"
	"github.com/lendora/loan-engine/internal/gateway"
	"github.com/lendora/loan-engine/internal/repository"
	customError "github.com/lendora/loan-engine/pkg/errors"
)

const (
	reconcileLockPrefix = "payments:reconcile:"
	reconcileLockTTL    = 30 * time.Second
)

// PaymentService binds gateway fee outcomes to applications. The gateway
// delivers at least once (webhook retries plus user-triggered recovery), so
// every write path is keyed by the gateway transaction id.
type PaymentService struct {
	applicationRepo repository.ApplicationRepository
	paymentRepo     repository.PaymentRepository
	accountRepo     repository.AccountRepository
	gateway         gateway.FeeGateway
	redis           *redis.Client
	config          *config.Config
}

func NewPaymentService(
	applicationRepo repository.ApplicationRepository,
	paymentRepo repository.PaymentRepository,
	accountRepo repository.AccountRepository,
	feeGateway gateway.FeeGateway,
	redisClient *redis.Client,
	config *config.Config,
) *PaymentService {
	return &PaymentService{
		applicationRepo: applicationRepo,
		paymentRepo:     paymentRepo,
		accountRepo:     accountRepo,
		gateway:         feeGateway,
		redis:           redisClient,
		config:          config,
	}
}

// CreateIntent requests a fee authorization from the gateway for a pending,
// unpaid application owned by the actor. Never mutates the application; an
// abandoned intent simply leaves it pending/unpaid and the borrower may try
// again.
func (s *PaymentService) CreateIntent(ctx context.Context, actorID string, request *domain.CreateIntentRequest) (*domain.CreateIntentResponse, error) {
	now := time.Now().UTC()

	actor, err := guardActor(ctx, s.accountRepo, actorID, now)
	if err != nil {
		return nil, err
	}

	applicationID, err := uuid.Parse(request.ApplicationID)
	if err != nil {
		return nil, customError.WrapValidation("application_id must be a valid UUID")
	}

	application, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapNotFound("Application", request.ApplicationID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if application.BorrowerID != actor.ID {
		return nil, customError.WrapForbidden("only the borrower who submitted the application can pay its fee")
	}
	if application.Status != domain.ApplicationStatusPending {
		return nil, customError.WrapInvalidState(request.ApplicationID, application.Status)
	}
	if application.FeeStatus == domain.FeeStatusPaid {
		return nil, customError.WrapInvalidState(request.ApplicationID, "already fee-paid")
	}

	fee := s.config.GetFeeAmount()
	if !request.Amount.Equal(fee) {
		log.Printf("create-intent amount mismatch for application %s: got %s, expected %s",
			request.ApplicationID, request.Amount, fee)
		return nil, customError.WrapAmountMismatch(fee.String(), request.Amount.String())
	}

	intent, err := s.gateway.CreateSession(ctx, application.ID.String(), fee, s.config.Business.FeeCurrency)
	if err != nil {
		return nil, err
	}

	return intent, nil
}

// Confirm applies a gateway outcome. Succeeded outcomes upsert one completed
// record keyed by transaction id, at most one per application, and flip
// fee_status at most once; failed and cancelled outcomes touch nothing and
// are reported as non-fatal so the borrower can retry.
func (s *PaymentService) Confirm(ctx context.Context, outcome *domain.GatewayOutcome) (*domain.ConfirmResult, error) {
	switch outcome.Outcome {
	case domain.OutcomeFailed, domain.OutcomeCancelled:
		return &domain.ConfirmResult{Applied: false, Outcome: outcome.Outcome}, nil
	case domain.OutcomeSucceeded:
		// fall through
	default:
		return nil, customError.WrapValidation("unknown gateway outcome " + outcome.Outcome)
	}

	if outcome.TransactionID == "" {
		return nil, customError.WrapValidation("gateway outcome is missing a transaction id")
	}

	applicationID, err := uuid.Parse(outcome.ApplicationID)
	if err != nil {
		return nil, customError.WrapValidation("gateway outcome references an invalid application id")
	}

	fee := s.config.GetFeeAmount()
	if !outcome.Amount.Equal(fee) {
		// Withhold the payment entirely; the detail stays in the log and
		// the caller sees a generic failure.
		log.Printf("withholding payment %s for application %s: reported amount %s does not match fee %s",
			outcome.TransactionID, outcome.ApplicationID, outcome.Amount, fee)
		return nil, customError.WrapAmountMismatch(fee.String(), outcome.Amount.String())
	}

	record := &domain.PaymentRecord{
		ID:            uuid.New(),
		TransactionID: outcome.TransactionID,
		SessionID:     outcome.SessionID,
		ApplicationID: applicationID,
		PayerEmail:    outcome.PayerEmail,
		Amount:        outcome.Amount,
		Currency:      outcome.Currency,
		Status:        domain.PaymentStatusCompleted,
		CreatedAt:     time.Now().UTC(),
	}

	inserted, err := s.paymentRepo.UpsertCompleted(ctx, record)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	// The flip is conditional on fee_status = 'unpaid', so running it on the
	// duplicate path too costs nothing and lets a crashed first delivery
	// converge on retry.
	if _, err := s.applicationRepo.MarkFeePaid(ctx, applicationID); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if !inserted {
		existing, err := s.paymentRepo.GetCompletedByApplicationID(ctx, applicationID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// The transaction id was recorded under a different
				// application; the original record stands.
				return &domain.ConfirmResult{Applied: false, Outcome: outcome.Outcome}, nil
			}
			return nil, customError.WrapDatabaseError(err)
		}
		if existing.TransactionID == outcome.TransactionID {
			// Duplicate delivery of the same transaction
			return &domain.ConfirmResult{Applied: true, Outcome: outcome.Outcome, Record: existing}, nil
		}
		// The borrower completed a second checkout session for an
		// application another transaction already settled. The first record
		// stands; this transaction is withheld.
		log.Printf("withholding payment %s for application %s: already settled by transaction %s",
			outcome.TransactionID, outcome.ApplicationID, existing.TransactionID)
		return &domain.ConfirmResult{Applied: false, Outcome: outcome.Outcome, Record: existing}, nil
	}

	return &domain.ConfirmResult{Applied: true, Outcome: outcome.Outcome, Record: record}, nil
}

// ReconcileBySession is the recovery path for the webhook race: the client
// saw a success redirect but no local record exists yet. Fetches the
// authoritative outcome from the gateway and runs the confirm path. Safe to
// call any number of times.
func (s *PaymentService) ReconcileBySession(ctx context.Context, sessionID string) (*domain.ConfirmResult, error) {
	// Fast path: already reconciled, no gateway round trip
	existing, err := s.paymentRepo.GetBySessionID(ctx, sessionID)
	if err == nil {
		return &domain.ConfirmResult{Applied: true, Outcome: domain.OutcomeSucceeded, Record: existing}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	if s.redis != nil {
		acquired, err := s.redis.SetNX(ctx, reconcileLockPrefix+sessionID, "1", reconcileLockTTL).Result()
		if err != nil {
			return nil, customError.WrapCacheError(err)
		}
		if !acquired {
			return nil, customError.ErrReconcileInProgress
		}
		defer s.redis.Del(context.WithoutCancel(ctx), reconcileLockPrefix+sessionID)
	}

	outcome, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, customError.ErrUnknownSession) {
			return nil, customError.WrapNotFound("Session", sessionID)
		}
		return nil, err
	}

	return s.Confirm(ctx, outcome)
}

// Receipt returns the local payment record for a session. A miss is a 404
// the client answers by calling process-session.
func (s *PaymentService) Receipt(ctx context.Context, sessionID string) (*domain.PaymentRecord, error) {
	record, err := s.paymentRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapNotFound("Payment record", sessionID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return record, nil
}
