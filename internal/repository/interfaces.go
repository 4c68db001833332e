package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lendora/loan-engine/internal/domain"
)

// ApplicationRepository defines the interface for application data operations
type ApplicationRepository interface {
	// Create inserts a new application in pending/unpaid
	Create(ctx context.Context, application *domain.Application) error

	// GetByID retrieves an application by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error)

	// Approve moves a pending application to approved and stamps approved_at.
	// Returns errors.ErrInvalidState when the application is no longer pending.
	Approve(ctx context.Context, id uuid.UUID, at time.Time) error

	// Reject moves a pending application to rejected and stamps rejected_at.
	Reject(ctx context.Context, id uuid.UUID, at time.Time, reason string) error

	// Cancel moves a pending application to cancelled.
	Cancel(ctx context.Context, id uuid.UUID) error

	// MarkFeePaid flips fee_status from unpaid to paid. Returns false when
	// the fee was already paid (the flip happens at most once).
	MarkFeePaid(ctx context.Context, id uuid.UUID) (bool, error)

	// CountByStatus returns aggregate application counts for reporting
	CountByStatus(ctx context.Context) (*domain.ApplicationStats, error)
}

// PaymentRepository defines the interface for payment record operations
type PaymentRepository interface {
	// UpsertCompleted inserts a completed payment record keyed by the
	// gateway transaction id, unless a completed record already exists for
	// the application. Returns false when nothing was inserted (duplicate
	// delivery, or a second session for an already-settled application).
	UpsertCompleted(ctx context.Context, record *domain.PaymentRecord) (bool, error)

	// GetBySessionID retrieves a payment record by gateway session id
	GetBySessionID(ctx context.Context, sessionID string) (*domain.PaymentRecord, error)

	// GetCompletedByApplicationID retrieves the completed record for an
	// application, if any
	GetCompletedByApplicationID(ctx context.Context, applicationID uuid.UUID) (*domain.PaymentRecord, error)
}

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	// GetByID retrieves an account by id
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// SetSuspension marks the account suspended. until is nil for a
	// permanent suspension.
	SetSuspension(ctx context.Context, id string, until *time.Time, reason string) error

	// ClearSuspension lifts any suspension unconditionally
	ClearSuspension(ctx context.Context, id string) error
}

// ProductRepository defines the interface for loan product lookups
type ProductRepository interface {
	// GetByID retrieves a loan product by id
	GetByID(ctx context.Context, id string) (*domain.LoanProduct, error)
}
