package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lendora/loan-engine/internal/domain"
	customError "github.com/lendora/loan-engine/pkg/errors"
)

type applicationRepository struct {
	db *sqlx.DB
}

func NewApplicationRepository(db *sqlx.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *domain.Application) error {
	query := `
		INSERT INTO applications (id, borrower_id, loan_id, amount, interest_rate, full_name, email, phone, monthly_income, status, fee_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		application.ID,
		application.BorrowerID,
		application.LoanID,
		application.Amount,
		application.InterestRate,
		application.FullName,
		application.Email,
		application.Phone,
		application.MonthlyIncome,
		application.Status,
		application.FeeStatus,
		application.CreatedAt,
	)

	return err
}

func (r *applicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	query := `
		SELECT id, borrower_id, loan_id, amount, interest_rate, full_name, email, phone, monthly_income, status, fee_status, reject_reason, created_at, approved_at, rejected_at
		FROM applications
		WHERE id = $1
	`

	var application domain.Application
	err := r.db.GetContext(ctx, &application, query, id)
	if err != nil {
		return nil, err
	}

	return &application, nil
}

// All three transitions are compare-and-set on status = 'pending'. The first
// writer wins; a concurrent transition sees zero rows affected and fails
// with ErrInvalidState instead of overwriting a terminal state.

func (r *applicationRepository) Approve(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE applications
		SET status = $2, approved_at = $3
		WHERE id = $1 AND status = $4
	`

	result, err := r.db.ExecContext(ctx, query, id, domain.ApplicationStatusApproved, at, domain.ApplicationStatusPending)
	if err != nil {
		return err
	}

	return requireTransition(result)
}

func (r *applicationRepository) Reject(ctx context.Context, id uuid.UUID, at time.Time, reason string) error {
	query := `
		UPDATE applications
		SET status = $2, rejected_at = $3, reject_reason = $4
		WHERE id = $1 AND status = $5
	`

	result, err := r.db.ExecContext(ctx, query, id, domain.ApplicationStatusRejected, at, reason, domain.ApplicationStatusPending)
	if err != nil {
		return err
	}

	return requireTransition(result)
}

func (r *applicationRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE applications
		SET status = $2
		WHERE id = $1 AND status = $3
	`

	result, err := r.db.ExecContext(ctx, query, id, domain.ApplicationStatusCancelled, domain.ApplicationStatusPending)
	if err != nil {
		return err
	}

	return requireTransition(result)
}

func (r *applicationRepository) MarkFeePaid(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE applications
		SET fee_status = $2
		WHERE id = $1 AND fee_status = $3
	`

	result, err := r.db.ExecContext(ctx, query, id, domain.FeeStatusPaid, domain.FeeStatusUnpaid)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *applicationRepository) CountByStatus(ctx context.Context) (*domain.ApplicationStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending')   AS pending,
			COUNT(*) FILTER (WHERE status = 'approved')  AS approved,
			COUNT(*) FILTER (WHERE status = 'rejected')  AS rejected,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
			COUNT(*)                                     AS total
		FROM applications
	`

	var stats domain.ApplicationStats
	err := r.db.GetContext(ctx, &stats, query)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func requireTransition(result interface{ RowsAffected() (int64, error) }) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.ErrInvalidState
	}
	return nil
}
