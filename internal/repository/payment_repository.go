package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lendora/loan-engine/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) UpsertCompleted(ctx context.Context, record *domain.PaymentRecord) (bool, error) {
	// transaction_id is unique and at most one completed record may exist
	// per application. Both at-least-once delivery and a borrower completing
	// two checkout sessions collapse to a single completed record.
	query := `
		INSERT INTO payment_records (id, transaction_id, session_id, application_id, payer_email, amount, currency, status, created_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9
		WHERE NOT EXISTS (
			SELECT 1 FROM payment_records WHERE application_id = $4 AND status = $8
		)
		ON CONFLICT (transaction_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.TransactionID,
		record.SessionID,
		record.ApplicationID,
		record.PayerEmail,
		record.Amount,
		record.Currency,
		record.Status,
		record.CreatedAt,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *paymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.PaymentRecord, error) {
	query := `
		SELECT id, transaction_id, session_id, application_id, payer_email, amount, currency, status, created_at
		FROM payment_records
		WHERE session_id = $1
	`

	var record domain.PaymentRecord
	err := r.db.GetContext(ctx, &record, query, sessionID)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *paymentRepository) GetCompletedByApplicationID(ctx context.Context, applicationID uuid.UUID) (*domain.PaymentRecord, error) {
	query := `
		SELECT id, transaction_id, session_id, application_id, payer_email, amount, currency, status, created_at
		FROM payment_records
		WHERE application_id = $1 AND status = $2
	`

	var record domain.PaymentRecord
	err := r.db.GetContext(ctx, &record, query, applicationID, domain.PaymentStatusCompleted)
	if err != nil {
		return nil, err
	}

	return &record, nil
}
