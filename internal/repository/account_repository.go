package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lendora/loan-engine/internal/domain"
)

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
		SELECT id, email, role, suspended, suspend_until, suspension_reason, created_at
		FROM accounts
		WHERE id = $1
	`

	var account domain.Account
	err := r.db.GetContext(ctx, &account, query, id)
	if err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) SetSuspension(ctx context.Context, id string, until *time.Time, reason string) error {
	query := `
		UPDATE accounts
		SET suspended = TRUE, suspend_until = $2, suspension_reason = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, until, reason)
	return err
}

func (r *accountRepository) ClearSuspension(ctx context.Context, id string) error {
	query := `
		UPDATE accounts
		SET suspended = FALSE, suspend_until = NULL, suspension_reason = ''
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
