package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/lendora/loan-engine/internal/domain"
)

type productRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.LoanProduct, error) {
	query := `
		SELECT id, manager_id, title, interest_rate, max_loan_limit, created_at
		FROM loan_products
		WHERE id = $1
	`

	var product domain.LoanProduct
	err := r.db.GetContext(ctx, &product, query, id)
	if err != nil {
		return nil, err
	}

	return &product, nil
}
