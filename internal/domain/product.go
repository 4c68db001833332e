package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanProduct is the catalog entry an application references. ManagerID is
// the account that owns the product and may approve or reject its
// applications.
type LoanProduct struct {
	ID           string          `json:"id" db:"id"`
	ManagerID    string          `json:"manager_id" db:"manager_id"`
	Title        string          `json:"title" db:"title"`
	InterestRate decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	MaxLoanLimit decimal.Decimal `json:"max_loan_limit" db:"max_loan_limit"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
