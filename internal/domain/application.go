package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ApplicationStatusPending   = "pending"
	ApplicationStatusApproved  = "approved"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusCancelled = "cancelled"
)

const (
	FeeStatusUnpaid = "unpaid"
	FeeStatusPaid   = "paid"
)

// Application represents a borrower's loan application. Snapshot fields are
// captured at submission time and never change afterwards; only status,
// fee_status and the transition timestamps are mutated, each by exactly one
// lifecycle operation.
type Application struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	BorrowerID    string          `json:"borrower_id" db:"borrower_id"`
	LoanID        string          `json:"loan_id" db:"loan_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	InterestRate  decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	FullName      string          `json:"full_name" db:"full_name"`
	Email         string          `json:"email" db:"email"`
	Phone         string          `json:"phone" db:"phone"`
	MonthlyIncome decimal.Decimal `json:"monthly_income" db:"monthly_income"`
	Status        string          `json:"status" db:"status"`
	FeeStatus     string          `json:"fee_status" db:"fee_status"`
	RejectReason  string          `json:"reject_reason,omitempty" db:"reject_reason"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty" db:"approved_at"`
	RejectedAt    *time.Time      `json:"rejected_at,omitempty" db:"rejected_at"`
}

// IsTerminal reports whether the application reached a terminal state.
// No transition ever leaves approved, rejected or cancelled.
func (a *Application) IsTerminal() bool {
	return a.Status != ApplicationStatusPending
}

// DTOs for requests and responses

type CreateApplicationRequest struct {
	LoanID        string          `json:"loan_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	FullName      string          `json:"full_name" validate:"required"`
	Email         string          `json:"email" validate:"required,email"`
	Phone         string          `json:"phone" validate:"required"`
	MonthlyIncome decimal.Decimal `json:"monthly_income" validate:"required"`
}

type RejectApplicationRequest struct {
	Reason string `json:"reason"`
}

// ApplicationStats is the reporting view: aggregate counts by status.
type ApplicationStats struct {
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Cancelled int64 `json:"cancelled"`
	Total     int64 `json:"total"`
}
