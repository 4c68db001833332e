package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Gateway outcome values as reported by the fee gateway.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// PaymentRecord is the durable proof that the fee gateway confirmed payment
// for one application. TransactionID is the gateway's globally unique id and
// the idempotency key: re-delivery of the same transaction never creates a
// second record.
type PaymentRecord struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	TransactionID string          `json:"transaction_id" db:"transaction_id"`
	SessionID     string          `json:"session_id" db:"session_id"`
	ApplicationID uuid.UUID       `json:"application_id" db:"application_id"`
	PayerEmail    string          `json:"payer_email" db:"payer_email"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Currency      string          `json:"currency" db:"currency"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// GatewayOutcome is the provider-neutral result of a checkout session,
// delivered by webhook or fetched during session reconciliation.
type GatewayOutcome struct {
	TransactionID string          `json:"transaction_id"`
	SessionID     string          `json:"session_id"`
	ApplicationID string          `json:"application_id"`
	Outcome       string          `json:"outcome"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PayerEmail    string          `json:"payer_email"`
}

// DTOs for requests and responses

type CreateIntentRequest struct {
	ApplicationID string          `json:"application_id" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
}

type CreateIntentResponse struct {
	SessionID    string `json:"session_id"`
	ClientSecret string `json:"client_secret"`
}

type ProcessSessionRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// ConfirmResult reports what a confirm/reconcile pass did. Applied is false
// for failed or cancelled outcomes, which leave the application untouched.
type ConfirmResult struct {
	Applied bool           `json:"applied"`
	Outcome string         `json:"outcome"`
	Record  *PaymentRecord `json:"record,omitempty"`
}
