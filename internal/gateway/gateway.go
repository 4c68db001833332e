package gateway

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lendora/loan-engine/internal/domain"
)

// FeeGateway is the boundary to the external payment provider. Only the
// outcome contract matters here: a session either succeeded, failed or was
// cancelled, and carries a globally unique transaction id.
type FeeGateway interface {
	// CreateSession asks the provider to authorize the processing fee and
	// returns the session handle the client completes checkout with.
	CreateSession(ctx context.Context, applicationID string, amount decimal.Decimal, currency string) (*domain.CreateIntentResponse, error)

	// GetSession fetches the authoritative outcome for a session. Returns
	// errors.ErrUnknownSession when the provider has no such session.
	GetSession(ctx context.Context, sessionID string) (*domain.GatewayOutcome, error)
}
