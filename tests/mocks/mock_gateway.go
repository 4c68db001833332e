package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/lendora/loan-engine/internal/domain"
)

type MockFeeGateway struct {
	mock.Mock
}

func (m *MockFeeGateway) CreateSession(ctx context.Context, applicationID string, amount decimal.Decimal, currency string) (*domain.CreateIntentResponse, error) {
	args := m.Called(ctx, applicationID, amount, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreateIntentResponse), args.Error(1)
}

func (m *MockFeeGateway) GetSession(ctx context.Context, sessionID string) (*domain.GatewayOutcome, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewayOutcome), args.Error(1)
}
