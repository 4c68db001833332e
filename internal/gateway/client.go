package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lendora/loan-engine/internal/domain"
	customError "github.com/lendora/loan-engine/pkg/errors"
)

// Client talks to the fee gateway over its JSON API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new fee gateway client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) CreateSession(ctx context.Context, applicationID string, amount decimal.Decimal, currency string) (*domain.CreateIntentResponse, error) {
	payload := map[string]interface{}{
		"amount":   amount.String(),
		"currency": currency,
		"metadata": map[string]string{
			"application_id": applicationID,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, customError.WrapGatewayError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, customError.WrapGatewayError(fmt.Errorf("gateway rejected session request with status %d", resp.StatusCode))
	}

	var session struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, customError.WrapGatewayError(fmt.Errorf("failed to parse session response: %w", err))
	}

	return &domain.CreateIntentResponse{
		SessionID:    session.ID,
		ClientSecret: session.ClientSecret,
	}, nil
}

func (c *Client) GetSession(ctx context.Context, sessionID string) (*domain.GatewayOutcome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, customError.WrapGatewayError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, customError.ErrUnknownSession
	}
	if resp.StatusCode >= 400 {
		return nil, customError.WrapGatewayError(fmt.Errorf("gateway returned status %d", resp.StatusCode))
	}

	var session struct {
		ID            string `json:"id"`
		TransactionID string `json:"transaction_id"`
		Status        string `json:"status"`
		Amount        string `json:"amount"`
		Currency      string `json:"currency"`
		CustomerEmail string `json:"customer_email"`
		Metadata      struct {
			ApplicationID string `json:"application_id"`
		} `json:"metadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, customError.WrapGatewayError(fmt.Errorf("failed to parse session response: %w", err))
	}

	amount, err := decimal.NewFromString(session.Amount)
	if err != nil {
		return nil, customError.WrapGatewayError(fmt.Errorf("gateway reported malformed amount %q: %w", session.Amount, err))
	}

	return &domain.GatewayOutcome{
		TransactionID: session.TransactionID,
		SessionID:     session.ID,
		ApplicationID: session.Metadata.ApplicationID,
		Outcome:       session.Status,
		Amount:        amount,
		Currency:      session.Currency,
		PayerEmail:    session.CustomerEmail,
	}, nil
}
