package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lendora/loan-engine/internal/domain"
	customError "github.com/lendora/loan-engine/pkg/errors"
)

func TestCreateSession(t *testing.T) {
	fee := decimal.RequireFromString("25.00")

	t.Run("Success - returns session handle", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
			assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
			w.Write([]byte(`{"id":"cs_1","client_secret":"secret_1"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "sk_test", 5*time.Second)
		intent, err := client.CreateSession(context.Background(), "app-1", fee, "USD")

		assert.NoError(t, err)
		assert.Equal(t, "cs_1", intent.SessionID)
		assert.Equal(t, "secret_1", intent.ClientSecret)
	})

	t.Run("Failure - rejection surfaces as gateway error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := NewClient(server.URL, "sk_test", 5*time.Second)
		_, err := client.CreateSession(context.Background(), "app-1", fee, "USD")

		assert.ErrorIs(t, err, customError.ErrGateway)
	})

	t.Run("Failure - outage surfaces as gateway error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewClient(server.URL, "sk_test", 5*time.Second)
		_, err := client.CreateSession(context.Background(), "app-1", fee, "USD")

		assert.ErrorIs(t, err, customError.ErrGateway)
	})
}

func TestGetSession(t *testing.T) {
	t.Run("Success - parses the session outcome", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/checkout/sessions/cs_1", r.URL.Path)
			w.Write([]byte(`{
				"id": "cs_1",
				"transaction_id": "tx_1",
				"status": "succeeded",
				"amount": "25.00",
				"currency": "USD",
				"customer_email": "jordan@example.com",
				"metadata": {"application_id": "app-1"}
			}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "sk_test", 5*time.Second)
		outcome, err := client.GetSession(context.Background(), "cs_1")

		assert.NoError(t, err)
		assert.Equal(t, "tx_1", outcome.TransactionID)
		assert.Equal(t, "app-1", outcome.ApplicationID)
		assert.Equal(t, domain.OutcomeSucceeded, outcome.Outcome)
		assert.True(t, outcome.Amount.Equal(decimal.RequireFromString("25.00")))
	})

	t.Run("Failure - missing session maps to unknown session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(server.URL, "sk_test", 5*time.Second)
		_, err := client.GetSession(context.Background(), "cs_missing")

		assert.ErrorIs(t, err, customError.ErrUnknownSession)
	})
}
