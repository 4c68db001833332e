package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccountIsActive(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name     string
		account  Account
		expected bool
	}{
		{
			name:     "not suspended",
			account:  Account{Suspended: false},
			expected: true,
		},
		{
			name:     "suspended permanently",
			account:  Account{Suspended: true, SuspendUntil: nil},
			expected: false,
		},
		{
			name:     "suspended with future expiry",
			account:  Account{Suspended: true, SuspendUntil: &future},
			expected: false,
		},
		{
			name:     "suspended with past expiry auto-expires",
			account:  Account{Suspended: true, SuspendUntil: &past},
			expected: true,
		},
		{
			name:     "suspended with expiry exactly now",
			account:  Account{Suspended: true, SuspendUntil: &now},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.account.IsActive(now))
		})
	}
}

// The predicate is monotonic in time for a fixed expiry: once it turns true
// it stays true, with no write to the account in between.
func TestAccountIsActiveMonotonic(t *testing.T) {
	expiry := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	account := Account{Suspended: true, SuspendUntil: &expiry}

	wasActive := false
	for offset := -3 * time.Hour; offset <= 3*time.Hour; offset += 10 * time.Minute {
		active := account.IsActive(expiry.Add(offset))
		if wasActive {
			assert.True(t, active, "predicate flipped back to suspended at offset %s", offset)
		}
		wasActive = active
	}
	assert.True(t, wasActive)
}

func TestApplicationIsTerminal(t *testing.T) {
	assert.False(t, (&Application{Status: ApplicationStatusPending}).IsTerminal())
	assert.True(t, (&Application{Status: ApplicationStatusApproved}).IsTerminal())
	assert.True(t, (&Application{Status: ApplicationStatusRejected}).IsTerminal())
	assert.True(t, (&Application{Status: ApplicationStatusCancelled}).IsTerminal())
}
