package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSuspendUntil(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		duration     int
		durationType string
		expected     time.Time
		expectError  bool
	}{
		{
			name:         "one hour",
			duration:     1,
			durationType: DurationHour,
			expected:     now.Add(time.Hour),
		},
		{
			name:         "three days",
			duration:     3,
			durationType: DurationDay,
			expected:     now.AddDate(0, 0, 3),
		},
		{
			name:         "two weeks",
			duration:     2,
			durationType: DurationWeek,
			expected:     now.AddDate(0, 0, 14),
		},
		{
			name:         "one month",
			duration:     1,
			durationType: DurationMonth,
			expected:     now.AddDate(0, 1, 0),
		},
		{
			name:         "zero duration rejected",
			duration:     0,
			durationType: DurationDay,
			expectError:  true,
		},
		{
			name:         "negative duration rejected",
			duration:     -5,
			durationType: DurationHour,
			expectError:  true,
		},
		{
			name:         "unknown unit rejected",
			duration:     1,
			durationType: "fortnight",
			expectError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			until, err := SuspendUntil(now, tt.duration, tt.durationType)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, until)
		})
	}
}

func TestRemainingSuspension(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 2*time.Hour, RemainingSuspension(now.Add(2*time.Hour), now))
	assert.Equal(t, time.Duration(0), RemainingSuspension(now.Add(-time.Minute), now))
	assert.Equal(t, time.Duration(0), RemainingSuspension(now, now))
}
