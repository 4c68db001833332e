package utils

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Suspension duration units accepted from managers and admins.
const (
	DurationHour  = "hour"
	DurationDay   = "day"
	DurationWeek  = "week"
	DurationMonth = "month"
)

// SuspendUntil converts a relative suspension duration into an absolute
// expiry timestamp anchored at now.
func SuspendUntil(now time.Time, duration int, durationType string) (time.Time, error) {
	if duration <= 0 {
		return time.Time{}, fmt.Errorf("suspension duration must be positive, got %d", duration)
	}

	switch durationType {
	case DurationHour:
		return now.Add(time.Duration(duration) * time.Hour), nil
	case DurationDay:
		return now.AddDate(0, 0, duration), nil
	case DurationWeek:
		return now.AddDate(0, 0, 7*duration), nil
	case DurationMonth:
		return now.AddDate(0, duration, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown duration type %q", durationType)
	}
}

// RemainingSuspension returns how long a suspension has left, zero if it
// already expired.
func RemainingSuspension(until time.Time, now time.Time) time.Duration {
	remaining := until.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DecimalFromFloat converts float64 to decimal.Decimal
func DecimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
