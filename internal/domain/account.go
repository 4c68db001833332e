package domain

import "time"

const (
	RoleBorrower = "borrower"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// Account is the projection of an identity this service is authoritative
// for: its role and its suspension state. Authentication itself belongs to
// the external identity provider.
type Account struct {
	ID               string     `json:"id" db:"id"`
	Email            string     `json:"email" db:"email"`
	Role             string     `json:"role" db:"role"`
	Suspended        bool       `json:"suspended" db:"suspended"`
	SuspendUntil     *time.Time `json:"suspend_until,omitempty" db:"suspend_until"`
	SuspensionReason string     `json:"suspension_reason,omitempty" db:"suspension_reason"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// IsActive evaluates the suspension gate at a point in time. A suspension
// with an expiry in the past counts as lifted even though the stored flag
// has not been cleared yet; expiry is lazy, there is no background sweeper.
// A suspension without an expiry is permanent.
func (a *Account) IsActive(now time.Time) bool {
	if !a.Suspended {
		return true
	}
	if a.SuspendUntil == nil {
		return false
	}
	return !a.SuspendUntil.After(now)
}

// DTOs for requests and responses

type SuspendAccountRequest struct {
	Reason       string `json:"reason" validate:"required"`
	Duration     int    `json:"duration"`
	DurationType string `json:"duration_type"`
	Permanent    bool   `json:"permanent"`
}
