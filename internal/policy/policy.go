// Package policy is the single place role checks live. Every mutating
// operation consults it before touching lifecycle state, so authorization
// failures stay distinguishable from state conflicts.
package policy

import (
	"github.com/lendora/loan-engine/internal/domain"
	customError "github.com/lendora/loan-engine/pkg/errors"
)

type Action string

const (
	ActionCancel  Action = "cancel"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// CanTransition decides whether actor may apply action to the application.
// Cancel is borrower-only and restricted to the application's owner.
// Approve and reject require admin, or a manager owning the referenced loan
// product.
func CanTransition(actor *domain.Account, application *domain.Application, product *domain.LoanProduct, action Action) error {
	switch action {
	case ActionCancel:
		if actor.ID != application.BorrowerID {
			return customError.WrapForbidden("only the borrower who submitted the application can cancel it")
		}
		return nil

	case ActionApprove, ActionReject:
		switch actor.Role {
		case domain.RoleAdmin:
			return nil
		case domain.RoleManager:
			if product == nil || product.ManagerID != actor.ID {
				return customError.WrapForbidden("managers can only review applications for their own loan products")
			}
			return nil
		default:
			return customError.WrapForbidden("only managers and admins can review applications")
		}

	default:
		return customError.WrapForbidden("unknown action")
	}
}

// CanSuspend decides whether actor may suspend or unsuspend target.
// Managers may act on borrowers only; admins on anyone but themselves.
func CanSuspend(actor *domain.Account, target *domain.Account) error {
	if actor.ID == target.ID {
		return customError.WrapForbidden("accounts cannot suspend themselves")
	}

	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleManager:
		if target.Role != domain.RoleBorrower {
			return customError.WrapForbidden("managers can only suspend borrower accounts")
		}
		return nil
	default:
		return customError.WrapForbidden("only managers and admins can suspend accounts")
	}
}

// CanView decides whether actor may read the application. Borrowers see
// their own applications; managers and admins see any.
func CanView(actor *domain.Account, application *domain.Application) error {
	if actor.Role == domain.RoleManager || actor.Role == domain.RoleAdmin {
		return nil
	}
	if actor.ID != application.BorrowerID {
		return customError.WrapForbidden("borrowers can only view their own applications")
	}
	return nil
}
