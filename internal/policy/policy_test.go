package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lendora/loan-engine/internal/domain"
	customError "github.com/lendora/loan-engine/pkg/errors"
)

func TestCanTransition(t *testing.T) {
	borrower := &domain.Account{ID: "acc-borrower", Role: domain.RoleBorrower}
	otherBorrower := &domain.Account{ID: "acc-other", Role: domain.RoleBorrower}
	owningManager := &domain.Account{ID: "acc-manager", Role: domain.RoleManager}
	otherManager := &domain.Account{ID: "acc-manager-2", Role: domain.RoleManager}
	admin := &domain.Account{ID: "acc-admin", Role: domain.RoleAdmin}

	application := &domain.Application{BorrowerID: borrower.ID, LoanID: "prod-1"}
	product := &domain.LoanProduct{ID: "prod-1", ManagerID: owningManager.ID}

	tests := []struct {
		name      string
		actor     *domain.Account
		product   *domain.LoanProduct
		action    Action
		forbidden bool
	}{
		{name: "borrower cancels own application", actor: borrower, product: product, action: ActionCancel},
		{name: "other borrower cannot cancel", actor: otherBorrower, product: product, action: ActionCancel, forbidden: true},
		{name: "manager cannot cancel for borrower", actor: owningManager, product: product, action: ActionCancel, forbidden: true},
		{name: "owning manager approves", actor: owningManager, product: product, action: ActionApprove},
		{name: "other manager cannot approve", actor: otherManager, product: product, action: ActionApprove, forbidden: true},
		{name: "manager without product cannot approve", actor: owningManager, product: nil, action: ActionApprove, forbidden: true},
		{name: "admin approves any product", actor: admin, product: nil, action: ActionApprove},
		{name: "admin rejects", actor: admin, product: product, action: ActionReject},
		{name: "owning manager rejects", actor: owningManager, product: product, action: ActionReject},
		{name: "borrower cannot approve", actor: borrower, product: product, action: ActionApprove, forbidden: true},
		{name: "borrower cannot reject", actor: borrower, product: product, action: ActionReject, forbidden: true},
		{name: "unknown action is forbidden", actor: admin, product: product, action: Action("escalate"), forbidden: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.actor, application, tt.product, tt.action)
			if tt.forbidden {
				assert.ErrorIs(t, err, customError.ErrForbidden)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanSuspend(t *testing.T) {
	borrower := &domain.Account{ID: "acc-borrower", Role: domain.RoleBorrower}
	manager := &domain.Account{ID: "acc-manager", Role: domain.RoleManager}
	otherManager := &domain.Account{ID: "acc-manager-2", Role: domain.RoleManager}
	admin := &domain.Account{ID: "acc-admin", Role: domain.RoleAdmin}

	tests := []struct {
		name      string
		actor     *domain.Account
		target    *domain.Account
		forbidden bool
	}{
		{name: "manager suspends borrower", actor: manager, target: borrower},
		{name: "manager cannot suspend manager", actor: manager, target: otherManager, forbidden: true},
		{name: "manager cannot suspend admin", actor: manager, target: admin, forbidden: true},
		{name: "admin suspends borrower", actor: admin, target: borrower},
		{name: "admin suspends manager", actor: admin, target: manager},
		{name: "borrower cannot suspend anyone", actor: borrower, target: manager, forbidden: true},
		{name: "no self-suspension", actor: admin, target: admin, forbidden: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanSuspend(tt.actor, tt.target)
			if tt.forbidden {
				assert.ErrorIs(t, err, customError.ErrForbidden)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanView(t *testing.T) {
	borrower := &domain.Account{ID: "acc-borrower", Role: domain.RoleBorrower}
	application := &domain.Application{BorrowerID: borrower.ID}

	assert.NoError(t, CanView(borrower, application))
	assert.NoError(t, CanView(&domain.Account{ID: "m", Role: domain.RoleManager}, application))
	assert.NoError(t, CanView(&domain.Account{ID: "a", Role: domain.RoleAdmin}, application))
	assert.ErrorIs(t,
		CanView(&domain.Account{ID: "stranger", Role: domain.RoleBorrower}, application),
		customError.ErrForbidden)
}
