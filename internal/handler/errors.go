package handler

import (
	"errors"
	"log"
	"net/http"

	customError "github.com/lendora/loan-engine/pkg/errors"
	"github.com/lendora/loan-engine/pkg/response"
)

// writeServiceError maps the error taxonomy onto HTTP statuses. Amount
// mismatches deliberately surface as a generic failure so the expected fee
// is not leaked to a tampering caller.
func writeServiceError(w http.ResponseWriter, err error) {
	var suspension *customError.SuspensionError
	if errors.As(err, &suspension) {
		response.ErrorWithDetails(w, http.StatusForbidden, "account is suspended", map[string]interface{}{
			"reason":        suspension.Reason,
			"suspend_until": suspension.Until,
		})
		return
	}

	switch {
	case errors.Is(err, customError.ErrAmountMismatch):
		log.Printf("amount mismatch: %v", err)
		response.BadRequest(w, "payment could not be processed", nil)
	case errors.Is(err, customError.ErrValidation):
		response.BadRequest(w, err.Error(), nil)
	case errors.Is(err, customError.ErrForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, customError.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, customError.ErrInvalidState), errors.Is(err, customError.ErrReconcileInProgress):
		response.Conflict(w, err.Error(), nil)
	case errors.Is(err, customError.ErrGateway):
		response.BadGateway(w, "payment gateway unavailable, please retry", nil)
	default:
		log.Printf("internal error: %v", err)
		response.InternalServerError(w, "internal server error", nil)
	}
}
