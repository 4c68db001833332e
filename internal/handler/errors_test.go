package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	customError "github.com/lendora/loan-engine/pkg/errors"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{name: "validation maps to 400", err: customError.WrapValidation("bad amount"), expectedCode: http.StatusBadRequest},
		{name: "forbidden maps to 403", err: customError.WrapForbidden("not yours"), expectedCode: http.StatusForbidden},
		{name: "not found maps to 404", err: customError.WrapNotFound("Application", "a-1"), expectedCode: http.StatusNotFound},
		{name: "invalid state maps to 409", err: customError.WrapInvalidState("a-1", "approved"), expectedCode: http.StatusConflict},
		{name: "reconcile in progress maps to 409", err: customError.ErrReconcileInProgress, expectedCode: http.StatusConflict},
		{name: "gateway maps to 502", err: customError.WrapGatewayError(errors.New("dial tcp: refused")), expectedCode: http.StatusBadGateway},
		{name: "unknown maps to 500", err: errors.New("boom"), expectedCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			writeServiceError(recorder, tt.err)
			assert.Equal(t, tt.expectedCode, recorder.Code)
		})
	}
}

func TestWriteServiceErrorSuspensionDetails(t *testing.T) {
	until := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	recorder := httptest.NewRecorder()

	writeServiceError(recorder, &customError.SuspensionError{Reason: "late payments", Until: &until})

	assert.Equal(t, http.StatusForbidden, recorder.Code)

	var body struct {
		Message string `json:"message"`
		Details struct {
			Reason       string     `json:"reason"`
			SuspendUntil *time.Time `json:"suspend_until"`
		} `json:"details"`
	}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "late payments", body.Details.Reason)
	assert.NotNil(t, body.Details.SuspendUntil)
	assert.True(t, until.Equal(*body.Details.SuspendUntil))
}

// The expected fee must not leak to a tampering caller
func TestWriteServiceErrorAmountMismatchIsGeneric(t *testing.T) {
	recorder := httptest.NewRecorder()
	writeServiceError(recorder, customError.WrapAmountMismatch("25.00", "1.00"))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "25.00")
	assert.Contains(t, recorder.Body.String(), "payment could not be processed")
}
