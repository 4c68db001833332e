package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/lendora/loan-engine/internal/domain"
	"github.com/lendora/loan-engine/internal/service"
	"github.com/lendora/loan-engine/pkg/response"
)

type AccountHandler struct {
	service   *service.SuspensionService
	validator *validator.Validate
}

func NewAccountHandler(service *service.SuspensionService) *AccountHandler {
	return &AccountHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Suspend handles PATCH /accounts/{id}/suspend
func (h *AccountHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	actor, ok := AccountFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	targetID := mux.Vars(r)["id"]

	var request domain.SuspendAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	account, err := h.service.Suspend(r.Context(), actor.ID, targetID, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, account)
}

// Unsuspend handles PATCH /accounts/{id}/unsuspend
func (h *AccountHandler) Unsuspend(w http.ResponseWriter, r *http.Request) {
	actor, ok := AccountFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	targetID := mux.Vars(r)["id"]

	account, err := h.service.Unsuspend(r.Context(), actor.ID, targetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, account)
}
