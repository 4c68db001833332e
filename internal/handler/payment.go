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

type PaymentHandler struct {
	service   *service.PaymentService
	validator *validator.Validate
}

func NewPaymentHandler(service *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateIntent handles POST /payments/create-intent
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	actor, ok := AccountFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	var request domain.CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	intent, err := h.service.CreateIntent(r.Context(), actor.ID, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, intent)
}

// Webhook handles POST /payments/webhook, the gateway's outcome delivery.
// Mounted outside the identity middleware; the gateway is not an account.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var outcome domain.GatewayOutcome
	if err := json.NewDecoder(r.Body).Decode(&outcome); err != nil {
		response.BadRequest(w, "invalid webhook payload", err)
		return
	}

	result, err := h.service.Confirm(r.Context(), &outcome)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, result)
}

// ProcessSession handles POST /payments/process-session, the client-driven
// recovery path for the webhook race.
func (h *PaymentHandler) ProcessSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := AccountFromContext(r.Context()); !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	var request domain.ProcessSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	result, err := h.service.ReconcileBySession(r.Context(), request.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, result)
}

// Receipt handles GET /payments/receipt/{sessionId}
func (h *PaymentHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	if _, ok := AccountFromContext(r.Context()); !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		response.BadRequest(w, "missing session id", nil)
		return
	}

	record, err := h.service.Receipt(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, record)
}
