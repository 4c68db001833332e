package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lendora/loan-engine/internal/domain"
	"github.com/lendora/loan-engine/internal/service"
	"github.com/lendora/loan-engine/pkg/response"
)

type ApplicationHandler struct {
	service   *service.ApplicationService
	validator *validator.Validate
}

func NewApplicationHandler(service *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /applications
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := AccountFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	var request domain.CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	application, err := h.service.Create(r.Context(), actor.ID, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, application)
}

// Get handles GET /applications/{id}
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := AccountFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	applicationID, err := parseApplicationID(r)
	if err != nil {
		response.BadRequest(w, "invalid application id", err)
		return
	}

	application, err := h.service.Get(r.Context(), applicationID, actor.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, application)
}

// Cancel handles PATCH /applications/{id}/cancel
func (h *ApplicationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := AccountFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	applicationID, err := parseApplicationID(r)
	if err != nil {
		response.BadRequest(w, "invalid application id", err)
		return
	}

	application, err := h.service.Cancel(r.Context(), applicationID, actor.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, application)
}

// Approve handles PATCH /applications/{id}/approve
func (h *ApplicationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := AccountFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	applicationID, err := parseApplicationID(r)
	if err != nil {
		response.BadRequest(w, "invalid application id", err)
		return
	}

	application, err := h.service.Approve(r.Context(), applicationID, actor.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, application)
}

// Reject handles PATCH /applications/{id}/reject
func (h *ApplicationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := AccountFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	applicationID, err := parseApplicationID(r)
	if err != nil {
		response.BadRequest(w, "invalid application id", err)
		return
	}

	// Reason is optional; an empty body is fine
	var request domain.RejectApplicationRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&request)
	}

	application, err := h.service.Reject(r.Context(), applicationID, actor.ID, request.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, application)
}

// Stats handles GET /applications/stats
func (h *ApplicationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	actor, ok := AccountFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	if actor.Role != domain.RoleManager && actor.Role != domain.RoleAdmin {
		response.Forbidden(w, "only managers and admins can view application stats")
		return
	}

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, stats)
}

func parseApplicationID(r *http.Request) (uuid.UUID, error) {
	vars := mux.Vars(r)
	return uuid.Parse(vars["id"])
}
