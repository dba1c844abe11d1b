package register_resource

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/CWP-AllocationService/internal/api/handlers"
	"github.com/m04kA/CWP-AllocationService/internal/service/resources"
)

const (
	msgInvalidOrgID       = "некорректный ID организации"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidResource    = "некорректные данные ресурса"
)

type Handler struct {
	service ResourceService
	logger  Logger
}

func NewHandler(service ResourceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/orgs/{orgId}/resources
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем orgId из URL
	vars := mux.Vars(r)
	orgID, err := strconv.ParseInt(vars["orgId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /orgs/{id}/resources - Invalid org ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrgID)
		return
	}

	var req RegisterResourceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /orgs/{id}/resources - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.Register(r.Context(), req.ToDomainResource(orgID))
	if err != nil {
		switch {
		case errors.Is(err, resources.ErrInvalidInput):
			h.logger.Warn("POST /orgs/{id}/resources - Invalid resource: org_id=%d, error=%v", orgID, err)
			handlers.RespondBadRequest(w, msgInvalidResource)

		default:
			h.logger.Error("POST /orgs/{id}/resources - Failed to register resource: org_id=%d, error=%v", orgID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /orgs/{id}/resources - Resource registered: resource_id=%d, org_id=%d, type=%s",
		created.ID, orgID, created.Type)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainResource(created))
}
