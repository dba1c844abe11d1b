package deactivate_resource

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/CWP-AllocationService/internal/api/handlers"
	"github.com/m04kA/CWP-AllocationService/internal/service/resources"
)

const (
	msgInvalidOrgID       = "некорректный ID организации"
	msgInvalidResourceID  = "некорректный ID ресурса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "ресурс не найден"
	msgForbidden          = "доступ запрещен"
	msgResourceInUse      = "у ресурса есть будущие активные бронирования"
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

// Handle PATCH /api/v1/orgs/{orgId}/resources/{resourceId}/deactivate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	orgID, err := strconv.ParseInt(vars["orgId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH deactivate - Invalid org ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrgID)
		return
	}

	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH deactivate - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	// Body опционален: пустое тело означает политику по умолчанию
	var req DeactivateResourceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH deactivate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err = h.service.Deactivate(r.Context(), orgID, resourceID, req.Force)
	if err != nil {
		var inUse *resources.InUseError
		switch {
		case errors.As(err, &inUse):
			h.logger.Warn("PATCH deactivate - Resource in use: resource_id=%d, bookings=%v",
				resourceID, inUse.BookingIDs)
			handlers.RespondJSON(w, http.StatusConflict, ConflictResponse{
				Code:       http.StatusConflict,
				Message:    msgResourceInUse,
				ResourceID: inUse.ResourceID,
				BookingIDs: inUse.BookingIDs,
			})

		case errors.Is(err, resources.ErrResourceNotFound):
			h.logger.Warn("PATCH deactivate - Resource not found: resource_id=%d, org_id=%d", resourceID, orgID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, resources.ErrAccessDenied):
			h.logger.Warn("PATCH deactivate - Access denied: resource_id=%d, org_id=%d", resourceID, orgID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PATCH deactivate - Failed to deactivate resource: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH deactivate - Resource deactivated: resource_id=%d, org_id=%d", resourceID, orgID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
