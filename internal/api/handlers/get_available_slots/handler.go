package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/CWP-AllocationService/internal/api/handlers"
	"github.com/m04kA/CWP-AllocationService/internal/domain"
	getAvailableSlots "github.com/m04kA/CWP-AllocationService/internal/usecase/get_available_slots"
)

const (
	msgInvalidOrgID      = "некорректный ID организации"
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgResourceNotFound  = "ресурс не найден"
	msgServiceNotFound   = "услуга не найдена"
	msgValidationFailed  = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/orgs/{orgId}/resources/{resourceId}/available-slots
// Query: serviceId, date (YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	orgID, err := strconv.ParseInt(vars["orgId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET available-slots - Invalid org ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrgID)
		return
	}

	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET available-slots - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	serviceID, err := strconv.ParseInt(r.URL.Query().Get("serviceId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET available-slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		OrgID:      orgID,
		ResourceID: resourceID,
		ServiceID:  serviceID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrResourceNotFound):
			h.logger.Warn("GET available-slots - Resource not found: resource_id=%d, org_id=%d", resourceID, orgID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET available-slots - Service not found: service_id=%d, org_id=%d", serviceID, orgID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrValidation):
			h.logger.Warn("GET available-slots - Validation failed: org_id=%d, error=%v", orgID, err)
			handlers.RespondBadRequest(w, msgValidationFailed)

		default:
			h.logger.Error("GET available-slots - Failed to get slots: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET available-slots - Retrieved %d slots: resource_id=%d, date=%s",
		len(result.Slots), resourceID, result.Date)
	handlers.RespondJSON(w, http.StatusOK, result)
}
