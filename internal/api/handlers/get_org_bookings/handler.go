package get_org_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/CWP-AllocationService/internal/api/handlers"
	"github.com/m04kA/CWP-AllocationService/internal/service/bookings"
)

const (
	msgInvalidOrgID = "некорректный ID организации"
	msgInvalidQuery = "некорректные параметры фильтрации"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/orgs/{orgId}/bookings
// Фильтры: resourceId, startDate, endDate, status, includeInactive
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем orgId из URL
	vars := mux.Vars(r)
	orgID, err := strconv.ParseInt(vars["orgId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /orgs/{id}/bookings - Invalid org ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrgID)
		return
	}

	req, err := ParseQuery(orgID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /orgs/{id}/bookings - Invalid query: org_id=%d, error=%v", orgID, err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.service.GetOrgBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /orgs/{id}/bookings - Invalid filter: org_id=%d, error=%v", orgID, err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		default:
			h.logger.Error("GET /orgs/{id}/bookings - Failed to get bookings: org_id=%d, error=%v", orgID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /orgs/{id}/bookings - Retrieved %d bookings: org_id=%d", result.Total, orgID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
