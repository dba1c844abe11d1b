package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/CWP-AllocationService/internal/api/handlers"
	"github.com/m04kA/CWP-AllocationService/internal/api/middleware"
	createBooking "github.com/m04kA/CWP-AllocationService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidStart        = "некорректный формат времени начала, ожидается RFC3339"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgValidationFailed    = "некорректные данные бронирования"
	msgInvalidSchedule     = "время начала должно быть в будущем"
	msgServiceNotFound     = "услуга не найдена"
	msgServiceInactive     = "услуга недоступна"
	msgVehicleNotFound     = "автомобиль не найден"
	msgResourceNotFound    = "ресурс не найден"
	msgNoResourceAvailable = "у организации нет подходящих активных ресурсов"
	msgSlotUnavailable     = "выбранный временной слот недоступен"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени начала)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot unavailable: user_id=%d, org_id=%d", userID, req.OrgID)
			handlers.RespondError(w, http.StatusConflict, msgSlotUnavailable)

		case errors.Is(err, createBooking.ErrNoResourceAvailable):
			h.logger.Warn("POST /bookings - No resource available: user_id=%d, org_id=%d", userID, req.OrgID)
			handlers.RespondError(w, http.StatusConflict, msgNoResourceAvailable)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%d, org_id=%d", req.ServiceID, req.OrgID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrServiceInactive):
			h.logger.Warn("POST /bookings - Service inactive: service_id=%d, org_id=%d", req.ServiceID, req.OrgID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createBooking.ErrVehicleNotFound):
			h.logger.Warn("POST /bookings - Vehicle not found: vehicle_id=%d, user_id=%d", req.CustomerVehicleID, userID)
			handlers.RespondNotFound(w, msgVehicleNotFound)

		case errors.Is(err, createBooking.ErrResourceNotFound):
			h.logger.Warn("POST /bookings - Requested resource not found: user_id=%d, org_id=%d", userID, req.OrgID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createBooking.ErrInvalidSchedule):
			h.logger.Warn("POST /bookings - Invalid schedule: user_id=%d, org_id=%d", userID, req.OrgID)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		case errors.Is(err, createBooking.ErrValidation):
			h.logger.Warn("POST /bookings - Validation failed: user_id=%d, org_id=%d, error=%v", userID, req.OrgID, err)
			handlers.RespondBadRequest(w, msgValidationFailed)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, org_id=%d, error=%v",
				userID, req.OrgID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, org_id=%d",
		result.ID, userID, req.OrgID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
