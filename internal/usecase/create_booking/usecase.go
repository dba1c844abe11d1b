package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
	catalogRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/catalog"
	resourceRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/resource"
	vehicleRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/vehicle"
	"github.com/m04kA/CWP-AllocationService/pkg/txmanager"
)

// UseCase конфликт-безопасный аллокатор бронирований
// Подбирает и резервирует ресурсы (мойку/сотрудника/автомобиль автопарка)
// атомарно: весь check-then-reserve выполняется в SERIALIZABLE транзакции
// с блокировкой пересекающихся бронирований, поэтому из двух конкурентных
// запросов на один ресурс и пересекающееся окно выигрывает ровно один
type UseCase struct {
	bookingRepo  BookingRepository
	resourceRepo ResourceRepository
	catalogRepo  CatalogRepository
	vehicleRepo  VehicleRepository
	outboxRepo   OutboxRepository
	txManager    TransactionManager
	metrics      MetricsObserver
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр аллокатора
func NewUseCase(
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	catalogRepo CatalogRepository,
	vehicleRepo VehicleRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	metrics MetricsObserver,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		resourceRepo: resourceRepo,
		catalogRepo:  catalogRepo,
		vehicleRepo:  vehicleRepo,
		outboxRepo:   outboxRepo,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет аллокацию бронирования
// Всё или ничего: если любой из требуемых ресурсов недоступен, ни один
// ресурс не удерживается и бронирование не создаётся
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.metrics.ObserveAllocation(outcomeOf(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: org=%d, user=%d, service=%d, vehicle=%d, start=%s",
		req.OrgID, req.UserID, req.ServiceID, req.CustomerVehicleID, req.ScheduledStart.Format(time.RFC3339))

	// 1. Локальная валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Время начала должно быть в будущем
	now := uc.timeProvider.Now()
	start := req.ScheduledStart.UTC()
	if !start.After(now) {
		uc.logger.Warn("CreateBooking: scheduled start %s is not in the future", start.Format(time.RFC3339))
		return nil, ErrInvalidSchedule
	}

	// 3. Услуга: существует, принадлежит организации, активна
	svc, err := uc.catalogRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if svc.OrgID != req.OrgID {
		uc.logger.Warn("CreateBooking: service=%d belongs to org=%d, requested org=%d", svc.ID, svc.OrgID, req.OrgID)
		return nil, ErrServiceNotFound
	}
	if !svc.Active {
		uc.logger.Warn("CreateBooking: service=%d is inactive", svc.ID)
		return nil, ErrServiceInactive
	}

	// 4. Инварианты типа услуги (адрес/мойка) — до любых резерваций
	if err := validateServiceRules(req, svc); err != nil {
		uc.logger.Warn("CreateBooking: service rules failed: %v", err)
		return nil, err
	}

	// 5. Автомобиль клиента
	veh, err := uc.vehicleRepo.GetByID(ctx, req.CustomerVehicleID)
	if err != nil {
		if errors.Is(err, vehicleRepo.ErrVehicleNotFound) {
			uc.logger.Warn("CreateBooking: vehicle=%d not found", req.CustomerVehicleID)
			return nil, ErrVehicleNotFound
		}
		uc.logger.Error("CreateBooking: failed to get vehicle=%d: %v", req.CustomerVehicleID, err)
		return nil, fmt.Errorf("%w: failed to get vehicle: %v", ErrInternal, err)
	}
	if veh.UserID != req.UserID {
		uc.logger.Warn("CreateBooking: vehicle=%d belongs to user=%d, requested by user=%d", veh.ID, veh.UserID, req.UserID)
		return nil, ErrVehicleNotFound
	}

	window := domain.TimeRange{
		Start: start,
		End:   start.Add(time.Duration(svc.DurationMinutes) * time.Minute),
	}

	var result *domain.Booking

	// 6. Весь check-then-reserve — в сериализуемой транзакции
	// Менеджер транзакций повторяет fn при конфликте сериализации
	// ограниченное число раз; исчерпание попыток трактуем как занятый слот
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		assigned := make(map[domain.ResourceType]*domain.Resource, 2)

		for _, rtype := range svc.RequiredResources() {
			var picked *domain.Resource
			var err error

			if rtype == domain.ResourceWashCenter && req.WashCenterID != nil {
				picked, err = uc.reserveExplicit(txCtx, req.OrgID, *req.WashCenterID, rtype, window)
			} else {
				picked, err = uc.reserveFirstFree(txCtx, req.OrgID, rtype, window)
			}
			if err != nil {
				return err
			}

			assigned[rtype] = picked
		}

		booking := uc.buildBooking(req, svc, veh, assigned, window)

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// Отметка последнего бронирования определяет порядок выбора
		// least-recently-booked в последующих аллокациях
		ids := make([]int64, 0, len(assigned))
		for _, res := range assigned {
			ids = append(ids, res.ID)
		}
		if err := uc.resourceRepo.TouchLastBooked(txCtx, ids, now); err != nil {
			uc.logger.Error("CreateBooking: failed to touch resources %v: %v", ids, err)
			return fmt.Errorf("%w: failed to update resource usage: %v", ErrInternal, err)
		}

		// Событие о принятой заявке — в той же транзакции, что и бронь
		for _, event := range uc.createdEvents(created, veh, assigned) {
			if err := uc.outboxRepo.Enqueue(txCtx, event); err != nil {
				uc.logger.Error("CreateBooking: failed to enqueue created event for booking=%d: %v", created.ID, err)
				return fmt.Errorf("%w: failed to enqueue notification: %v", ErrInternal, err)
			}
		}

		result = created
		return nil
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			// Конкурентная аллокация выиграла ресурс
			uc.logger.Warn("CreateBooking: serialization attempts exhausted: %v", err)
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking=%d for org=%d user=%d", result.ID, result.OrgID, result.UserID)

	return toResponse(result), nil
}

// reserveExplicit проверяет только явно запрошенный ресурс
// Занят — ErrSlotUnavailable; не найден/чужой/неактивен/не того типа — ErrResourceNotFound
func (uc *UseCase) reserveExplicit(ctx context.Context, orgID, resourceID int64, rtype domain.ResourceType, window domain.TimeRange) (*domain.Resource, error) {
	res, err := uc.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("CreateBooking: requested resource=%d not found", resourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	if res.OrgID != orgID || res.Type != rtype || !res.Active {
		uc.logger.Warn("CreateBooking: requested resource=%d is not an active %s of org=%d", resourceID, rtype, orgID)
		return nil, ErrResourceNotFound
	}

	free, err := uc.isFreeLocked(ctx, res.ID, window)
	if err != nil {
		return nil, err
	}
	if !free {
		uc.logger.Warn("CreateBooking: requested resource=%d is occupied in [%s, %s)",
			res.ID, window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339))
		return nil, ErrSlotUnavailable
	}

	return res, nil
}

// reserveFirstFree перебирает активные ресурсы типа в детерминированном
// порядке приоритета (least-recently-booked, затем ID по возрастанию)
// и выбирает первый свободный
func (uc *UseCase) reserveFirstFree(ctx context.Context, orgID int64, rtype domain.ResourceType, window domain.TimeRange) (*domain.Resource, error) {
	candidates, err := uc.resourceRepo.ListActive(ctx, orgID, rtype)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list active %s for org=%d: %v", rtype, orgID, err)
		return nil, fmt.Errorf("%w: failed to list resources: %v", ErrInternal, err)
	}

	if len(candidates) == 0 {
		uc.logger.Warn("CreateBooking: org=%d has no active %s", orgID, rtype)
		return nil, fmt.Errorf("%w: %s", ErrNoResourceAvailable, rtype)
	}

	for _, candidate := range candidates {
		free, err := uc.isFreeLocked(ctx, candidate.ID, window)
		if err != nil {
			return nil, err
		}
		if free {
			return candidate, nil
		}
	}

	uc.logger.Warn("CreateBooking: all %d active %s of org=%d are occupied in the requested window",
		len(candidates), rtype, orgID)
	return nil, fmt.Errorf("%w: %s", ErrSlotUnavailable, rtype)
}

// isFreeLocked проверяет доступность ресурса с блокировкой пересекающихся
// строк (FOR UPDATE) — сериализует конкурентные check-then-reserve
func (uc *UseCase) isFreeLocked(ctx context.Context, resourceID int64, window domain.TimeRange) (bool, error) {
	overlapping, err := uc.bookingRepo.FindOverlapping(ctx, resourceID, window, true)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to find overlapping bookings for resource=%d: %v", resourceID, err)
		return false, fmt.Errorf("%w: failed to check availability: %v", ErrInternal, err)
	}
	return len(overlapping) == 0, nil
}

// createdEvents строит события о принятой заявке по доступным контактам клиента
func (uc *UseCase) createdEvents(b *domain.Booking, veh *domain.CustomerVehicle, assigned map[domain.ResourceType]*domain.Resource) []*domain.NotificationEvent {
	location := ""
	if b.ServiceType == domain.ServiceTypeMobile {
		if b.Address != nil {
			location = *b.Address
		}
	} else if res, ok := assigned[domain.ResourceWashCenter]; ok {
		location = res.Name
	}

	newEvent := func(channel domain.Channel, recipient string) *domain.NotificationEvent {
		return &domain.NotificationEvent{
			ID:           uuid.NewString(),
			BookingID:    b.ID,
			Kind:         domain.EventCreated,
			Channel:      channel,
			Recipient:    recipient,
			CustomerName: b.CustomerName,
			ServiceName:  b.ServiceName,
			VehicleInfo:  veh.Info(),
			ScheduledAt:  b.ScheduledStart,
			Location:     location,
		}
	}

	events := make([]*domain.NotificationEvent, 0, 2)
	if b.CustomerEmail != nil && *b.CustomerEmail != "" {
		events = append(events, newEvent(domain.ChannelEmail, *b.CustomerEmail))
	}
	if b.CustomerPhone != nil && *b.CustomerPhone != "" {
		events = append(events, newEvent(domain.ChannelSMS, *b.CustomerPhone))
	}
	return events
}

func (uc *UseCase) buildBooking(
	req *Request,
	svc *domain.Service,
	veh *domain.CustomerVehicle,
	assigned map[domain.ResourceType]*domain.Resource,
	window domain.TimeRange,
) *domain.Booking {
	booking := &domain.Booking{
		OrgID:             req.OrgID,
		UserID:            req.UserID,
		ServiceID:         svc.ID,
		CustomerVehicleID: veh.ID,
		ScheduledStart:    window.Start,
		ScheduledEnd:      window.End,
		Status:            domain.StatusPending,
		TotalPrice:        svc.Price,
		Address:           req.Address,
		// Денормализация для истории и уведомлений
		ServiceName:   svc.Name,
		ServiceType:   svc.Type,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		VehiclePlate:  &veh.LicensePlate,
		VehicleBrand:  &veh.Brand,
		VehicleModel:  &veh.Model,
		Notes:         req.Notes,
	}

	if res, ok := assigned[domain.ResourceWashCenter]; ok {
		booking.WashCenterID = &res.ID
	}
	if res, ok := assigned[domain.ResourceEmployee]; ok {
		booking.EmployeeID = &res.ID
	}
	if res, ok := assigned[domain.ResourceFleetVehicle]; ok {
		booking.FleetVehicleID = &res.ID
	}

	return booking
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                b.ID,
		OrgID:             b.OrgID,
		UserID:            b.UserID,
		ServiceID:         b.ServiceID,
		CustomerVehicleID: b.CustomerVehicleID,
		WashCenterID:      b.WashCenterID,
		EmployeeID:        b.EmployeeID,
		FleetVehicleID:    b.FleetVehicleID,
		ScheduledStart:    b.ScheduledStart,
		ScheduledEnd:      b.ScheduledEnd,
		Status:            string(b.Status),
		TotalPrice:        b.TotalPrice,
		ServiceName:       b.ServiceName,
		ServiceType:       string(b.ServiceType),
		Address:           b.Address,
		VehiclePlate:      b.VehiclePlate,
		VehicleBrand:      b.VehicleBrand,
		VehicleModel:      b.VehicleModel,
		Notes:             b.Notes,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, ErrSlotUnavailable):
		return "slot_unavailable"
	case errors.Is(err, ErrNoResourceAvailable):
		return "no_resource"
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidSchedule):
		return "rejected"
	default:
		return "error"
	}
}
