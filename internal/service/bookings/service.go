package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
	bookingRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/booking"
	"github.com/m04kA/CWP-AllocationService/internal/service/bookings/models"
)

// Service машина состояний жизненного цикла бронирования
// pending -> confirmed -> in_progress -> completed, canceled из любого
// неконечного статуса. Статус меняется только через методы этого сервиса:
// каждый переход — guarded update в транзакции вместе с записью события
// уведомления в outbox. Сбои доставки уведомлений переход не откатывают
type Service struct {
	bookingRepo  BookingRepository
	resourceRepo ResourceRepository
	outboxRepo   OutboxRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает сервис жизненного цикла бронирований
func NewService(
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		resourceRepo: resourceRepo,
		outboxRepo:   outboxRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только собственные бронирования
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to booking=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *req.Status)
		}
		domainStatus = &status
	}

	list, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(list), nil
}

// GetOrgBookings получает бронирования организации с фильтрацией
// Read-only проекция для дашборда и kanban-доски
func (s *Service) GetOrgBookings(ctx context.Context, req *models.GetOrgBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid filter: %v", ErrInvalidInput, err)
	}

	list, err := s.bookingRepo.GetByOrgWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetOrgBookings: repository error for org=%d: %v", req.OrgID, err)
		return nil, fmt.Errorf("%w: GetOrgBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(list), nil
}

// Confirm переводит бронирование pending -> confirmed
// Побочный эффект: уведомление клиента о подтверждении
func (s *Service) Confirm(ctx context.Context, bookingID int64) error {
	return s.transition(ctx, bookingID, domain.StatusConfirmed, domain.EventConfirmed, func(txCtx context.Context, b *domain.Booking) error {
		return s.bookingRepo.UpdateStatusFrom(txCtx, b.ID, b.Status, domain.StatusConfirmed)
	})
}

// Start переводит бронирование confirmed -> in_progress
// Побочный эффект: уведомление клиента о начале обслуживания
func (s *Service) Start(ctx context.Context, bookingID int64) error {
	return s.transition(ctx, bookingID, domain.StatusInProgress, domain.EventStarted, func(txCtx context.Context, b *domain.Booking) error {
		return s.bookingRepo.UpdateStatusFrom(txCtx, b.ID, b.Status, domain.StatusInProgress)
	})
}

// Complete переводит бронирование in_progress -> completed
// Фиксирует completed_at и уведомляет клиента о завершении
func (s *Service) Complete(ctx context.Context, bookingID int64) error {
	return s.transition(ctx, bookingID, domain.StatusCompleted, domain.EventCompleted, func(txCtx context.Context, b *domain.Booking) error {
		return s.bookingRepo.Complete(txCtx, b.ID, b.Status)
	})
}

// Cancel переводит бронирование в canceled
// Инициатор: владелец бронирования — customer, иначе организация
// Уход из активного статуса освобождает слот ресурса — зеркало резервации
// аллокатора: последующий запрос на тот же слот того же ресурса пройдёт
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	actorFor := func(b *domain.Booking) domain.CancelActor {
		if b.UserID == req.UserID {
			return domain.CanceledByCustomer
		}
		return domain.CanceledByOrg
	}

	reason := ""
	if req.CancellationReason != nil {
		reason = *req.CancellationReason
	}

	return s.transition(ctx, bookingID, domain.StatusCanceled, domain.EventCanceled, func(txCtx context.Context, b *domain.Booking) error {
		return s.bookingRepo.Cancel(txCtx, b.ID, b.Status, actorFor(b), reason)
	})
}

// transition общий каркас перехода статуса:
// проверка легальности перехода по графу жизненного цикла, guarded update
// и постановка события уведомления в outbox — всё в одной транзакции
func (s *Service) transition(
	ctx context.Context,
	bookingID int64,
	to domain.BookingStatus,
	eventKind domain.EventKind,
	apply func(txCtx context.Context, b *domain.Booking) error,
) error {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if !domain.CanTransition(booking.Status, to) {
		s.logger.Warn("transition: illegal %s -> %s for booking=%d", booking.Status, to, bookingID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, to)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := apply(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				// Статус изменился между чтением и обновлением
				s.logger.Warn("transition: concurrent status change for booking=%d", bookingID)
				return fmt.Errorf("%w: booking status changed concurrently", ErrInvalidTransition)
			}
			s.logger.Error("transition: repository error for booking=%d: %v", bookingID, err)
			return fmt.Errorf("%w: transition - repository error: %v", ErrInternal, err)
		}

		for _, event := range s.eventsFor(txCtx, booking, eventKind) {
			if err := s.outboxRepo.Enqueue(txCtx, event); err != nil {
				s.logger.Error("transition: failed to enqueue %s event for booking=%d: %v", eventKind, bookingID, err)
				return fmt.Errorf("%w: transition - outbox error: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("transition: booking=%d %s -> %s", bookingID, booking.Status, to)
	return nil
}

// eventsFor строит события уведомлений по доступным контактам клиента
func (s *Service) eventsFor(ctx context.Context, b *domain.Booking, kind domain.EventKind) []*domain.NotificationEvent {
	location := s.locationFor(ctx, b)
	vehicleInfo := ""
	if b.VehicleBrand != nil && b.VehicleModel != nil && b.VehiclePlate != nil {
		vehicleInfo = fmt.Sprintf("%s %s - %s", *b.VehicleBrand, *b.VehicleModel, *b.VehiclePlate)
	}

	events := make([]*domain.NotificationEvent, 0, 2)

	if b.CustomerEmail != nil && *b.CustomerEmail != "" {
		events = append(events, s.newEvent(b, kind, domain.ChannelEmail, *b.CustomerEmail, vehicleInfo, location))
	}
	if b.CustomerPhone != nil && *b.CustomerPhone != "" {
		events = append(events, s.newEvent(b, kind, domain.ChannelSMS, *b.CustomerPhone, vehicleInfo, location))
	}

	return events
}

func (s *Service) newEvent(b *domain.Booking, kind domain.EventKind, channel domain.Channel, recipient, vehicleInfo, location string) *domain.NotificationEvent {
	return &domain.NotificationEvent{
		ID:           uuid.NewString(),
		BookingID:    b.ID,
		Kind:         kind,
		Channel:      channel,
		Recipient:    recipient,
		CustomerName: b.CustomerName,
		ServiceName:  b.ServiceName,
		VehicleInfo:  vehicleInfo,
		ScheduledAt:  b.ScheduledStart,
		Location:     location,
	}
}

// locationFor возвращает место обслуживания для текста уведомления:
// адрес клиента для выездных услуг, имя мойки для стационарных
func (s *Service) locationFor(ctx context.Context, b *domain.Booking) string {
	if b.ServiceType == domain.ServiceTypeMobile {
		if b.Address != nil {
			return *b.Address
		}
		return ""
	}

	if b.WashCenterID == nil {
		return ""
	}
	center, err := s.resourceRepo.GetByID(ctx, *b.WashCenterID)
	if err != nil {
		// Имя мойки не критично для перехода — оставляем пустым
		s.logger.Warn("locationFor: failed to get wash center=%d: %v", *b.WashCenterID, err)
		return ""
	}
	return center.Name
}

func (s *Service) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("getBooking: repository error for booking=%d: %v", id, err)
		return nil, fmt.Errorf("%w: getBooking - repository error: %v", ErrInternal, err)
	}
	return booking, nil
}
