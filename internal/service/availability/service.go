package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
	resourceRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/resource"
)

// Service индекс доступности: отвечает, свободен ли ресурс в интервале,
// и перечисляет свободные слоты в рамках рабочего окна ресурса
// Все вычисления во внутреннем каноническом времени (UTC)
type Service struct {
	bookingRepo        BookingRepository
	resourceRepo       ResourceRepository
	granularityMinutes int
	logger             Logger
}

// NewService создает индекс доступности
// granularityMinutes задает шаг генерации слотов (по умолчанию 15 минут)
func NewService(bookingRepo BookingRepository, resourceRepo ResourceRepository, granularityMinutes int, logger Logger) *Service {
	if granularityMinutes <= 0 {
		granularityMinutes = domain.DefaultSlotGranularityMinutes
	}
	return &Service{
		bookingRepo:        bookingRepo,
		resourceRepo:       resourceRepo,
		granularityMinutes: granularityMinutes,
		logger:             logger,
	}
}

// IsFree возвращает true, если ни одно активное бронирование ресурса не
// пересекает полуоткрытый интервал [start, end)
// Read-only путь: строки не блокируются, для отображения результат может
// устареть — строгая сериализация нужна только на пути reserve/release
func (s *Service) IsFree(ctx context.Context, resourceID int64, start, end time.Time) (bool, error) {
	window := domain.TimeRange{Start: start.UTC(), End: end.UTC()}
	if !window.IsValid() {
		return false, ErrInvalidWindow
	}

	overlapping, err := s.bookingRepo.FindOverlapping(ctx, resourceID, window, false)
	if err != nil {
		s.logger.Error("IsFree: failed to find overlapping bookings for resource=%d: %v", resourceID, err)
		return false, fmt.Errorf("%w: IsFree - repository error: %v", ErrInternal, err)
	}

	return len(overlapping) == 0, nil
}

// FindFreeSlots возвращает конечный список стартов свободных слотов
// длительности durationMinutes на указанную дату, с фиксированным шагом
// в рамках рабочего окна ресурса
// Одна выборка бронирований на весь день, фильтрация пересечений в памяти
func (s *Service) FindFreeSlots(ctx context.Context, resourceID int64, date time.Time, durationMinutes int) ([]time.Time, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidWindow
	}

	res, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		s.logger.Error("FindFreeSlots: failed to get resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: FindFreeSlots - repository error: %v", ErrInternal, err)
	}

	dayStart, err := atClock(date, res.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("%w: FindFreeSlots - bad open time %q: %v", ErrInternal, res.OpenTime, err)
	}
	dayEnd, err := atClock(date, res.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("%w: FindFreeSlots - bad close time %q: %v", ErrInternal, res.CloseTime, err)
	}
	if !dayStart.Before(dayEnd) {
		return []time.Time{}, nil
	}

	// Все активные бронирования ресурса за рабочее окно одной выборкой
	bookings, err := s.bookingRepo.FindOverlapping(ctx, resourceID, domain.TimeRange{Start: dayStart, End: dayEnd}, false)
	if err != nil {
		s.logger.Error("FindFreeSlots: failed to find bookings for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: FindFreeSlots - repository error: %v", ErrInternal, err)
	}

	duration := time.Duration(durationMinutes) * time.Minute
	step := time.Duration(s.granularityMinutes) * time.Minute

	slots := make([]time.Time, 0)
	for cursor := dayStart; !cursor.Add(duration).After(dayEnd); cursor = cursor.Add(step) {
		candidate := domain.TimeRange{Start: cursor, End: cursor.Add(duration)}
		if !overlapsAny(candidate, bookings) {
			slots = append(slots, cursor)
		}
	}

	return slots, nil
}

// overlapsAny проверяет пересечение кандидата с активными бронированиями
func overlapsAny(candidate domain.TimeRange, bookings []*domain.Booking) bool {
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if candidate.Overlaps(b.Window()) {
			return true
		}
	}
	return false
}

// atClock возвращает момент на дату date со временем суток "HH:MM" в UTC
func atClock(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(domain.TimeFormat, clock)
	if err != nil {
		return time.Time{}, err
	}
	d := date.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
