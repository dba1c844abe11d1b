package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
)

// AvailabilityService интерфейс индекса доступности
type AvailabilityService interface {
	FindFreeSlots(ctx context.Context, resourceID int64, date time.Time, durationMinutes int) ([]time.Time, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время в UTC
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
