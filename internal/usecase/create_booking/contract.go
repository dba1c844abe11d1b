package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	FindOverlapping(ctx context.Context, resourceID int64, window domain.TimeRange, forUpdate bool) ([]*domain.Booking, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	ListActive(ctx context.Context, orgID int64, resourceType domain.ResourceType) ([]*domain.Resource, error)
	TouchLastBooked(ctx context.Context, ids []int64, at time.Time) error
}

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// VehicleRepository интерфейс репозитория автомобилей клиентов
type VehicleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.CustomerVehicle, error)
}

// OutboxRepository интерфейс outbox-очереди уведомлений
type OutboxRepository interface {
	Enqueue(ctx context.Context, e *domain.NotificationEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsObserver учитывает исходы аллокаций
type MetricsObserver interface {
	ObserveAllocation(outcome string)
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

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// NoopMetrics заглушка наблюдателя метрик, когда метрики выключены
type NoopMetrics struct{}

// ObserveAllocation ничего не делает
func (NoopMetrics) ObserveAllocation(string) {}
