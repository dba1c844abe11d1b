package resources

import (
	"context"
	"time"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error)
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	ListActive(ctx context.Context, orgID int64, resourceType domain.ResourceType) ([]*domain.Resource, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	FindFutureActiveByResource(ctx context.Context, resourceID int64, after time.Time, forUpdate bool) ([]*domain.Booking, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
