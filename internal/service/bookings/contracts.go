package bookings

import (
	"context"
	"time"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByOrgWithFilter(ctx context.Context, filter domain.OrgBookingsFilter) ([]*domain.Booking, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus) error
	Complete(ctx context.Context, id int64, from domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, from domain.BookingStatus, actor domain.CancelActor, reason string) error
}

// ResourceRepository интерфейс репозитория ресурсов
// Нужен для имени мойки в уведомлениях
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// OutboxRepository интерфейс outbox-очереди уведомлений
type OutboxRepository interface {
	Enqueue(ctx context.Context, e *domain.NotificationEvent) error
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
