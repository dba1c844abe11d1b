package notify

import (
	"context"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
)

// EmailClient интерфейс клиента почтового шлюза
type EmailClient interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMSClient интерфейс клиента SMS-шлюза
type SMSClient interface {
	Send(ctx context.Context, to, message string) error
}

// OutboxRepository интерфейс репозитория исходящих уведомлений
type OutboxRepository interface {
	ListPending(ctx context.Context, limit int) ([]*domain.NotificationEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, attempts int, maxAttempts int, lastErr string) error
}

// Dispatcher интерфейс доставки одного уведомления
type Dispatcher interface {
	Dispatch(ctx context.Context, event *domain.NotificationEvent) error
}

// MetricsObserver учитывает исходы отправок уведомлений
type MetricsObserver interface {
	ObserveDispatch(channel, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NoopMetrics заглушка наблюдателя метрик, когда метрики выключены
type NoopMetrics struct{}

// ObserveDispatch ничего не делает
func (NoopMetrics) ObserveDispatch(string, string) {}
