package outbox

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
	"github.com/m04kA/CWP-AllocationService/pkg/dbmetrics"
	"github.com/m04kA/CWP-AllocationService/pkg/psqlbuilder"
)

var eventColumns = []string{
	"id",
	"booking_id",
	"kind",
	"channel",
	"recipient",
	"customer_name",
	"service_name",
	"vehicle_info",
	"scheduled_at",
	"location",
	"status",
	"attempts",
	"last_error",
	"created_at",
	"sent_at",
}

// Repository репозиторий outbox-очереди уведомлений
// События пишутся в той же транзакции, что и смена статуса бронирования,
// и вычитываются фоновым воркером
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория outbox
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Enqueue добавляет событие в очередь в статусе pending
func (r *Repository) Enqueue(ctx context.Context, e *domain.NotificationEvent) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("notification_outbox").
		Columns(
			"id",
			"booking_id",
			"kind",
			"channel",
			"recipient",
			"customer_name",
			"service_name",
			"vehicle_info",
			"scheduled_at",
			"location",
			"status",
		).
		Values(
			e.ID,
			e.BookingID,
			e.Kind,
			e.Channel,
			e.Recipient,
			e.CustomerName,
			e.ServiceName,
			e.VehicleInfo,
			e.ScheduledAt,
			e.Location,
			domain.OutboxPending,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Enqueue - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Enqueue - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListPending возвращает необработанные события в порядке создания
// FOR UPDATE SKIP LOCKED позволяет нескольким воркерам разбирать очередь
// без взаимной блокировки
func (r *Repository) ListPending(ctx context.Context, limit int) ([]*domain.NotificationEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(eventColumns...).
		From("notification_outbox").
		Where(squirrel.Eq{"status": domain.OutboxPending}).
		OrderBy("created_at ASC").
		Limit(uint64(limit))

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE SKIP LOCKED")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]*domain.NotificationEvent, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListPending - scan row: %v", ErrScanRow, err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPending - rows error: %v", ErrScanRow, err)
	}

	return events, nil
}

// MarkSent помечает событие доставленным
func (r *Repository) MarkSent(ctx context.Context, id string) error {
	updateBuilder := psqlbuilder.Update("notification_outbox").
		Set("status", domain.OutboxSent).
		Set("sent_at", squirrel.Expr("NOW()")).
		Set("last_error", nil)

	return r.update(ctx, updateBuilder, id, "MarkSent")
}

// MarkFailed фиксирует неудачную попытку доставки
// После maxAttempts попыток событие переводится в failed и больше не берётся
// воркером; до этого остаётся pending и будет повторено
func (r *Repository) MarkFailed(ctx context.Context, id string, attempts int, maxAttempts int, lastErr string) error {
	status := domain.OutboxPending
	if attempts >= maxAttempts {
		status = domain.OutboxFailed
	}

	updateBuilder := psqlbuilder.Update("notification_outbox").
		Set("status", status).
		Set("attempts", attempts).
		Set("last_error", lastErr)

	return r.update(ctx, updateBuilder, id, "MarkFailed")
}

func (r *Repository) update(ctx context.Context, updateBuilder squirrel.UpdateBuilder, id string, op string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := updateBuilder.
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func scanEvent(rows *sql.Rows) (*domain.NotificationEvent, error) {
	var e domain.NotificationEvent
	var createdAt sql.NullTime

	err := rows.Scan(
		&e.ID,
		&e.BookingID,
		&e.Kind,
		&e.Channel,
		&e.Recipient,
		&e.CustomerName,
		&e.ServiceName,
		&e.VehicleInfo,
		&e.ScheduledAt,
		&e.Location,
		&e.Status,
		&e.Attempts,
		&e.LastError,
		&createdAt,
		&e.SentAt,
	)
	if err != nil {
		return nil, err
	}

	e.CreatedAt = createdAt.Time

	return &e, nil
}
