package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
	"github.com/m04kA/CWP-AllocationService/pkg/dbmetrics"
	"github.com/m04kA/CWP-AllocationService/pkg/psqlbuilder"
)

// bookingColumns полный список колонок таблицы bookings
var bookingColumns = []string{
	"id",
	"org_id",
	"user_id",
	"service_id",
	"customer_vehicle_id",
	"wash_center_id",
	"employee_id",
	"fleet_vehicle_id",
	"scheduled_start",
	"scheduled_end",
	"status",
	"total_price",
	"address",
	"service_name",
	"service_type",
	"customer_name",
	"customer_email",
	"customer_phone",
	"vehicle_plate",
	"vehicle_brand",
	"vehicle_model",
	"notes",
	"cancellation_reason",
	"canceled_by",
	"canceled_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её — аллокатор
// всегда вызывает Create внутри сериализуемой транзакции вместе с проверкой
// пересечений, чтобы исключить двойное бронирование ресурса
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"org_id",
			"user_id",
			"service_id",
			"customer_vehicle_id",
			"wash_center_id",
			"employee_id",
			"fleet_vehicle_id",
			"scheduled_start",
			"scheduled_end",
			"status",
			"total_price",
			"address",
			"service_name",
			"service_type",
			"customer_name",
			"customer_email",
			"customer_phone",
			"vehicle_plate",
			"vehicle_brand",
			"vehicle_model",
			"notes",
		).
		Values(
			b.OrgID,
			b.UserID,
			b.ServiceID,
			b.CustomerVehicleID,
			b.WashCenterID,
			b.EmployeeID,
			b.FleetVehicleID,
			b.ScheduledStart,
			b.ScheduledEnd,
			b.Status,
			b.TotalPrice,
			b.Address,
			b.ServiceName,
			b.ServiceType,
			b.CustomerName,
			b.CustomerEmail,
			b.CustomerPhone,
			b.VehiclePlate,
			b.VehicleBrand,
			b.VehicleModel,
			b.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("scheduled_start DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByOrgWithFilter получает бронирования организации с гибкой фильтрацией
// Read-only проекция для дашборда и kanban-доски; не блокирует строки
func (r *Repository) GetByOrgWithFilter(ctx context.Context, filter domain.OrgBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"org_id": filter.OrgID})

	// Фильтрация по назначенному ресурсу (любая из трёх ссылок)
	if filter.ResourceID != nil {
		selectBuilder = selectBuilder.Where(resourceRefCond(*filter.ResourceID))
	}

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"scheduled_start": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"scheduled_start": *filter.EndDate})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": activeStatusStrings()})
	}

	selectBuilder = selectBuilder.OrderBy("scheduled_start ASC, id ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrgWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrgWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// FindOverlapping находит активные бронирования ресурса, пересекающиеся с
// полуоткрытым интервалом [window.Start, window.End)
// Граничные случаи пересечением не считаются: existing.start < end AND start < existing.end
//
// forUpdate=true добавляет FOR UPDATE — обязательно на пути check-then-reserve
// аллокатора, чтобы конкурентная аллокация того же ресурса сериализовалась
func (r *Repository) FindOverlapping(ctx context.Context, resourceID int64, window domain.TimeRange, forUpdate bool) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(resourceRefCond(resourceID)).
		Where(squirrel.Eq{"status": activeStatusStrings()}).
		Where(squirrel.Lt{"scheduled_start": window.End}).
		Where(squirrel.Gt{"scheduled_end": window.Start}).
		OrderBy("scheduled_start ASC, id ASC")

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// FindFutureActiveByResource находит активные бронирования ресурса, начинающиеся
// после указанного момента. Используется при деактивации ресурса
func (r *Repository) FindFutureActiveByResource(ctx context.Context, resourceID int64, after time.Time, forUpdate bool) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(resourceRefCond(resourceID)).
		Where(squirrel.Eq{"status": activeStatusStrings()}).
		Where(squirrel.Gt{"scheduled_end": after}).
		OrderBy("scheduled_start ASC, id ASC")

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindFutureActiveByResource - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindFutureActiveByResource - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatusFrom переводит бронирование из ожидаемого статуса в новый
// Guarded compare-and-swap: WHERE id = $1 AND status = $2
// 0 затронутых строк означает либо отсутствие брони, либо конкурентное
// изменение статуса — различаем дополнительным SELECT
func (r *Repository) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()"))

	return r.guardedUpdate(ctx, updateBuilder, id, from, "UpdateStatusFrom")
}

// Complete переводит бронирование в completed и фиксирует completed_at
func (r *Repository) Complete(ctx context.Context, id int64, from domain.BookingStatus) error {
	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCompleted).
		Set("completed_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()"))

	return r.guardedUpdate(ctx, updateBuilder, id, from, "Complete")
}

// Cancel переводит бронирование в canceled с указанием инициатора и причины
// Уход из активного статуса автоматически освобождает слот ресурса:
// FindOverlapping учитывает только активные статусы
func (r *Repository) Cancel(ctx context.Context, id int64, from domain.BookingStatus, actor domain.CancelActor, reason string) error {
	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCanceled).
		Set("cancellation_reason", reason).
		Set("canceled_by", actor).
		Set("canceled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()"))

	return r.guardedUpdate(ctx, updateBuilder, id, from, "Cancel")
}

func (r *Repository) guardedUpdate(ctx context.Context, updateBuilder squirrel.UpdateBuilder, id int64, from domain.BookingStatus, op string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := updateBuilder.
		Where(squirrel.Eq{"id": id, "status": from}).
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
		// Различаем "не найдено" и "статус изменён конкурентно"
		existsQuery, existsArgs, err := psqlbuilder.Select("1").
			From("bookings").
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %s - build exists query: %v", ErrBuildQuery, op, err)
		}

		var one int
		err = executor.QueryRowContext(ctx, existsQuery, existsArgs...).Scan(&one)
		if err == sql.ErrNoRows {
			return ErrBookingNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %s - exists check: %v", ErrExecQuery, op, err)
		}
		return ErrStatusConflict
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime
	var canceledBy sql.NullString

	err := row.Scan(
		&b.ID,
		&b.OrgID,
		&b.UserID,
		&b.ServiceID,
		&b.CustomerVehicleID,
		&b.WashCenterID,
		&b.EmployeeID,
		&b.FleetVehicleID,
		&b.ScheduledStart,
		&b.ScheduledEnd,
		&b.Status,
		&b.TotalPrice,
		&b.Address,
		&b.ServiceName,
		&b.ServiceType,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.VehiclePlate,
		&b.VehicleBrand,
		&b.VehicleModel,
		&b.Notes,
		&b.CancellationReason,
		&canceledBy,
		&b.CanceledAt,
		&b.CompletedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if canceledBy.Valid {
		actor := domain.CancelActor(canceledBy.String)
		b.CanceledBy = &actor
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// resourceRefCond условие "бронирование ссылается на ресурс" по любой из трёх колонок
func resourceRefCond(resourceID int64) squirrel.Or {
	return squirrel.Or{
		squirrel.Eq{"wash_center_id": resourceID},
		squirrel.Eq{"employee_id": resourceID},
		squirrel.Eq{"fleet_vehicle_id": resourceID},
	}
}

func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
