package resource

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

var resourceColumns = []string{
	"id",
	"org_id",
	"type",
	"name",
	"active",
	"address",
	"email",
	"phone",
	"license_plate",
	"brand",
	"model",
	"year",
	"open_time",
	"close_time",
	"last_booked_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий ресурсов: мойки, сотрудники, автомобили автопарка
// живут в одной таблице resources с типом-дискриминатором
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create регистрирует новый ресурс организации
func (r *Repository) Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("resources").
		Columns(
			"org_id",
			"type",
			"name",
			"active",
			"address",
			"email",
			"phone",
			"license_plate",
			"brand",
			"model",
			"year",
			"open_time",
			"close_time",
		).
		Values(
			res.OrgID,
			res.Type,
			res.Name,
			res.Active,
			res.Address,
			res.Email,
			res.Phone,
			res.LicensePlate,
			res.Brand,
			res.Model,
			res.Year,
			res.OpenTime,
			res.CloseTime,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает ресурс по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(resourceColumns...).
		From("resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanResource(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %v", ErrScanRow, err)
	}

	return res, nil
}

// ListActive возвращает активные ресурсы организации указанного типа
// в детерминированном порядке выбора аллокатора: наименее недавно
// бронировавшиеся первыми, при равенстве — по возрастанию ID
func (r *Repository) ListActive(ctx context.Context, orgID int64, resourceType domain.ResourceType) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(resourceColumns...).
		From("resources").
		Where(squirrel.Eq{
			"org_id": orgID,
			"type":   resourceType,
			"active": true,
		}).
		OrderBy("COALESCE(last_booked_at, to_timestamp(0)) ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanResources(rows)
}

// SetActive включает или выключает ресурс
// Проверка будущих бронирований перед деактивацией — ответственность сервиса
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("resources").
		Set("active", active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetActive - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetActive - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetActive - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrResourceNotFound
	}

	return nil
}

// TouchLastBooked обновляет отметку последнего бронирования ресурсов
// Вызывается аллокатором в той же транзакции, что и создание брони, —
// от этой отметки зависит порядок выбора в ListActive
func (r *Repository) TouchLastBooked(ctx context.Context, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("resources").
		Set("last_booked_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: TouchLastBooked - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: TouchLastBooked - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResource(row rowScanner) (*domain.Resource, error) {
	var res domain.Resource
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.OrgID,
		&res.Type,
		&res.Name,
		&res.Active,
		&res.Address,
		&res.Email,
		&res.Phone,
		&res.LicensePlate,
		&res.Brand,
		&res.Model,
		&res.Year,
		&res.OpenTime,
		&res.CloseTime,
		&res.LastBookedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

func scanResources(rows *sql.Rows) ([]*domain.Resource, error) {
	resources := make([]*domain.Resource, 0)

	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanResources - scan row: %v", ErrScanRow, err)
		}
		resources = append(resources, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanResources - rows error: %v", ErrScanRow, err)
	}

	return resources, nil
}
