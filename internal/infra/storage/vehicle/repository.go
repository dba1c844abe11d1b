package vehicle

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
	"github.com/m04kA/CWP-AllocationService/pkg/dbmetrics"
	"github.com/m04kA/CWP-AllocationService/pkg/psqlbuilder"
)

var vehicleColumns = []string{
	"id",
	"user_id",
	"license_plate",
	"brand",
	"model",
	"year",
	"color",
	"created_at",
	"updated_at",
}

// Repository репозиторий автомобилей клиентов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория автомобилей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет автомобиль клиента
func (r *Repository) Create(ctx context.Context, v *domain.CustomerVehicle) (*domain.CustomerVehicle, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("customer_vehicles").
		Columns("user_id", "license_plate", "brand", "model", "year", "color").
		Values(v.UserID, v.LicensePlate, v.Brand, v.Model, v.Year, v.Color).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&v.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	v.CreatedAt = createdAt.Time
	v.UpdatedAt = updatedAt.Time

	return v, nil
}

// GetByID получает автомобиль клиента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.CustomerVehicle, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(vehicleColumns...).
		From("customer_vehicles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	v, err := scanVehicle(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan vehicle: %v", ErrScanRow, err)
	}

	return v, nil
}

// ListByUser возвращает автомобили пользователя
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.CustomerVehicle, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(vehicleColumns...).
		From("customer_vehicles").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	vehicles := make([]*domain.CustomerVehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByUser - scan row: %v", ErrScanRow, err)
		}
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByUser - rows error: %v", ErrScanRow, err)
	}

	return vehicles, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVehicle(row rowScanner) (*domain.CustomerVehicle, error) {
	var v domain.CustomerVehicle
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.LicensePlate,
		&v.Brand,
		&v.Model,
		&v.Year,
		&v.Color,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.CreatedAt = createdAt.Time
	v.UpdatedAt = updatedAt.Time

	return &v, nil
}
