package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
	"github.com/m04kA/CWP-AllocationService/pkg/dbmetrics"
	"github.com/m04kA/CWP-AllocationService/pkg/psqlbuilder"
)

var serviceColumns = []string{
	"id",
	"org_id",
	"name",
	"price",
	"duration_minutes",
	"type",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий каталога услуг организации
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает услугу по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	svc, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan service: %v", ErrScanRow, err)
	}

	return svc, nil
}

// ListByOrg возвращает услуги организации; onlyActive ограничивает выборку
// активными предложениями
func (r *Repository) ListByOrg(ctx context.Context, orgID int64, onlyActive bool) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"org_id": orgID}).
		OrderBy("id ASC")

	if onlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOrg - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOrg - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByOrg - scan row: %v", ErrScanRow, err)
		}
		services = append(services, svc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByOrg - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.Service, error) {
	var svc domain.Service
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&svc.ID,
		&svc.OrgID,
		&svc.Name,
		&svc.Price,
		&svc.DurationMinutes,
		&svc.Type,
		&svc.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	svc.CreatedAt = createdAt.Time
	svc.UpdatedAt = updatedAt.Time

	return &svc, nil
}
