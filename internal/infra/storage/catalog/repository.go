package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-CleaningBooking/pkg/txmanager"
)

var serviceColumns = []string{
	"id",
	"title",
	"description",
	"hourly_rate",
	"recommended_hours",
	"category",
	"is_active",
}

// Repository репозиторий каталога услуг
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает услугу по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.ServiceType, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("service_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	service, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan service: %v", ErrScanRow, err)
	}

	return service, nil
}

// List получает услуги каталога
// onlyActive = true скрывает выключенные услуги
func (r *Repository) List(ctx context.Context, onlyActive bool) ([]*domain.ServiceType, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(serviceColumns...).
		From("service_types").
		OrderBy("sort_order ASC", "title ASC")

	if onlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.ServiceType, 0)
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// Upsert создает или обновляет услугу (используется при загрузке каталога из конфигурации)
func (r *Repository) Upsert(ctx context.Context, service *domain.ServiceType, sortOrder int) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("service_types").
		Columns(
			"id",
			"title",
			"description",
			"hourly_rate",
			"recommended_hours",
			"category",
			"is_active",
			"sort_order",
		).
		Values(
			service.ID,
			service.Title,
			service.Description,
			service.HourlyRate,
			service.RecommendedHours,
			service.Category,
			service.IsActive,
			sortOrder,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			hourly_rate = EXCLUDED.hourly_rate,
			recommended_hours = EXCLUDED.recommended_hours,
			category = EXCLUDED.category,
			is_active = EXCLUDED.is_active,
			sort_order = EXCLUDED.sort_order,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.ServiceType, error) {
	var service domain.ServiceType
	var description sql.NullString

	err := row.Scan(
		&service.ID,
		&service.Title,
		&description,
		&service.HourlyRate,
		&service.RecommendedHours,
		&service.Category,
		&service.IsActive,
	)
	if err != nil {
		return nil, err
	}

	service.Description = description.String
	return &service, nil
}
