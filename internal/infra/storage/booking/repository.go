package booking

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

var bookingColumns = []string{
	"id",
	"service_id",
	"service_title",
	"service_category",
	"hourly_rate",
	"hours",
	"booking_date",
	"start_time",
	"end_time",
	"duration_minutes",
	"first_name",
	"last_name",
	"email",
	"phone",
	"country_code",
	"address",
	"notes",
	"subtotal",
	"tax",
	"total",
	"deposit",
	"remaining",
	"payment_transaction_id",
	"status",
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

// Create сохраняет бронирование и возвращает его id
// Вставка идемпотентна по payment_transaction_id: повтор возвращает id уже сохраненной записи
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, record *domain.BookingRecord) (int64, bool, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"service_id",
			"service_title",
			"service_category",
			"hourly_rate",
			"hours",
			"booking_date",
			"start_time",
			"end_time",
			"duration_minutes",
			"first_name",
			"last_name",
			"email",
			"phone",
			"country_code",
			"address",
			"notes",
			"subtotal",
			"tax",
			"total",
			"deposit",
			"remaining",
			"payment_transaction_id",
			"status",
		).
		Values(
			record.ServiceID,
			record.ServiceTitle,
			record.ServiceCategory,
			record.HourlyRate,
			record.Hours,
			record.BookingDate,
			record.StartTime,
			record.EndTime,
			record.DurationMinutes,
			record.Client.FirstName,
			record.Client.LastName,
			record.Client.Email,
			record.Client.Phone,
			record.Client.CountryCode,
			record.Client.Address,
			record.Client.Notes,
			record.Subtotal,
			record.Tax,
			record.Total,
			record.Deposit,
			record.Remaining,
			record.PaymentTransactionID,
			record.Status,
		).
		Suffix("ON CONFLICT (payment_transaction_id) DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return 0, false, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&record.ID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// запись с этой транзакцией уже есть
		existing, err := r.GetByTransactionID(ctx, record.PaymentTransactionID)
		if err != nil {
			return 0, false, err
		}
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		record.UpdatedAt = existing.UpdatedAt
		return existing.ID, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	record.CreatedAt = createdAt.Time
	record.UpdatedAt = updatedAt.Time

	return record.ID, true, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BookingRecord, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByTransactionID получает бронирование по id платежной транзакции
func (r *Repository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.BookingRecord, error) {
	return r.getOne(ctx, "GetByTransactionID", squirrel.Eq{"payment_transaction_id": transactionID})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.BookingRecord, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	record, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return record, nil
}

// GetWithFilter получает бронирования за период
// По умолчанию возвращает только бронирования, занимающие бригаду
//
// Внутри транзакции для одной даты строки блокируются (FOR UPDATE):
// так создание бронирования видит согласованную загрузку бригад
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingRecord, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings")

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	if !filter.IncludeInactive {
		active := make([]string, len(domain.ActiveStatuses))
		for i, s := range domain.ActiveStatuses {
			active[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": active})
	}

	singleDay := filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate)
	if singleDay {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, start_time DESC")
	}

	if txmanager.IsInTransaction(ctx) && singleDay {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]*domain.BookingRecord, 0)
	for rows.Next() {
		record, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetWithFilter - scan row: %v", ErrScanRow, err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - rows error: %v", ErrScanRow, err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.BookingRecord, error) {
	var record domain.BookingRecord
	var createdAt, updatedAt sql.NullTime
	var notes sql.NullString

	err := row.Scan(
		&record.ID,
		&record.ServiceID,
		&record.ServiceTitle,
		&record.ServiceCategory,
		&record.HourlyRate,
		&record.Hours,
		&record.BookingDate,
		&record.StartTime,
		&record.EndTime,
		&record.DurationMinutes,
		&record.Client.FirstName,
		&record.Client.LastName,
		&record.Client.Email,
		&record.Client.Phone,
		&record.Client.CountryCode,
		&record.Client.Address,
		&notes,
		&record.Subtotal,
		&record.Tax,
		&record.Total,
		&record.Deposit,
		&record.Remaining,
		&record.PaymentTransactionID,
		&record.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Client.Notes = notes.String
	record.CreatedAt = createdAt.Time
	record.UpdatedAt = updatedAt.Time

	return &record, nil
}
