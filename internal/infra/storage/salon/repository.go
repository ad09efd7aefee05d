package salon

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/internal/domain"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/dbmetrics"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/psqlbuilder"
	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/types"
)

// Repository репозиторий для работы с салонами и справочником тарифов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория салонов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает салон вместе с расписанием и особыми датами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Salon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"plan",
		"is_open",
		"max_attendants",
		"version",
		"created_at",
		"updated_at",
	).
		From("salons").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var salon domain.Salon
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&salon.ID,
		&salon.Name,
		&salon.Plan,
		&salon.IsOpen,
		&salon.MaxAttendants,
		&salon.Version,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSalonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan salon: %v", ErrScanRow, err)
	}

	salon.CreatedAt = createdAt.Time
	salon.UpdatedAt = updatedAt.Time

	if salon.Hours, err = r.loadHours(ctx, executor, id); err != nil {
		return nil, err
	}
	if salon.SpecialDates, err = r.loadSpecialDates(ctx, executor, id); err != nil {
		return nil, err
	}

	return &salon, nil
}

// SetOpen обновляет флаг is_open с оптимистичной проверкой версии
// is_open пишут конкурентно Quota Enforcer и экран настроек персонала,
// проверка версии защищает от потерянных обновлений
func (r *Repository) SetOpen(ctx context.Context, id int64, open bool, version int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("salons").
		Set("is_open", open).
		Set("version", version+1).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "version": version}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetOpen - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetOpen - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetOpen - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Либо салона нет, либо версия устарела
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrVersionConflict
	}

	return nil
}

// GetPlanLimits получает лимиты тарифного плана из справочника
func (r *Repository) GetPlanLimits(ctx context.Context, plan domain.PlanTier) (*domain.PlanLimits, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"plan",
		"max_monthly_appointments",
		"max_users",
		"max_attendants",
	).
		From("plan_limits").
		Where(squirrel.Eq{"plan": plan}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPlanLimits - build select query: %v", ErrBuildQuery, err)
	}

	var limits domain.PlanLimits
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&limits.Plan,
		&limits.MaxMonthlyAppointments,
		&limits.MaxUsers,
		&limits.MaxAttendants,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPlanLimits - scan plan limits: %v", ErrScanRow, err)
	}

	return &limits, nil
}

// loadHours загружает недельное расписание салона
func (r *Repository) loadHours(ctx context.Context, executor dbmetrics.DBExecutor, salonID int64) (domain.OpeningHours, error) {
	var hours domain.OpeningHours

	query, args, err := psqlbuilder.Select(
		"weekday",
		"is_open",
		"open_time",
		"close_time",
		"has_lunch_break",
		"lunch_start",
		"lunch_end",
	).
		From("salon_hours").
		Where(squirrel.Eq{"salon_id": salonID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return hours, fmt.Errorf("%w: loadHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return hours, fmt.Errorf("%w: loadHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var weekday int
		var day domain.DaySchedule
		var openTime, closeTime, lunchStart, lunchEnd sql.NullString

		err := rows.Scan(
			&weekday,
			&day.IsOpen,
			&openTime,
			&closeTime,
			&day.HasLunchBreak,
			&lunchStart,
			&lunchEnd,
		)
		if err != nil {
			return hours, fmt.Errorf("%w: loadHours - scan row: %v", ErrScanRow, err)
		}

		day.OpenTime = nullTimeString(openTime)
		day.CloseTime = nullTimeString(closeTime)
		day.LunchStart = nullTimeString(lunchStart)
		day.LunchEnd = nullTimeString(lunchEnd)

		setWeekday(&hours, time.Weekday(weekday), day)
	}

	if err := rows.Err(); err != nil {
		return hours, fmt.Errorf("%w: loadHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// loadSpecialDates загружает особые даты салона
func (r *Repository) loadSpecialDates(ctx context.Context, executor dbmetrics.DBExecutor, salonID int64) ([]domain.SpecialDate, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"salon_id",
		"date",
		"closed",
		"open_time",
		"close_time",
	).
		From("salon_special_dates").
		Where(squirrel.Eq{"salon_id": salonID}).
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: loadSpecialDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadSpecialDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	specialDates := make([]domain.SpecialDate, 0)
	for rows.Next() {
		var sd domain.SpecialDate
		var openTime, closeTime sql.NullString

		err := rows.Scan(
			&sd.ID,
			&sd.SalonID,
			&sd.Date,
			&sd.Closed,
			&openTime,
			&closeTime,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: loadSpecialDates - scan row: %v", ErrScanRow, err)
		}

		sd.OpenTime = nullTimeString(openTime)
		sd.CloseTime = nullTimeString(closeTime)

		specialDates = append(specialDates, sd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadSpecialDates - rows error: %v", ErrScanRow, err)
	}

	return specialDates, nil
}

// nullTimeString конвертирует NullString из колонки TIME в *TimeString
func nullTimeString(ns sql.NullString) *types.TimeString {
	if !ns.Valid {
		return nil
	}
	ts := types.TimeString(ns.String)
	if len(ns.String) > 5 {
		// Обрезаем секунды из формата HH:MM:SS
		ts = types.TimeString(ns.String[:5])
	}
	return &ts
}

func setWeekday(hours *domain.OpeningHours, weekday time.Weekday, day domain.DaySchedule) {
	switch weekday {
	case time.Monday:
		hours.Monday = day
	case time.Tuesday:
		hours.Tuesday = day
	case time.Wednesday:
		hours.Wednesday = day
	case time.Thursday:
		hours.Thursday = day
	case time.Friday:
		hours.Friday = day
	case time.Saturday:
		hours.Saturday = day
	case time.Sunday:
		hours.Sunday = day
	}
}
