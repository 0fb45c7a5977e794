package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/snowpro-school/schedule-service/internal/model"
	"github.com/snowpro-school/schedule-service/internal/repository/base"
)

type SlotRepository struct {
	db base.Querier
}

func NewSlotRepository(db base.Querier) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) WithTx(tx pgx.Tx) *SlotRepository {
	return &SlotRepository{db: tx}
}

// BulkGenerate создаёт 30-минутные слоты тренажёра на диапазон дат.
// Повторный запуск для уже заполненного диапазона ничего не дублирует:
// вставка идёт через ON CONFLICT DO NOTHING по (resource_id, date, start_time).
func (r *SlotRepository) BulkGenerate(ctx context.Context, resourceID int64, from, to time.Time, workStart, workEnd string, stepMinutes int) (int64, error) {
	query := `
		INSERT INTO schedule (resource_id, date, start_time, end_time, is_booked, is_blocked, is_holiday)
		VALUES ($1, $2, $3, $4, false, false, false)
		ON CONFLICT (resource_id, date, start_time) DO NOTHING
	`

	var created int64
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		for start := workStart; start < workEnd; start = model.AddMinutes(start, stepMinutes) {
			end := model.AddMinutes(start, stepMinutes)
			tag, err := r.db.Exec(ctx, query, resourceID, date, start, end)
			if err != nil {
				return created, fmt.Errorf("generate slot %s %s: %w", date.Format("2006-01-02"), start, err)
			}
			created += tag.RowsAffected()
		}
	}

	return created, nil
}

// GetByDate получает слоты на дату, опционально по одному тренажёру
func (r *SlotRepository) GetByDate(ctx context.Context, date time.Time, resourceID *int64) ([]*model.CalendarSlot, error) {
	query := `
		SELECT id, resource_id, date, start_time, end_time, is_booked, is_blocked, is_holiday
		FROM schedule
		WHERE date = $1 AND ($2::bigint IS NULL OR resource_id = $2)
		ORDER BY resource_id, start_time
	`

	rows, err := r.db.Query(ctx, query, date, resourceID)
	if err != nil {
		return nil, fmt.Errorf("get slots by date: %w", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// GetByDateRange получает слоты за диапазон дат включительно
func (r *SlotRepository) GetByDateRange(ctx context.Context, from, to time.Time, resourceID *int64) ([]*model.CalendarSlot, error) {
	query := `
		SELECT id, resource_id, date, start_time, end_time, is_booked, is_blocked, is_holiday
		FROM schedule
		WHERE date >= $1 AND date <= $2 AND ($3::bigint IS NULL OR resource_id = $3)
		ORDER BY date, resource_id, start_time
	`

	rows, err := r.db.Query(ctx, query, from, to, resourceID)
	if err != nil {
		return nil, fmt.Errorf("get slots by date range: %w", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// LockRange блокирует строки слотов диапазона [start, end) на время транзакции.
// Закрывает гонку "проверили пересечение — вставили" между конкурентными бронированиями.
func (r *SlotRepository) LockRange(ctx context.Context, resourceID int64, date time.Time, start, end string) error {
	query := `
		SELECT id FROM schedule
		WHERE resource_id = $1 AND date = $2 AND start_time >= $3 AND start_time < $4
		FOR UPDATE
	`

	rows, err := r.db.Query(ctx, query, resourceID, date, start, end)
	if err != nil {
		return fmt.Errorf("lock slot range: %w", err)
	}
	rows.Close()

	return rows.Err()
}

// SlotExists проверяет что 30-минутный слот существует в расписании
func (r *SlotRepository) SlotExists(ctx context.Context, resourceID int64, date time.Time, start string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM schedule
			WHERE resource_id = $1 AND date = $2 AND start_time = $3
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, resourceID, date, start).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slot exists: %w", err)
	}

	return exists, nil
}

// MarkRange выставляет is_booked для всех слотов, чьё start_time попадает в [start, end)
func (r *SlotRepository) MarkRange(ctx context.Context, resourceID int64, date time.Time, start, end string, booked bool) (int64, error) {
	query := `
		UPDATE schedule
		SET is_booked = $5
		WHERE resource_id = $1 AND date = $2 AND start_time >= $3 AND start_time < $4
	`

	tag, err := r.db.Exec(ctx, query, resourceID, date, start, end, booked)
	if err != nil {
		return 0, fmt.Errorf("mark slot range: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ExistsForRange проверяет есть ли хоть один слот в диапазоне дат
func (r *SlotRepository) ExistsForRange(ctx context.Context, from, to time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM schedule WHERE date >= $1 AND date <= $2
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, from, to).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slots for range: %w", err)
	}

	return exists, nil
}

// HorizonMaxDate возвращает последнюю дату, на которую сгенерированы слоты
func (r *SlotRepository) HorizonMaxDate(ctx context.Context) (*time.Time, error) {
	query := `SELECT MAX(date) FROM schedule`

	var max *time.Time
	err := r.db.QueryRow(ctx, query).Scan(&max)
	if err != nil {
		return nil, fmt.Errorf("get schedule horizon: %w", err)
	}

	return max, nil
}

func scanSlots(rows pgx.Rows) ([]*model.CalendarSlot, error) {
	var slots []*model.CalendarSlot
	for rows.Next() {
		slot := &model.CalendarSlot{}
		err := rows.Scan(
			&slot.ID,
			&slot.ResourceID,
			&slot.Date,
			&slot.StartTime,
			&slot.EndTime,
			&slot.IsBooked,
			&slot.IsBlocked,
			&slot.IsHoliday,
		)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, nil
}
