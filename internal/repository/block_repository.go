package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/snowpro-school/schedule-service/internal/model"
	"github.com/snowpro-school/schedule-service/internal/repository/base"
)

type BlockRepository struct {
	db base.Querier
}

func NewBlockRepository(db base.Querier) *BlockRepository {
	return &BlockRepository{db: db}
}

func (r *BlockRepository) WithTx(tx pgx.Tx) *BlockRepository {
	return &BlockRepository{db: tx}
}

const blockColumns = `id, name, block_type, start_date, end_date, day_of_week,
		start_time, end_time, resource_id, reason, is_active, created_at`

// Create создаёт блокировку
func (r *BlockRepository) Create(ctx context.Context, b *model.ScheduleBlock) error {
	query := `
		INSERT INTO schedule_blocks
			(name, block_type, start_date, end_date, day_of_week, start_time, end_time, resource_id, reason, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		b.Name, b.BlockType, b.StartDate, b.EndDate, b.DayOfWeek,
		b.StartTime, b.EndTime, b.ResourceID, b.Reason, b.IsActive,
	).Scan(&b.ID, &b.CreatedAt)

	if err != nil {
		return fmt.Errorf("create schedule block: %w", err)
	}

	return nil
}

// GetByID получает блокировку по ID
func (r *BlockRepository) GetByID(ctx context.Context, id int64) (*model.ScheduleBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM schedule_blocks WHERE id = $1`

	b := &model.ScheduleBlock{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Name, &b.BlockType, &b.StartDate, &b.EndDate, &b.DayOfWeek,
		&b.StartTime, &b.EndTime, &b.ResourceID, &b.Reason, &b.IsActive, &b.CreatedAt,
	)

	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule block by id: %w", err)
	}

	return b, nil
}

// GetAll получает все блокировки
func (r *BlockRepository) GetAll(ctx context.Context) ([]*model.ScheduleBlock, error) {
	return r.list(ctx, `SELECT `+blockColumns+` FROM schedule_blocks ORDER BY id`)
}

// GetActive получает активные блокировки
func (r *BlockRepository) GetActive(ctx context.Context) ([]*model.ScheduleBlock, error) {
	return r.list(ctx, `SELECT `+blockColumns+` FROM schedule_blocks WHERE is_active = true ORDER BY id`)
}

// Update обновляет блокировку
func (r *BlockRepository) Update(ctx context.Context, b *model.ScheduleBlock) error {
	query := `
		UPDATE schedule_blocks
		SET name = $2, block_type = $3, start_date = $4, end_date = $5, day_of_week = $6,
			start_time = $7, end_time = $8, resource_id = $9, reason = $10, is_active = $11
		WHERE id = $1
	`

	tag, err := r.db.Exec(
		ctx, query,
		b.ID, b.Name, b.BlockType, b.StartDate, b.EndDate, b.DayOfWeek,
		b.StartTime, b.EndTime, b.ResourceID, b.Reason, b.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update schedule block: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// SetActive включает/выключает блокировку
func (r *BlockRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE schedule_blocks SET is_active = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("set schedule block active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// Delete удаляет блокировку вместе с её исключениями (FK каскад)
func (r *BlockRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM schedule_blocks WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete schedule block: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// CreateException добавляет исключение, локально отменяющее блокировку для одного слота
func (r *BlockRepository) CreateException(ctx context.Context, e *model.ScheduleBlockException) error {
	query := `
		INSERT INTO schedule_block_exceptions (block_id, date, start_time, resource_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (block_id, date, start_time, resource_id) DO NOTHING
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, e.BlockID, e.Date, e.StartTime, e.ResourceID).
		Scan(&e.ID, &e.CreatedAt)

	if base.IsNotFound(err) {
		// исключение уже существует, это не ошибка
		return nil
	}
	if err != nil {
		return fmt.Errorf("create block exception: %w", err)
	}

	return nil
}

// DeleteException удаляет исключение, возвращая слоту действие блокировки
func (r *BlockRepository) DeleteException(ctx context.Context, blockID int64, date time.Time, startTime string, resourceID int64) (bool, error) {
	query := `
		DELETE FROM schedule_block_exceptions
		WHERE block_id = $1 AND date = $2 AND start_time = $3 AND resource_id = $4
	`

	tag, err := r.db.Exec(ctx, query, blockID, date, startTime, resourceID)
	if err != nil {
		return false, fmt.Errorf("delete block exception: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetExceptionsByDateRange получает исключения за диапазон дат
func (r *BlockRepository) GetExceptionsByDateRange(ctx context.Context, from, to time.Time) ([]*model.ScheduleBlockException, error) {
	query := `
		SELECT id, block_id, date, start_time, resource_id, created_at
		FROM schedule_block_exceptions
		WHERE date >= $1 AND date <= $2
		ORDER BY date, start_time
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get block exceptions: %w", err)
	}
	defer rows.Close()

	var exceptions []*model.ScheduleBlockException
	for rows.Next() {
		e := &model.ScheduleBlockException{}
		err := rows.Scan(&e.ID, &e.BlockID, &e.Date, &e.StartTime, &e.ResourceID, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan block exception: %w", err)
		}
		exceptions = append(exceptions, e)
	}

	return exceptions, nil
}

// ApplyToSchedule проставляет is_blocked всем слотам, попадающим под блокировку
// и не накрытым исключением. Возвращает число затронутых слотов.
// Один set-based UPDATE на блокировку: условия по датам зависят от типа.
func (r *BlockRepository) ApplyToSchedule(ctx context.Context, b *model.ScheduleBlock) (int64, error) {
	var query string
	var args []any

	exceptionFilter := `
		AND NOT EXISTS (
			SELECT 1 FROM schedule_block_exceptions e
			WHERE e.block_id = $1
			  AND e.date = schedule.date
			  AND e.start_time = schedule.start_time
			  AND e.resource_id = schedule.resource_id
		)
	`

	switch b.BlockType {
	case model.BlockTypeSpecific:
		query = `
			UPDATE schedule
			SET is_blocked = true
			WHERE date >= $2 AND date <= $3
			  AND start_time >= $4 AND start_time < $5
			  AND ($6::bigint IS NULL OR resource_id = $6)
		` + exceptionFilter
		args = []any{b.ID, b.StartDate, b.EndDate, b.StartTime, b.EndTime, b.ResourceID}
	case model.BlockTypeRecurring:
		query = `
			UPDATE schedule
			SET is_blocked = true
			WHERE EXTRACT(DOW FROM date) = $2
			  AND start_time >= $3 AND start_time < $4
			  AND ($5::bigint IS NULL OR resource_id = $5)
		` + exceptionFilter
		args = []any{b.ID, b.DayOfWeek, b.StartTime, b.EndTime, b.ResourceID}
	default:
		return 0, fmt.Errorf("unknown block type %q", b.BlockType)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("apply block %d to schedule: %w", b.ID, err)
	}

	return tag.RowsAffected(), nil
}

func (r *BlockRepository) list(ctx context.Context, query string) ([]*model.ScheduleBlock, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list schedule blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*model.ScheduleBlock
	for rows.Next() {
		b := &model.ScheduleBlock{}
		err := rows.Scan(
			&b.ID, &b.Name, &b.BlockType, &b.StartDate, &b.EndDate, &b.DayOfWeek,
			&b.StartTime, &b.EndTime, &b.ResourceID, &b.Reason, &b.IsActive, &b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan schedule block: %w", err)
		}
		blocks = append(blocks, b)
	}

	return blocks, nil
}
