package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/snowpro-school/schedule-service/internal/model"
	"github.com/snowpro-school/schedule-service/internal/repository/base"
)

type SessionRepository struct {
	db base.Querier
}

func NewSessionRepository(db base.Querier) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) WithTx(tx pgx.Tx) *SessionRepository {
	return &SessionRepository{db: tx}
}

const sessionColumns = `id, resource_id, trainer_id, group_id, template_id, session_date,
		start_time, end_time, duration_minutes, is_group, max_participants, skill_level,
		price, status, created_at, updated_at`

// Create создаёт тренировку
func (r *SessionRepository) Create(ctx context.Context, s *model.Session) error {
	query := `
		INSERT INTO training_sessions
			(resource_id, trainer_id, group_id, template_id, session_date, start_time, end_time,
			 duration_minutes, is_group, max_participants, skill_level, price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.ResourceID, s.TrainerID, s.GroupID, s.TemplateID, s.SessionDate, s.StartTime, s.EndTime,
		s.DurationMinutes, s.IsGroup, s.MaxParticipants, s.SkillLevel, s.Price, s.Status,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// GetByID получает тренировку по ID
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM training_sessions WHERE id = $1`

	s := &model.Session{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.ResourceID, &s.TrainerID, &s.GroupID, &s.TemplateID, &s.SessionDate,
		&s.StartTime, &s.EndTime, &s.DurationMinutes, &s.IsGroup, &s.MaxParticipants,
		&s.SkillLevel, &s.Price, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)

	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return s, nil
}

// FindOverlapping ищет неотменённые тренировки тренажёра на дату,
// пересекающиеся с интервалом [start, end). excludeID исключает саму
// тренировку при обновлении (0 — ничего не исключать).
func (r *SessionRepository) FindOverlapping(ctx context.Context, resourceID int64, date time.Time, start, end string, excludeID int64) ([]*model.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM training_sessions
		WHERE resource_id = $1 AND session_date = $2
		  AND status <> 'cancelled'
		  AND start_time < $4 AND end_time > $3
		  AND id <> $5
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, resourceID, date, start, end, excludeID)
	if err != nil {
		return nil, fmt.Errorf("find overlapping sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// GetByDate получает тренировки на дату
func (r *SessionRepository) GetByDate(ctx context.Context, date time.Time, resourceID *int64) ([]*model.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM training_sessions
		WHERE session_date = $1 AND ($2::bigint IS NULL OR resource_id = $2)
		ORDER BY resource_id, start_time
	`

	rows, err := r.db.Query(ctx, query, date, resourceID)
	if err != nil {
		return nil, fmt.Errorf("get sessions by date: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// GetByDateRange получает неотменённые тренировки за диапазон дат включительно
func (r *SessionRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]*model.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM training_sessions
		WHERE session_date >= $1 AND session_date <= $2 AND status <> 'cancelled'
		ORDER BY session_date, resource_id, start_time
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get sessions by date range: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// GetFutureScheduledByTemplate получает будущие запланированные тренировки шаблона
func (r *SessionRepository) GetFutureScheduledByTemplate(ctx context.Context, templateID int64, from time.Time) ([]*model.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM training_sessions
		WHERE template_id = $1 AND session_date >= $2 AND status = 'scheduled'
		ORDER BY session_date, start_time
	`

	rows, err := r.db.Query(ctx, query, templateID, from)
	if err != nil {
		return nil, fmt.Errorf("get future sessions by template: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// Update обновляет время/тренажёр/параметры тренировки
func (r *SessionRepository) Update(ctx context.Context, s *model.Session) error {
	query := `
		UPDATE training_sessions
		SET resource_id = $2, trainer_id = $3, group_id = $4, session_date = $5,
			start_time = $6, end_time = $7, duration_minutes = $8, is_group = $9,
			max_participants = $10, skill_level = $11, price = $12, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.ID, s.ResourceID, s.TrainerID, s.GroupID, s.SessionDate,
		s.StartTime, s.EndTime, s.DurationMinutes, s.IsGroup,
		s.MaxParticipants, s.SkillLevel, s.Price,
	).Scan(&s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	return nil
}

// DetachTemplate отвязывает все тренировки шаблона от него.
// Отменённые и прошедшие тренировки остаются в истории без ссылки на шаблон,
// поэтому сам шаблон после этого можно удалить.
func (r *SessionRepository) DetachTemplate(ctx context.Context, templateID int64) error {
	query := `UPDATE training_sessions SET template_id = NULL, updated_at = now() WHERE template_id = $1`

	_, err := r.db.Exec(ctx, query, templateID)
	if err != nil {
		return fmt.Errorf("detach sessions from template: %w", err)
	}

	return nil
}

// SetStatus переводит тренировку в новый статус
func (r *SessionRepository) SetStatus(ctx context.Context, id int64, status model.SessionStatus) error {
	query := `UPDATE training_sessions SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("set session status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func scanSessions(rows pgx.Rows) ([]*model.Session, error) {
	var sessions []*model.Session
	for rows.Next() {
		s := &model.Session{}
		err := rows.Scan(
			&s.ID, &s.ResourceID, &s.TrainerID, &s.GroupID, &s.TemplateID, &s.SessionDate,
			&s.StartTime, &s.EndTime, &s.DurationMinutes, &s.IsGroup, &s.MaxParticipants,
			&s.SkillLevel, &s.Price, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}
