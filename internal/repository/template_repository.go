package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/snowpro-school/schedule-service/internal/model"
	"github.com/snowpro-school/schedule-service/internal/repository/base"
)

type TemplateRepository struct {
	db base.Querier
}

func NewTemplateRepository(db base.Querier) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) WithTx(tx pgx.Tx) *TemplateRepository {
	return &TemplateRepository{db: tx}
}

const templateColumns = `id, name, day_of_week, start_time, resource_id, trainer_id, group_id,
		skill_level, max_participants, equipment_type, is_active, created_at, updated_at`

// Create создаёт новый шаблон
func (r *TemplateRepository) Create(ctx context.Context, t *model.RecurringTemplate) error {
	query := `
		INSERT INTO recurring_training_templates
			(name, day_of_week, start_time, resource_id, trainer_id, group_id, skill_level, max_participants, equipment_type, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		t.Name,
		t.DayOfWeek,
		t.StartTime,
		t.ResourceID,
		t.TrainerID,
		t.GroupID,
		t.SkillLevel,
		t.MaxParticipants,
		t.EquipmentType,
		t.IsActive,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}

	return nil
}

// GetByID получает шаблон по ID
func (r *TemplateRepository) GetByID(ctx context.Context, id int64) (*model.RecurringTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM recurring_training_templates WHERE id = $1`

	t := &model.RecurringTemplate{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.DayOfWeek, &t.StartTime, &t.ResourceID, &t.TrainerID, &t.GroupID,
		&t.SkillLevel, &t.MaxParticipants, &t.EquipmentType, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)

	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template by id: %w", err)
	}

	return t, nil
}

// GetAll получает все шаблоны
func (r *TemplateRepository) GetAll(ctx context.Context) ([]*model.RecurringTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM recurring_training_templates ORDER BY day_of_week, start_time, resource_id`
	return r.list(ctx, query)
}

// GetAllActive получает активные шаблоны
func (r *TemplateRepository) GetAllActive(ctx context.Context) ([]*model.RecurringTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM recurring_training_templates WHERE is_active = true ORDER BY day_of_week, start_time, resource_id`
	return r.list(ctx, query)
}

// FindActiveConflict ищет другой активный шаблон на ту же тройку
// (день недели, время, тренажёр). excludeID исключает сам шаблон при обновлении.
func (r *TemplateRepository) FindActiveConflict(ctx context.Context, dayOfWeek int, startTime string, resourceID int64, excludeID int64) (*model.RecurringTemplate, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM recurring_training_templates
		WHERE is_active = true AND day_of_week = $1 AND start_time = $2 AND resource_id = $3 AND id <> $4
		LIMIT 1
	`

	t := &model.RecurringTemplate{}
	err := r.db.QueryRow(ctx, query, dayOfWeek, startTime, resourceID, excludeID).Scan(
		&t.ID, &t.Name, &t.DayOfWeek, &t.StartTime, &t.ResourceID, &t.TrainerID, &t.GroupID,
		&t.SkillLevel, &t.MaxParticipants, &t.EquipmentType, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)

	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active template conflict: %w", err)
	}

	return t, nil
}

// Update обновляет шаблон
func (r *TemplateRepository) Update(ctx context.Context, t *model.RecurringTemplate) error {
	query := `
		UPDATE recurring_training_templates
		SET name = $2, day_of_week = $3, start_time = $4, resource_id = $5, trainer_id = $6,
			group_id = $7, skill_level = $8, max_participants = $9, equipment_type = $10,
			is_active = $11, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		t.ID, t.Name, t.DayOfWeek, t.StartTime, t.ResourceID, t.TrainerID,
		t.GroupID, t.SkillLevel, t.MaxParticipants, t.EquipmentType, t.IsActive,
	).Scan(&t.UpdatedAt)

	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}

	return nil
}

// SetActive включает/выключает шаблон. Влияет только на будущую материализацию.
func (r *TemplateRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE recurring_training_templates SET is_active = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("set template active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// Delete удаляет шаблон
func (r *TemplateRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM recurring_training_templates WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}

	return nil
}

func (r *TemplateRepository) list(ctx context.Context, query string) ([]*model.RecurringTemplate, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []*model.RecurringTemplate
	for rows.Next() {
		t := &model.RecurringTemplate{}
		err := rows.Scan(
			&t.ID, &t.Name, &t.DayOfWeek, &t.StartTime, &t.ResourceID, &t.TrainerID, &t.GroupID,
			&t.SkillLevel, &t.MaxParticipants, &t.EquipmentType, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}

	return templates, nil
}
