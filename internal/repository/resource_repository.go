package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/snowpro-school/schedule-service/internal/model"
	"github.com/snowpro-school/schedule-service/internal/repository/base"
)

type ResourceRepository struct {
	db base.Querier
}

func NewResourceRepository(db base.Querier) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// WithTx возвращает копию репозитория, работающую внутри транзакции
func (r *ResourceRepository) WithTx(tx pgx.Tx) *ResourceRepository {
	return &ResourceRepository{db: tx}
}

// GetByID получает тренажёр по ID
func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*model.Resource, error) {
	query := `
		SELECT id, name, is_active, work_start, work_end, created_at
		FROM resources
		WHERE id = $1
	`

	res := &model.Resource{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&res.ID,
		&res.Name,
		&res.IsActive,
		&res.WorkStart,
		&res.WorkEnd,
		&res.CreatedAt,
	)

	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get resource by id: %w", err)
	}

	return res, nil
}

// GetAll получает все тренажёры
func (r *ResourceRepository) GetAll(ctx context.Context) ([]*model.Resource, error) {
	return r.list(ctx, `
		SELECT id, name, is_active, work_start, work_end, created_at
		FROM resources
		ORDER BY id
	`)
}

// GetActive получает активные тренажёры
func (r *ResourceRepository) GetActive(ctx context.Context) ([]*model.Resource, error) {
	return r.list(ctx, `
		SELECT id, name, is_active, work_start, work_end, created_at
		FROM resources
		WHERE is_active = true
		ORDER BY id
	`)
}

func (r *ResourceRepository) list(ctx context.Context, query string) ([]*model.Resource, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var resources []*model.Resource
	for rows.Next() {
		res := &model.Resource{}
		err := rows.Scan(
			&res.ID,
			&res.Name,
			&res.IsActive,
			&res.WorkStart,
			&res.WorkEnd,
			&res.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resources = append(resources, res)
	}

	return resources, nil
}
