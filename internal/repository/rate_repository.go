package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/snowpro-school/schedule-service/internal/model"
	"github.com/snowpro-school/schedule-service/internal/repository/base"
)

type RateRepository struct {
	db base.Querier
}

func NewRateRepository(db base.Querier) *RateRepository {
	return &RateRepository{db: db}
}

func (r *RateRepository) WithTx(tx pgx.Tx) *RateRepository {
	return &RateRepository{db: tx}
}

// GetPrice подбирает цену по тарифной таблице.
// nil означает что тарифа нет — вызывающая сторона решает, что с этим делать
// (материализатор подставляет 0 и пишет предупреждение в лог).
func (r *RateRepository) GetPrice(ctx context.Context, isGroup, withTrainer bool, participants, durationMinutes int) (*float64, error) {
	query := `
		SELECT price
		FROM training_rates
		WHERE is_group = $1 AND with_trainer = $2 AND participants = $3 AND duration_minutes = $4
		LIMIT 1
	`

	var price float64
	err := r.db.QueryRow(ctx, query, isGroup, withTrainer, participants, durationMinutes).Scan(&price)

	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get training rate: %w", err)
	}

	return &price, nil
}

// GetAll возвращает тарифную таблицу целиком
func (r *RateRepository) GetAll(ctx context.Context) ([]*model.TrainingRate, error) {
	query := `
		SELECT id, is_group, with_trainer, participants, duration_minutes, price
		FROM training_rates
		ORDER BY is_group, with_trainer, participants, duration_minutes
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get training rates: %w", err)
	}
	defer rows.Close()

	var rates []*model.TrainingRate
	for rows.Next() {
		rate := &model.TrainingRate{}
		if err := rows.Scan(&rate.ID, &rate.IsGroup, &rate.WithTrainer, &rate.Participants, &rate.DurationMinutes, &rate.Price); err != nil {
			return nil, fmt.Errorf("scan training rate: %w", err)
		}
		rates = append(rates, rate)
	}

	return rates, rows.Err()
}
