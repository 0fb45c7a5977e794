package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/snowpro-school/schedule-service/internal/model"
	"github.com/snowpro-school/schedule-service/internal/repository/base"
)

type ClientRepository struct {
	db base.Querier
}

func NewClientRepository(db base.Querier) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) WithTx(tx pgx.Tx) *ClientRepository {
	return &ClientRepository{db: tx}
}

// GetByID получает клиента по ID
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	query := `
		SELECT id, name, phone, telegram_chat_id, created_at
		FROM clients
		WHERE id = $1
	`

	c := &model.Client{}
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Phone, &c.TelegramChatID, &c.CreatedAt)

	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client by id: %w", err)
	}

	return c, nil
}

// GetNotifiable получает клиентов с привязанным каналом уведомлений
func (r *ClientRepository) GetNotifiable(ctx context.Context) ([]*model.Client, error) {
	query := `
		SELECT id, name, phone, telegram_chat_id, created_at
		FROM clients
		WHERE telegram_chat_id IS NOT NULL
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get notifiable clients: %w", err)
	}
	defer rows.Close()

	var clients []*model.Client
	for rows.Next() {
		c := &model.Client{}
		err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.TelegramChatID, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}

	return clients, nil
}
