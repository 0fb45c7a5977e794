package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/snowpro-school/schedule-service/internal/model"
	"github.com/snowpro-school/schedule-service/internal/repository/base"
)

type ParticipantRepository struct {
	db base.Querier
}

func NewParticipantRepository(db base.Querier) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) WithTx(tx pgx.Tx) *ParticipantRepository {
	return &ParticipantRepository{db: tx}
}

// Create записывает участника на тренировку
func (r *ParticipantRepository) Create(ctx context.Context, p *model.Participant) error {
	query := `
		INSERT INTO training_participants (session_id, client_id, child_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, p.SessionID, p.ClientID, p.ChildID, p.Status).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create participant: %w", err)
	}

	return nil
}

// CountConfirmed возвращает число подтверждённых участников тренировки
func (r *ParticipantRepository) CountConfirmed(ctx context.Context, sessionID int64) (int, error) {
	query := `SELECT COUNT(*) FROM training_participants WHERE session_id = $1 AND status = 'confirmed'`

	var count int
	err := r.db.QueryRow(ctx, query, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count confirmed participants: %w", err)
	}

	return count, nil
}

// GetConfirmedWithWallets получает подтверждённых участников тренировки вместе
// с кошельком и каналом уведомлений клиента — всё, что нужно процедуре возврата
func (r *ParticipantRepository) GetConfirmedWithWallets(ctx context.Context, sessionID int64) ([]*model.SessionParticipant, error) {
	query := `
		SELECT p.id, p.session_id, p.client_id, c.name, c.telegram_chat_id, w.id
		FROM training_participants p
		JOIN clients c ON c.id = p.client_id
		JOIN wallets w ON w.client_id = p.client_id
		WHERE p.session_id = $1 AND p.status = 'confirmed'
		ORDER BY p.id
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get confirmed participants: %w", err)
	}
	defer rows.Close()

	var participants []*model.SessionParticipant
	for rows.Next() {
		p := &model.SessionParticipant{}
		err := rows.Scan(
			&p.ParticipantID,
			&p.SessionID,
			&p.ClientID,
			&p.ClientName,
			&p.TelegramChatID,
			&p.WalletID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}

	return participants, nil
}

// CancelBySession помечает всех участников тренировки отменёнными
func (r *ParticipantRepository) CancelBySession(ctx context.Context, sessionID int64) error {
	query := `UPDATE training_participants SET status = 'cancelled' WHERE session_id = $1`

	_, err := r.db.Exec(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("cancel participants by session: %w", err)
	}

	return nil
}
