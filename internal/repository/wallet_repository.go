package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/snowpro-school/schedule-service/internal/model"
	"github.com/snowpro-school/schedule-service/internal/repository/base"
)

type WalletRepository struct {
	db base.Querier
}

func NewWalletRepository(db base.Querier) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) WithTx(tx pgx.Tx) *WalletRepository {
	return &WalletRepository{db: tx}
}

// GetByClientID получает кошелёк клиента
func (r *WalletRepository) GetByClientID(ctx context.Context, clientID int64) (*model.Wallet, error) {
	query := `
		SELECT id, client_id, balance, created_at
		FROM wallets
		WHERE client_id = $1
	`

	w := &model.Wallet{}
	err := r.db.QueryRow(ctx, query, clientID).Scan(&w.ID, &w.ClientID, &w.Balance, &w.CreatedAt)

	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get wallet by client: %w", err)
	}

	return w, nil
}

// InsertRefund записывает транзакцию возврата за тренировку.
// Частичный уникальный индекс по (wallet_id, refund_of_session_id) вместе с
// ON CONFLICT DO NOTHING даёт гарантию "не больше одного возврата на тренировку":
// повторная попытка возвращает inserted=false, и баланс трогать нельзя.
func (r *WalletRepository) InsertRefund(ctx context.Context, walletID int64, amount float64, description string, sessionID int64) (bool, error) {
	query := `
		INSERT INTO transactions (wallet_id, amount, type, description, refund_of_session_id)
		VALUES ($1, $2, 'amount', $3, $4)
		ON CONFLICT (wallet_id, refund_of_session_id) WHERE refund_of_session_id IS NOT NULL DO NOTHING
	`

	tag, err := r.db.Exec(ctx, query, walletID, amount, description, sessionID)
	if err != nil {
		return false, fmt.Errorf("insert refund transaction: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Credit увеличивает баланс кошелька. Одиночный UPDATE balance = balance + $2
// безопасен под конкуренцией за счёт строчной блокировки БД — приложение
// никогда не читает баланс, чтобы потом записать вычисленное значение.
func (r *WalletRepository) Credit(ctx context.Context, walletID int64, amount float64) error {
	query := `UPDATE wallets SET balance = balance + $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, walletID, amount)
	if err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// GetTransactions получает журнал кошелька, свежие записи первыми
func (r *WalletRepository) GetTransactions(ctx context.Context, walletID int64) ([]*model.Transaction, error) {
	query := `
		SELECT id, wallet_id, amount, type, description, refund_of_session_id, created_at
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("get wallet transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		t := &model.Transaction{}
		err := rows.Scan(&t.ID, &t.WalletID, &t.Amount, &t.Type, &t.Description, &t.RefundOfSessionID, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	return transactions, nil
}
