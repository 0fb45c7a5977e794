package model

import "time"

// Wallet — кошелёк клиента, ровно один на клиента
type Wallet struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"client_id"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

type TransactionType string

const (
	TransactionTypeRefill  TransactionType = "refill"
	TransactionTypePayment TransactionType = "payment"
	// возвраты исторически кодируются в журнале типом "amount"
	TransactionTypeRefund TransactionType = "amount"
)

// Transaction — неизменяемая запись журнала кошелька.
// Инвариант: баланс кошелька равен сумме amount всех его транзакций.
// Для возвратов RefundOfSessionID вместе с частичным уникальным индексом
// гарантирует не больше одного возврата на пару (кошелёк, тренировка).
type Transaction struct {
	ID                int64           `json:"id"`
	WalletID          int64           `json:"wallet_id"`
	Amount            float64         `json:"amount"`
	Type              TransactionType `json:"type"`
	Description       string          `json:"description"`
	RefundOfSessionID *int64          `json:"refund_of_session_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}
