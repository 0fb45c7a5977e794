package model

import "time"

type ParticipantStatus string

const (
	ParticipantStatusConfirmed ParticipantStatus = "confirmed"
	ParticipantStatusCancelled ParticipantStatus = "cancelled"
)

// Participant — связь клиента (или его ребёнка) с тренировкой
type Participant struct {
	ID        int64             `json:"id"`
	SessionID int64             `json:"session_id"`
	ClientID  int64             `json:"client_id"`
	ChildID   *int64            `json:"child_id"`
	Status    ParticipantStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// SessionParticipant — подтверждённый участник вместе с данными клиента
// и его кошельком, нужен процедуре возврата при отмене
type SessionParticipant struct {
	ParticipantID  int64  `json:"participant_id"`
	SessionID      int64  `json:"session_id"`
	ClientID       int64  `json:"client_id"`
	ClientName     string `json:"client_name"`
	TelegramChatID *int64 `json:"telegram_chat_id"`
	WalletID       int64  `json:"wallet_id"`
}
