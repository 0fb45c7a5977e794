package events

import "time"

// Имена очередей доменных событий
const (
	QueueSessionCancelled     = "schedule.session.cancelled"
	QueueTemplateCancelled    = "schedule.template.cancelled"
	QueueScheduleMaterialized = "schedule.materialized"
)

// RefundEntry — один выполненный возврат в составе события отмены
type RefundEntry struct {
	ClientID int64   `json:"client_id"`
	WalletID int64   `json:"wallet_id"`
	Amount   float64 `json:"amount"`
	Credited bool    `json:"credited"`
}

// SessionCancelledEvent публикуется после фиксации отмены тренировки
type SessionCancelledEvent struct {
	SessionID   int64         `json:"session_id"`
	ResourceID  int64         `json:"resource_id"`
	SessionDate string        `json:"session_date"`
	StartTime   string        `json:"start_time"`
	Reason      string        `json:"reason"`
	Refunds     []RefundEntry `json:"refunds"`
	TotalRefund float64       `json:"total_refund"`
	OccurredAt  time.Time     `json:"occurred_at"`
}

// TemplateCancelledEvent публикуется после каскадной отмены шаблона
type TemplateCancelledEvent struct {
	TemplateID   int64         `json:"template_id"`
	TemplateName string        `json:"template_name"`
	DeletedCount int           `json:"deleted_count"`
	TotalRefund  float64       `json:"total_refund"`
	Refunds      []RefundEntry `json:"refunds"`
	OccurredAt   time.Time     `json:"occurred_at"`
}

// ScheduleMaterializedEvent публикуется после месячной материализации
type ScheduleMaterializedEvent struct {
	RunID         string    `json:"run_id"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	SlotsCreated  int64     `json:"slots_created"`
	SuccessCount  int       `json:"success_count"`
	ConflictCount int       `json:"conflict_count"`
	OccurredAt    time.Time `json:"occurred_at"`
}
