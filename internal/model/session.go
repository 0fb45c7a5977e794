package model

import "time"

type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// Session — конкретная тренировка: либо созданная админом вручную,
// либо материализованная из шаблона (тогда TemplateID заполнен)
type Session struct {
	ID              int64         `json:"id"`
	ResourceID      int64         `json:"resource_id"`
	TrainerID       *int64        `json:"trainer_id"`
	GroupID         *int64        `json:"group_id"`
	TemplateID      *int64        `json:"template_id"`
	SessionDate     time.Time     `json:"session_date"`
	StartTime       string        `json:"start_time"`
	EndTime         string        `json:"end_time"`
	DurationMinutes int           `json:"duration_minutes"`
	IsGroup         bool          `json:"is_group"`
	MaxParticipants int           `json:"max_participants"`
	SkillLevel      string        `json:"skill_level"`
	Price           float64       `json:"price"`
	Status          SessionStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
