package model

import "time"

// RecurringTemplate — еженедельное правило, из которого раз в месяц
// материализуются конкретные тренировки
type RecurringTemplate struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	DayOfWeek       int       `json:"day_of_week"` // 0 = Sunday, 6 = Saturday
	StartTime       string    `json:"start_time"`
	ResourceID      int64     `json:"resource_id"`
	TrainerID       *int64    `json:"trainer_id"`
	GroupID         *int64    `json:"group_id"`
	SkillLevel      string    `json:"skill_level"`
	MaxParticipants int       `json:"max_participants"`
	EquipmentType   string    `json:"equipment_type"` // ski | snowboard
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// WithTrainer — признак "с тренером" для подбора тарифа
func (t *RecurringTemplate) WithTrainer() bool {
	return t.TrainerID != nil
}
