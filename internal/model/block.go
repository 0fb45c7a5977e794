package model

import "time"

type BlockType string

const (
	BlockTypeSpecific  BlockType = "specific"  // разовый диапазон дат
	BlockTypeRecurring BlockType = "recurring" // еженедельно по дню недели
)

// ScheduleBlock — административная блокировка расписания.
// Для specific заполнены StartDate/EndDate, для recurring — DayOfWeek.
// ResourceID == nil означает "все тренажёры".
type ScheduleBlock struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	BlockType  BlockType  `json:"block_type"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	DayOfWeek  *int       `json:"day_of_week"`
	StartTime  string     `json:"start_time"`
	EndTime    string     `json:"end_time"`
	ResourceID *int64     `json:"resource_id"`
	Reason     string     `json:"reason"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ScheduleBlockException локально отменяет действие блокировки
// для одного конкретного слота (дата + время + тренажёр)
type ScheduleBlockException struct {
	ID         int64     `json:"id"`
	BlockID    int64     `json:"block_id"`
	Date       time.Time `json:"date"`
	StartTime  string    `json:"start_time"`
	ResourceID int64     `json:"resource_id"`
	CreatedAt  time.Time `json:"created_at"`
}
