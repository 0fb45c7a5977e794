package model

import "time"

type SlotStatus string

const (
	SlotStatusFree    SlotStatus = "free"
	SlotStatusBooked  SlotStatus = "booked"
	SlotStatusBlocked SlotStatus = "blocked"
)

// CalendarSlot — атомарная единица бронирования: 30 минут одного тренажёра
type CalendarSlot struct {
	ID         int64     `json:"id"`
	ResourceID int64     `json:"resource_id"`
	Date       time.Time `json:"date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	IsBooked   bool      `json:"is_booked"`
	IsBlocked  bool      `json:"is_blocked"` // выставляется только bulk-синхронизацией блокировок
	IsHoliday  bool      `json:"is_holiday"`
}

// SlotView — слот с вычисленным эффективным статусом для отображения.
// Приоритет: бронь > активная блокировка без исключения > свободно.
type SlotView struct {
	CalendarSlot
	Status  SlotStatus `json:"status"`
	BlockID *int64     `json:"block_id,omitempty"`
}
