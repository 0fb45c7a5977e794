package model

import "time"

// Resource — физический тренажёр (горнолыжный симулятор)
type Resource struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	WorkStart string    `json:"work_start"` // "10:00:00"
	WorkEnd   string    `json:"work_end"`   // "21:00:00"
	CreatedAt time.Time `json:"created_at"`
}
