package model

// TrainingRate — строка тарифной таблицы для расчёта цены тренировки
type TrainingRate struct {
	ID              int64   `json:"id"`
	IsGroup         bool    `json:"is_group"`
	WithTrainer     bool    `json:"with_trainer"`
	Participants    int     `json:"participants"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}
