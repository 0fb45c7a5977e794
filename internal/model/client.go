package model

import "time"

// Client — клиент школы. Основная клиентская CRM живёт вне этого сервиса,
// здесь нужны только имя и канал уведомлений.
type Client struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	TelegramChatID *int64    `json:"telegram_chat_id"`
	CreatedAt      time.Time `json:"created_at"`
}
