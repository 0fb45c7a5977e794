package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1200 ₽", formatAmount(1200))
	assert.Equal(t, "0 ₽", formatAmount(0))
	assert.Equal(t, "1250.50 ₽", formatAmount(1250.5))
}

func TestScheduleCreatedMessage(t *testing.T) {
	msg := ScheduleCreatedMessage(day(2026, time.March, 1), day(2026, time.March, 31), 968)
	assert.Equal(t, "📅 Расписание создано: 01.03.2026 — 31.03.2026, слотов добавлено: 968", msg)
}

func TestConflictsMessage(t *testing.T) {
	msg := ConflictsMessage([]ConflictInfo{
		{
			TemplateName: "Группа начинающих",
			Date:         day(2026, time.March, 9),
			StartTime:    "09:00:00",
			ResourceID:   1,
			ConflictWith: "тренировка #77 (09:30–10:30)",
		},
	})

	assert.Contains(t, msg, "Конфликты при создании регулярных тренировок: 1")
	assert.Contains(t, msg, "\"Группа начинающих\" 09.03.2026 09:00 (тренажёр 1)")
	assert.Contains(t, msg, "тренировка #77")
	assert.NotContains(t, msg, "\n\n")
}

func TestTemplateCancellationMessage(t *testing.T) {
	msg := TemplateCancellationMessage(TemplateCancellationInfo{
		TemplateName: "Группа начинающих",
		DeletedCount: 4,
		TotalRefund:  9600,
		Refunds: []RefundInfo{
			{ClientName: "Иван", Amount: 1200, Credited: true, Notified: true},
			{ClientName: "Мария", Amount: 1200, Credited: false, Notified: true},
			{ClientName: "Пётр", Amount: 1200, Credited: true, Notified: false},
		},
	})

	assert.Contains(t, msg, "Шаблон \"Группа начинающих\" удалён")
	assert.Contains(t, msg, "Отменено тренировок: 4")
	assert.Contains(t, msg, "Сумма возвратов: 9600 ₽")
	assert.Contains(t, msg, "Иван — 1200 ₽ ✅")
	assert.Contains(t, msg, "Мария — 1200 ₽ ↩️ уже был")
	assert.Contains(t, msg, "Пётр — 1200 ₽ ✅, без уведомления")
}

func TestSessionCancelledClientMessage(t *testing.T) {
	msg := SessionCancelledClientMessage(day(2026, time.March, 9), "09:00:00", 1200, "")
	assert.Equal(t, "❌ Тренировка 09.03.2026 в 09:00 отменена. На ваш кошелёк возвращено 1200 ₽.", msg)

	withReason := SessionCancelledClientMessage(day(2026, time.March, 9), "09:00:00", 1200, "поломка тренажёра")
	assert.Contains(t, withReason, "Причина: поломка тренажёра")
}

func TestDailyDigestMessage(t *testing.T) {
	empty := DailyDigestMessage(day(2026, time.March, 10), nil)
	assert.Equal(t, "🌙 На 10.03.2026 тренировок нет", empty)

	msg := DailyDigestMessage(day(2026, time.March, 10), []DigestSession{
		{ResourceName: "Тренажёр 1", StartTime: "09:00:00", EndTime: "10:00:00", Participants: 4},
		{ResourceName: "Тренажёр 2", StartTime: "18:00:00", EndTime: "19:00:00", Participants: 2},
	})
	assert.Contains(t, msg, "Тренировки на 10.03.2026: 2")
	assert.Contains(t, msg, "09:00–10:00 Тренажёр 1, участников: 4")
	assert.Contains(t, msg, "18:00–19:00 Тренажёр 2, участников: 2")
}
