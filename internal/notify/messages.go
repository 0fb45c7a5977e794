package notify

import (
	"fmt"
	"strings"
	"time"
)

// Структуры-сводки, из которых собираются тексты сообщений.
// Пакет не зависит от сервисного слоя, чтобы не замыкать импорты.

type ConflictInfo struct {
	TemplateName string
	Date         time.Time
	StartTime    string
	ResourceID   int64
	ConflictWith string
}

type RefundInfo struct {
	ClientName string
	Amount     float64
	Credited   bool
	Notified   bool
}

type TemplateCancellationInfo struct {
	TemplateName string
	DeletedCount int
	TotalRefund  float64
	Refunds      []RefundInfo
}

type DigestSession struct {
	ResourceName string
	StartTime    string
	EndTime      string
	Participants int
}

func formatDate(d time.Time) string {
	return d.Format("02.01.2006")
}

func formatAmount(a float64) string {
	if a == float64(int64(a)) {
		return fmt.Sprintf("%d ₽", int64(a))
	}
	return fmt.Sprintf("%.2f ₽", a)
}

// ScheduleCreatedMessage — слоты на месяц сгенерированы
func ScheduleCreatedMessage(from, to time.Time, slotsCreated int64) string {
	return fmt.Sprintf("📅 Расписание создано: %s — %s, слотов добавлено: %d",
		formatDate(from), formatDate(to), slotsCreated)
}

// RecurringTrainingsCreatedMessage — итог материализации шаблонов
func RecurringTrainingsCreatedMessage(from, to time.Time, count int) string {
	return fmt.Sprintf("🔁 Регулярные тренировки на %s — %s: создано %d",
		formatDate(from), formatDate(to), count)
}

// ConflictsMessage — список пропущенных из-за конфликтов дат
func ConflictsMessage(conflicts []ConflictInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⚠️ Конфликты при создании регулярных тренировок: %d\n", len(conflicts))
	for _, c := range conflicts {
		fmt.Fprintf(&sb, "• %q %s %s (тренажёр %d) — занято: %s\n",
			c.TemplateName, formatDate(c.Date), c.StartTime[:5], c.ResourceID, c.ConflictWith)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// TemplateCancellationMessage — единая админская сводка каскадной отмены шаблона
func TemplateCancellationMessage(info TemplateCancellationInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗑 Шаблон %q удалён.\nОтменено тренировок: %d\nСумма возвратов: %s\n",
		info.TemplateName, info.DeletedCount, formatAmount(info.TotalRefund))

	if len(info.Refunds) > 0 {
		sb.WriteString("Возвраты:\n")
		for _, r := range info.Refunds {
			mark := "✅"
			if !r.Credited {
				mark = "↩️ уже был"
			}
			notified := ""
			if !r.Notified {
				notified = ", без уведомления"
			}
			fmt.Fprintf(&sb, "• %s — %s %s%s\n", r.ClientName, formatAmount(r.Amount), mark, notified)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// SessionCancelledClientMessage — личное уведомление участнику с суммой возврата
func SessionCancelledClientMessage(date time.Time, startTime string, amount float64, reason string) string {
	msg := fmt.Sprintf("❌ Тренировка %s в %s отменена. На ваш кошелёк возвращено %s.",
		formatDate(date), startTime[:5], formatAmount(amount))
	if reason != "" {
		msg += " Причина: " + reason
	}
	return msg
}

// SessionCreatedBroadcastMessage — рассылка о новой тренировке
func SessionCreatedBroadcastMessage(date time.Time, startTime, endTime, resourceName string) string {
	return fmt.Sprintf("🎿 Новая тренировка: %s %s–%s, %s. Запись открыта!",
		formatDate(date), startTime[:5], endTime[:5], resourceName)
}

// DailyDigestMessage — сводка тренировок на завтра
func DailyDigestMessage(date time.Time, sessions []DigestSession) string {
	if len(sessions) == 0 {
		return fmt.Sprintf("🌙 На %s тренировок нет", formatDate(date))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Тренировки на %s: %d\n", formatDate(date), len(sessions))
	for _, s := range sessions {
		fmt.Fprintf(&sb, "• %s–%s %s, участников: %d\n",
			s.StartTime[:5], s.EndTime[:5], s.ResourceName, s.Participants)
	}
	return strings.TrimRight(sb.String(), "\n")
}
