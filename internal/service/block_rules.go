package service

import (
	"time"

	"github.com/snowpro-school/schedule-service/internal/model"
)

// Ленивая оценка блокировок: слот считается заблокированным, если его накрывает
// хоть одна активная блокировка без исключения на ровно этот слот.

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// BlockApplies проверяет накрывает ли блокировка слот (дата, время начала, тренажёр)
func BlockApplies(b *model.ScheduleBlock, date time.Time, startTime string, resourceID int64) bool {
	if !b.IsActive {
		return false
	}
	if b.ResourceID != nil && *b.ResourceID != resourceID {
		return false
	}
	if startTime < b.StartTime || startTime >= b.EndTime {
		return false
	}

	switch b.BlockType {
	case model.BlockTypeSpecific:
		if b.StartDate == nil || b.EndDate == nil {
			return false
		}
		afterStart := sameDate(date, *b.StartDate) || date.After(*b.StartDate)
		beforeEnd := sameDate(date, *b.EndDate) || date.Before(*b.EndDate)
		return afterStart && beforeEnd
	case model.BlockTypeRecurring:
		return b.DayOfWeek != nil && int(date.Weekday()) == *b.DayOfWeek
	default:
		return false
	}
}

// HasException проверяет есть ли точечное исключение блокировки для слота
func HasException(exceptions []*model.ScheduleBlockException, blockID int64, date time.Time, startTime string, resourceID int64) bool {
	for _, e := range exceptions {
		if e.BlockID == blockID && e.StartTime == startTime && e.ResourceID == resourceID && sameDate(e.Date, date) {
			return true
		}
	}
	return false
}

// EffectiveStatus вычисляет статус слота для отображения.
// Приоритет: явная бронь > активная блокировка без исключения > свободно.
// Вторым значением возвращается ID сработавшей блокировки.
func EffectiveStatus(slot *model.CalendarSlot, blocks []*model.ScheduleBlock, exceptions []*model.ScheduleBlockException) (model.SlotStatus, *int64) {
	if slot.IsBooked {
		return model.SlotStatusBooked, nil
	}

	for _, b := range blocks {
		if !BlockApplies(b, slot.Date, slot.StartTime, slot.ResourceID) {
			continue
		}
		if HasException(exceptions, b.ID, slot.Date, slot.StartTime, slot.ResourceID) {
			continue
		}
		id := b.ID
		return model.SlotStatusBlocked, &id
	}

	// флаг, проставленный ручной синхронизацией apply-all
	if slot.IsBlocked {
		return model.SlotStatusBlocked, nil
	}

	return model.SlotStatusFree, nil
}
