package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/snowpro-school/schedule-service/internal/model"
)

func specificBlock(id int64, from, to time.Time, start, end string) *model.ScheduleBlock {
	return &model.ScheduleBlock{
		ID:        id,
		Name:      "Праздники",
		BlockType: model.BlockTypeSpecific,
		StartDate: &from,
		EndDate:   &to,
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	}
}

func recurringBlock(id int64, weekday int, start, end string) *model.ScheduleBlock {
	return &model.ScheduleBlock{
		ID:        id,
		Name:      "Обед",
		BlockType: model.BlockTypeRecurring,
		DayOfWeek: &weekday,
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	}
}

func TestBlockAppliesSpecific(t *testing.T) {
	b := specificBlock(1, date(2026, time.March, 9), date(2026, time.March, 11), "13:00:00", "14:00:00")

	// граничные даты включительно
	assert.True(t, BlockApplies(b, date(2026, time.March, 9), "13:00:00", 1))
	assert.True(t, BlockApplies(b, date(2026, time.March, 11), "13:30:00", 1))
	assert.False(t, BlockApplies(b, date(2026, time.March, 8), "13:00:00", 1))
	assert.False(t, BlockApplies(b, date(2026, time.March, 12), "13:00:00", 1))

	// время: начало включительно, конец исключительно
	assert.False(t, BlockApplies(b, date(2026, time.March, 10), "12:30:00", 1))
	assert.False(t, BlockApplies(b, date(2026, time.March, 10), "14:00:00", 1))
}

func TestBlockAppliesRecurring(t *testing.T) {
	b := recurringBlock(2, 1, "13:00:00", "14:00:00") // понедельник

	assert.True(t, BlockApplies(b, date(2026, time.March, 9), "13:00:00", 1))
	assert.True(t, BlockApplies(b, date(2026, time.March, 16), "13:30:00", 2))
	// вторник не накрыт
	assert.False(t, BlockApplies(b, date(2026, time.March, 10), "13:00:00", 1))
}

func TestBlockAppliesResourceScope(t *testing.T) {
	b := recurringBlock(3, 1, "13:00:00", "14:00:00")
	resourceID := int64(2)
	b.ResourceID = &resourceID

	assert.True(t, BlockApplies(b, date(2026, time.March, 9), "13:00:00", 2))
	assert.False(t, BlockApplies(b, date(2026, time.March, 9), "13:00:00", 1))
}

func TestBlockAppliesInactive(t *testing.T) {
	b := recurringBlock(4, 1, "13:00:00", "14:00:00")
	b.IsActive = false

	assert.False(t, BlockApplies(b, date(2026, time.March, 9), "13:00:00", 1))
}

func TestEffectiveStatusPriority(t *testing.T) {
	block := recurringBlock(5, 1, "13:00:00", "14:00:00")
	blocks := []*model.ScheduleBlock{block}

	slot := &model.CalendarSlot{
		ResourceID: 1,
		Date:       date(2026, time.March, 9),
		StartTime:  "13:00:00",
		EndTime:    "13:30:00",
	}

	// блокировка без исключения
	status, blockID := EffectiveStatus(slot, blocks, nil)
	assert.Equal(t, model.SlotStatusBlocked, status)
	if assert.NotNil(t, blockID) {
		assert.Equal(t, int64(5), *blockID)
	}

	// бронь сильнее блокировки
	booked := *slot
	booked.IsBooked = true
	status, blockID = EffectiveStatus(&booked, blocks, nil)
	assert.Equal(t, model.SlotStatusBooked, status)
	assert.Nil(t, blockID)

	// исключение возвращает слот в свободные
	exceptions := []*model.ScheduleBlockException{{
		BlockID:    5,
		Date:       date(2026, time.March, 9),
		StartTime:  "13:00:00",
		ResourceID: 1,
	}}
	status, blockID = EffectiveStatus(slot, blocks, exceptions)
	assert.Equal(t, model.SlotStatusFree, status)
	assert.Nil(t, blockID)

	// исключение точечное: соседний слот той же блокировки остаётся закрыт
	next := *slot
	next.StartTime = "13:30:00"
	next.EndTime = "14:00:00"
	status, _ = EffectiveStatus(&next, blocks, exceptions)
	assert.Equal(t, model.SlotStatusBlocked, status)
}

func TestEffectiveStatusManualFlag(t *testing.T) {
	slot := &model.CalendarSlot{
		ResourceID: 1,
		Date:       date(2026, time.March, 10),
		StartTime:  "15:00:00",
		EndTime:    "15:30:00",
		IsBlocked:  true,
	}

	// флаг от apply-all действует даже без живой блокировки
	status, blockID := EffectiveStatus(slot, nil, nil)
	assert.Equal(t, model.SlotStatusBlocked, status)
	assert.Nil(t, blockID)
}

func TestHasException(t *testing.T) {
	exceptions := []*model.ScheduleBlockException{{
		BlockID:    1,
		Date:       date(2026, time.March, 9),
		StartTime:  "13:00:00",
		ResourceID: 1,
	}}

	assert.True(t, HasException(exceptions, 1, date(2026, time.March, 9), "13:00:00", 1))
	assert.False(t, HasException(exceptions, 2, date(2026, time.March, 9), "13:00:00", 1))
	assert.False(t, HasException(exceptions, 1, date(2026, time.March, 10), "13:00:00", 1))
	assert.False(t, HasException(exceptions, 1, date(2026, time.March, 9), "13:30:00", 1))
	assert.False(t, HasException(exceptions, 1, date(2026, time.March, 9), "13:00:00", 2))
}
