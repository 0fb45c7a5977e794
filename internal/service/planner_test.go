package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowpro-school/schedule-service/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// март 2026: понедельники 2, 9, 16, 23, 30
var (
	marchFrom = date(2026, time.March, 1)
	marchTo   = date(2026, time.March, 31)
)

func mondayTemplate(id int64, name string, start string) *model.RecurringTemplate {
	return &model.RecurringTemplate{
		ID:              id,
		Name:            name,
		DayOfWeek:       1,
		StartTime:       start,
		ResourceID:      1,
		MaxParticipants: 4,
		IsActive:        true,
	}
}

func TestWeekdayDates(t *testing.T) {
	mondays := WeekdayDates(marchFrom, marchTo, 1)
	require.Len(t, mondays, 5)
	assert.Equal(t, date(2026, time.March, 2), mondays[0])
	assert.Equal(t, date(2026, time.March, 30), mondays[4])

	// день недели, которого нет в однодневном диапазоне
	none := WeekdayDates(date(2026, time.March, 3), date(2026, time.March, 3), 1)
	assert.Empty(t, none)

	// диапазон из одного подходящего дня
	one := WeekdayDates(date(2026, time.March, 2), date(2026, time.March, 2), 1)
	assert.Len(t, one, 1)
}

func TestPlanRangeHappyPath(t *testing.T) {
	tmpl := mondayTemplate(1, "Группа начинающих", "09:00:00")

	planned, conflicts := PlanRange([]*model.RecurringTemplate{tmpl}, nil, marchFrom, marchTo)

	require.Len(t, planned, 5)
	assert.Empty(t, conflicts)
	for _, p := range planned {
		assert.Equal(t, "09:00:00", p.StartTime)
		assert.Equal(t, "10:00:00", p.EndTime)
		assert.Equal(t, time.Monday, p.Date.Weekday())
	}
}

func TestPlanRangeSkipsInactive(t *testing.T) {
	tmpl := mondayTemplate(1, "Выключенный", "09:00:00")
	tmpl.IsActive = false

	planned, conflicts := PlanRange([]*model.RecurringTemplate{tmpl}, nil, marchFrom, marchTo)

	assert.Empty(t, planned)
	assert.Empty(t, conflicts)
}

func TestPlanRangeConflictSkipsOnlyBusyDate(t *testing.T) {
	tmpl := mondayTemplate(1, "Группа начинающих", "09:00:00")

	// разовая тренировка 9 марта пересекается с шаблонным часом наполовину
	existing := []*model.Session{{
		ID:          77,
		ResourceID:  1,
		SessionDate: date(2026, time.March, 9),
		StartTime:   "09:30:00",
		EndTime:     "10:30:00",
		Status:      model.SessionStatusScheduled,
	}}

	planned, conflicts := PlanRange([]*model.RecurringTemplate{tmpl}, existing, marchFrom, marchTo)

	assert.Len(t, planned, 4)
	require.Len(t, conflicts, 1)
	assert.Equal(t, date(2026, time.March, 9), conflicts[0].Date)
	assert.Equal(t, int64(1), conflicts[0].TemplateID)
	assert.Contains(t, conflicts[0].ConflictWith, "#77")
}

func TestPlanRangeIgnoresCancelledSessions(t *testing.T) {
	tmpl := mondayTemplate(1, "Группа начинающих", "09:00:00")

	existing := []*model.Session{{
		ID:          77,
		ResourceID:  1,
		SessionDate: date(2026, time.March, 9),
		StartTime:   "09:00:00",
		EndTime:     "10:00:00",
		Status:      model.SessionStatusCancelled,
	}}

	planned, conflicts := PlanRange([]*model.RecurringTemplate{tmpl}, existing, marchFrom, marchTo)

	assert.Len(t, planned, 5)
	assert.Empty(t, conflicts)
}

func TestPlanRangeSecondRunIsAllConflicts(t *testing.T) {
	tmpl := mondayTemplate(1, "Группа начинающих", "09:00:00")

	// первый прогон уже создал тренировки на все понедельники
	var existing []*model.Session
	for i, d := range WeekdayDates(marchFrom, marchTo, 1) {
		existing = append(existing, &model.Session{
			ID:          int64(100 + i),
			ResourceID:  1,
			SessionDate: d,
			StartTime:   "09:00:00",
			EndTime:     "10:00:00",
			Status:      model.SessionStatusScheduled,
		})
	}

	planned, conflicts := PlanRange([]*model.RecurringTemplate{tmpl}, existing, marchFrom, marchTo)

	assert.Empty(t, planned)
	assert.Len(t, conflicts, 5)
}

func TestPlanRangeInterTemplateConflict(t *testing.T) {
	first := mondayTemplate(1, "Первая группа", "09:00:00")
	second := mondayTemplate(2, "Вторая группа", "09:30:00")

	planned, conflicts := PlanRange([]*model.RecurringTemplate{first, second}, nil, marchFrom, marchTo)

	// первый шаблон занял 09:00–10:00, второй целиком конфликтует
	assert.Len(t, planned, 5)
	require.Len(t, conflicts, 5)
	assert.Equal(t, int64(2), conflicts[0].TemplateID)
	assert.Contains(t, conflicts[0].ConflictWith, "Первая группа")
}

func TestPlanRangeDifferentResourcesDoNotConflict(t *testing.T) {
	first := mondayTemplate(1, "Первая группа", "09:00:00")
	second := mondayTemplate(2, "Вторая группа", "09:00:00")
	second.ResourceID = 2

	planned, conflicts := PlanRange([]*model.RecurringTemplate{first, second}, nil, marchFrom, marchTo)

	assert.Len(t, planned, 10)
	assert.Empty(t, conflicts)
}
