package service

import (
	"fmt"
	"time"

	"github.com/snowpro-school/schedule-service/internal/model"
)

// Длина тренировки, материализованной из шаблона, фиксирована
const templateSessionMinutes = 60

// PlannedSession — тренировка, которую материализация собирается создать
type PlannedSession struct {
	Template  *model.RecurringTemplate
	Date      time.Time
	StartTime string
	EndTime   string
}

// MaterializationConflict — пропущенная дата: время уже занято другой тренировкой
type MaterializationConflict struct {
	TemplateID   int64     `json:"template_id"`
	TemplateName string    `json:"template_name"`
	Date         time.Time `json:"date"`
	StartTime    string    `json:"start_time"`
	ResourceID   int64     `json:"resource_id"`
	ConflictWith string    `json:"conflict_with"`
}

// WeekdayDates возвращает все даты диапазона [from, to] с заданным днём недели:
// линейный поиск первой подходящей даты, дальше шаг в 7 дней
func WeekdayDates(from, to time.Time, weekday int) []time.Time {
	var dates []time.Time

	first := from
	for !first.After(to) && int(first.Weekday()) != weekday {
		first = first.AddDate(0, 0, 1)
	}
	for d := first; !d.After(to); d = d.AddDate(0, 0, 7) {
		dates = append(dates, d)
	}

	return dates
}

// occupiedInterval — занятый интервал времени на тренажёре в конкретную дату
type occupiedInterval struct {
	start, end string
	label      string
}

type occupancy map[string][]occupiedInterval

func occupancyKey(resourceID int64, date time.Time) string {
	return fmt.Sprintf("%d/%s", resourceID, date.Format("2006-01-02"))
}

func (o occupancy) add(resourceID int64, date time.Time, start, end, label string) {
	key := occupancyKey(resourceID, date)
	o[key] = append(o[key], occupiedInterval{start: start, end: end, label: label})
}

func (o occupancy) findOverlap(resourceID int64, date time.Time, start, end string) (string, bool) {
	for _, iv := range o[occupancyKey(resourceID, date)] {
		if model.RangesOverlap(start, end, iv.start, iv.end) {
			return iv.label, true
		}
	}
	return "", false
}

// PlanRange раскладывает активные шаблоны по датам диапазона [from, to].
// Для каждой даты с совпадающим днём недели планируется часовая тренировка,
// если интервал не пересекается ни с существующей неотменённой тренировкой,
// ни с уже запланированной в этом же прогоне. Конфликты не ошибки:
// они фиксируются и отдаются вызывающей стороне для отчёта.
func PlanRange(templates []*model.RecurringTemplate, existing []*model.Session, from, to time.Time) ([]PlannedSession, []MaterializationConflict) {
	occupied := occupancy{}
	for _, s := range existing {
		if s.Status == model.SessionStatusCancelled {
			continue
		}
		label := fmt.Sprintf("тренировка #%d (%s–%s)", s.ID, s.StartTime[:5], s.EndTime[:5])
		occupied.add(s.ResourceID, s.SessionDate, s.StartTime, s.EndTime, label)
	}

	var planned []PlannedSession
	var conflicts []MaterializationConflict

	for _, t := range templates {
		if !t.IsActive {
			continue
		}

		end := model.AddMinutes(t.StartTime, templateSessionMinutes)
		for _, date := range WeekdayDates(from, to, t.DayOfWeek) {
			if label, busy := occupied.findOverlap(t.ResourceID, date, t.StartTime, end); busy {
				conflicts = append(conflicts, MaterializationConflict{
					TemplateID:   t.ID,
					TemplateName: t.Name,
					Date:         date,
					StartTime:    t.StartTime,
					ResourceID:   t.ResourceID,
					ConflictWith: label,
				})
				continue
			}

			planned = append(planned, PlannedSession{
				Template:  t,
				Date:      date,
				StartTime: t.StartTime,
				EndTime:   end,
			})
			occupied.add(t.ResourceID, date, t.StartTime, end, fmt.Sprintf("шаблон %q", t.Name))
		}
	}

	return planned, conflicts
}
