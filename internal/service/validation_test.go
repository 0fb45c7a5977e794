package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowpro-school/schedule-service/internal/model"
)

func validTemplateInput() *TemplateInput {
	return &TemplateInput{
		Name:            "Группа начинающих",
		DayOfWeek:       1,
		StartTime:       "9:00",
		ResourceID:      1,
		MaxParticipants: 4,
	}
}

func TestValidateTemplateInput(t *testing.T) {
	in := validTemplateInput()
	require.NoError(t, validateTemplateInput(in))
	// время нормализовано к каноническому виду
	assert.Equal(t, "09:00:00", in.StartTime)
}

func TestValidateTemplateInputRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*TemplateInput)
	}{
		{"empty name", func(in *TemplateInput) { in.Name = "" }},
		{"negative weekday", func(in *TemplateInput) { in.DayOfWeek = -1 }},
		{"weekday out of range", func(in *TemplateInput) { in.DayOfWeek = 7 }},
		{"bad time", func(in *TemplateInput) { in.StartTime = "25:00" }},
		{"no resource", func(in *TemplateInput) { in.ResourceID = 0 }},
		{"no participants", func(in *TemplateInput) { in.MaxParticipants = 0 }},
		{"crosses midnight", func(in *TemplateInput) { in.StartTime = "23:30" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validTemplateInput()
			tc.mutate(in)

			err := validateTemplateInput(in)
			require.Error(t, err)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func validSessionInput() *SessionInput {
	return &SessionInput{
		ResourceID:      1,
		Date:            date(2026, time.March, 9),
		StartTime:       "9:00",
		DurationMinutes: 90,
		MaxParticipants: 4,
		Price:           4500,
	}
}

func TestValidateSessionInput(t *testing.T) {
	in := validSessionInput()
	require.NoError(t, validateSessionInput(in))
	assert.Equal(t, "09:00:00", in.StartTime)

	// нулевая длительность заменяется часом по умолчанию
	in = validSessionInput()
	in.DurationMinutes = 0
	require.NoError(t, validateSessionInput(in))
	assert.Equal(t, 60, in.DurationMinutes)
}

func TestValidateSessionInputRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SessionInput)
	}{
		{"bad time", func(in *SessionInput) { in.StartTime = "abc" }},
		{"no resource", func(in *SessionInput) { in.ResourceID = 0 }},
		{"zero date", func(in *SessionInput) { in.Date = time.Time{} }},
		{"duration not multiple of step", func(in *SessionInput) { in.DurationMinutes = 45 }},
		{"duration below step", func(in *SessionInput) { in.DurationMinutes = 15 }},
		{"no participants", func(in *SessionInput) { in.MaxParticipants = 0 }},
		{"negative price", func(in *SessionInput) { in.Price = -1 }},
		{"crosses midnight", func(in *SessionInput) { in.StartTime = "23:30"; in.DurationMinutes = 60 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validSessionInput()
			tc.mutate(in)

			err := validateSessionInput(in)
			require.Error(t, err)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestValidateBlockInput(t *testing.T) {
	weekday := 1
	block, err := validateBlockInput(&BlockInput{
		Name:      "Обед",
		BlockType: "recurring",
		DayOfWeek: &weekday,
		StartTime: "13:00",
		EndTime:   "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, model.BlockTypeRecurring, block.BlockType)
	assert.Equal(t, "13:00:00", block.StartTime)
	assert.Equal(t, "14:00:00", block.EndTime)
	assert.True(t, block.IsActive)

	from := date(2026, time.March, 9)
	to := date(2026, time.March, 11)
	block, err = validateBlockInput(&BlockInput{
		Name:      "Праздники",
		BlockType: "specific",
		StartDate: &from,
		EndDate:   &to,
		StartTime: "10:00",
		EndTime:   "21:00",
	})
	require.NoError(t, err)
	assert.Equal(t, model.BlockTypeSpecific, block.BlockType)
}

func TestValidateBlockInputRejects(t *testing.T) {
	weekday := 1
	from := date(2026, time.March, 11)
	to := date(2026, time.March, 9)

	cases := []struct {
		name string
		in   *BlockInput
	}{
		{"empty name", &BlockInput{BlockType: "recurring", DayOfWeek: &weekday, StartTime: "13:00", EndTime: "14:00"}},
		{"end before start", &BlockInput{Name: "x", BlockType: "recurring", DayOfWeek: &weekday, StartTime: "14:00", EndTime: "13:00"}},
		{"end equals start", &BlockInput{Name: "x", BlockType: "recurring", DayOfWeek: &weekday, StartTime: "13:00", EndTime: "13:00"}},
		{"recurring without weekday", &BlockInput{Name: "x", BlockType: "recurring", StartTime: "13:00", EndTime: "14:00"}},
		{"specific without dates", &BlockInput{Name: "x", BlockType: "specific", StartTime: "13:00", EndTime: "14:00"}},
		{"specific dates inverted", &BlockInput{Name: "x", BlockType: "specific", StartDate: &from, EndDate: &to, StartTime: "13:00", EndTime: "14:00"}},
		{"unknown type", &BlockInput{Name: "x", BlockType: "weird", StartTime: "13:00", EndTime: "14:00"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validateBlockInput(tc.in)
			require.Error(t, err)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestRefundDescription(t *testing.T) {
	s := &model.Session{
		SessionDate:     date(2026, time.March, 9),
		StartTime:       "09:00:00",
		EndTime:         "10:00:00",
		DurationMinutes: 60,
	}
	assert.Equal(t, "Возврат за тренировку 09.03.2026 09:00–10:00 (60 мин)", refundDescription(s))

	groupID := int64(3)
	s.GroupID = &groupID
	assert.Equal(t, "Возврат за тренировку 09.03.2026 09:00–10:00 (60 мин), группа 3", refundDescription(s))
}
