package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowpro-school/schedule-service/internal/model"
)

type bookedRange struct {
	resourceID int64
	date       time.Time
	start      string
	end        string
	booked     bool
}

type fakeSlotBooker struct {
	calls []bookedRange
}

func (f *fakeSlotBooker) MarkRange(ctx context.Context, resourceID int64, date time.Time, start, end string, booked bool) (int64, error) {
	f.calls = append(f.calls, bookedRange{resourceID, date, start, end, booked})
	return 2, nil
}

func TestBookPlannedRangesBooksEverySession(t *testing.T) {
	tmpl := mondayTemplate(1, "Группа начинающих", "09:00:00")
	planned, conflicts := PlanRange([]*model.RecurringTemplate{tmpl}, nil, marchFrom, marchTo)
	require.Len(t, planned, 5)
	require.Empty(t, conflicts)

	booker := &fakeSlotBooker{}
	booked, err := bookPlannedRanges(context.Background(), booker, planned)
	require.NoError(t, err)

	// часовая тренировка занимает два 30-минутных слота
	assert.Equal(t, int64(10), booked)
	require.Len(t, booker.calls, 5)
	for i, call := range booker.calls {
		assert.Equal(t, planned[i].Date, call.date)
		assert.Equal(t, int64(1), call.resourceID)
		assert.Equal(t, "09:00:00", call.start)
		assert.Equal(t, "10:00:00", call.end)
		assert.True(t, call.booked)
	}
}
