package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9:00", "09:00:00"},
		{"09:00", "09:00:00"},
		{"09:00:00", "09:00:00"},
		{"21:30", "21:30:00"},
		{" 10:00 ", "10:00:00"},
		{"0:05", "00:05:00"},
	}

	for _, tc := range cases {
		got, err := ParseDayTime(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseDayTimeInvalid(t *testing.T) {
	for _, in := range []string{"", "9", "25:00", "10:70", "10:00:99", "abc", "10:aa"} {
		_, err := ParseDayTime(in)
		assert.Error(t, err, in)
	}
}

func TestAddMinutes(t *testing.T) {
	assert.Equal(t, "10:00:00", AddMinutes("09:00:00", 60))
	assert.Equal(t, "09:30:00", AddMinutes("09:00:00", 30))
	assert.Equal(t, "11:30:00", AddMinutes("10:00:00", 90))
	// не вылезаем за пределы суток
	assert.Equal(t, "23:59:00", AddMinutes("23:30:00", 60))
}

func TestDayTimeMinutes(t *testing.T) {
	assert.Equal(t, 0, DayTimeMinutes("00:00:00"))
	assert.Equal(t, 570, DayTimeMinutes("09:30:00"))
	assert.Equal(t, 1260, DayTimeMinutes("21:00:00"))
}

func TestRangesOverlap(t *testing.T) {
	// пересечение
	assert.True(t, RangesOverlap("09:00:00", "10:00:00", "09:30:00", "10:30:00"))
	assert.True(t, RangesOverlap("09:30:00", "10:30:00", "09:00:00", "10:00:00"))
	// вложение
	assert.True(t, RangesOverlap("09:00:00", "11:00:00", "09:30:00", "10:00:00"))
	// касание границ не считается пересечением
	assert.False(t, RangesOverlap("09:00:00", "10:00:00", "10:00:00", "11:00:00"))
	assert.False(t, RangesOverlap("10:00:00", "11:00:00", "09:00:00", "10:00:00"))
	// полностью раздельные
	assert.False(t, RangesOverlap("09:00:00", "10:00:00", "12:00:00", "13:00:00"))
}
