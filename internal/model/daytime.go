package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Времена внутри дня храним строками "HH:MM:SS" с ведущими нулями.
// Такие строки сравниваются лексикографически в том же порядке, что и по часам,
// поэтому диапазонные условия в SQL работают без преобразований.

// ParseDayTime нормализует время "9:00", "09:00" или "09:00:00" к "HH:MM:SS"
func ParseDayTime(s string) (string, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", fmt.Errorf("invalid time %q", s)
	}
	if len(parts) == 2 {
		parts = append(parts, "00")
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return "", fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return "", fmt.Errorf("invalid minute in %q", s)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil || sec < 0 || sec > 59 {
		return "", fmt.Errorf("invalid second in %q", s)
	}

	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec), nil
}

// MustDayTime паникует на невалидном времени, используется для констант
func MustDayTime(s string) string {
	t, err := ParseDayTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

// DayTimeMinutes возвращает число минут с начала суток
func DayTimeMinutes(t string) int {
	h, _ := strconv.Atoi(t[0:2])
	m, _ := strconv.Atoi(t[3:5])
	return h*60 + m
}

// AddMinutes сдвигает время "HH:MM:SS" на минуты вперёд (в пределах суток)
func AddMinutes(t string, minutes int) string {
	total := DayTimeMinutes(t) + minutes
	if total >= 24*60 {
		total = 24*60 - 1
	}
	return fmt.Sprintf("%02d:%02d:00", total/60, total%60)
}

// RangesOverlap проверяет пересечение полуоткрытых интервалов [aStart,aEnd) и [bStart,bEnd)
func RangesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}
