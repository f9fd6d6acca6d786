package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestOverlapsHalfOpen(t *testing.T) {
	assert.True(t, Overlaps(at(9, 0), at(10, 30), at(10, 0), at(11, 0)))
	assert.True(t, Overlaps(at(10, 0), at(11, 0), at(9, 0), at(10, 30)))
	assert.True(t, Overlaps(at(9, 0), at(12, 0), at(10, 0), at(11, 0)))

	// back-to-back exams do not overlap
	assert.False(t, Overlaps(at(9, 0), at(10, 0), at(10, 0), at(11, 0)))
	assert.False(t, Overlaps(at(10, 0), at(11, 0), at(9, 0), at(10, 0)))
	assert.False(t, Overlaps(at(9, 0), at(10, 0), at(13, 0), at(14, 0)))
}

func TestParseTimeOfDay(t *testing.T) {
	slot, ok := ParseTimeOfDay("09:30")
	assert.True(t, ok)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 30}, slot)
	assert.Equal(t, "09:30", slot.String())

	_, ok = ParseTimeOfDay("25:00")
	assert.False(t, ok)
	_, ok = ParseTimeOfDay("09:75")
	assert.False(t, ok)
	_, ok = ParseTimeOfDay("0930")
	assert.False(t, ok)
	_, ok = ParseTimeOfDay("")
	assert.False(t, ok)

	slot, ok = ParseTimeOfDay(" 13:05 ")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 10, 13, 5, 0, 0, time.UTC), slot.At(at(0, 0)))
}

func TestNormalizeExcludedWeekdays(t *testing.T) {
	got := NormalizeExcludedWeekdays([]interface{}{"Cumartesi", "pazar", 0, "3", float64(4), "not-a-day", 9, float64(2.5)})
	assert.Equal(t, map[int]bool{0: true, 3: true, 4: true, 5: true, 6: true}, got)

	assert.Empty(t, NormalizeExcludedWeekdays(nil))
}

func TestWeekdayIndexMondayZero(t *testing.T) {
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, 0, weekdayIndex(monday))
	assert.Equal(t, 6, weekdayIndex(monday.AddDate(0, 0, 6)))
}
