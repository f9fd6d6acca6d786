package scheduler

import (
	"strconv"
	"strings"
	"time"
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. An exam ending exactly when another begins
// does not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !(aEnd.Before(bStart) || aEnd.Equal(bStart) || bEnd.Before(aStart) || bEnd.Equal(aStart))
}

// TimeOfDay is a wall-clock slot start within a planning day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// At anchors the time of day onto the given calendar date.
func (t TimeOfDay) At(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

// String formats the slot as HH:MM.
func (t TimeOfDay) String() string {
	return time.Date(0, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format("15:04")
}

// ParseTimeOfDay parses an "HH:MM" string. The second return value is
// false on malformed input; callers skip such slots.
func ParseTimeOfDay(value string) (TimeOfDay, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return TimeOfDay{}, false
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return TimeOfDay{}, false
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return TimeOfDay{}, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, false
	}
	return TimeOfDay{Hour: hour, Minute: minute}, true
}

// Weekday labels accepted from legacy clients. Values are Monday=0
// through Sunday=6.
var weekdayNames = map[string]int{
	"pazartesi": 0,
	"salı":      1,
	"sali":      1,
	"çarşamba":  2,
	"carsamba":  2,
	"perşembe":  3,
	"persembe":  3,
	"cuma":      4,
	"cumartesi": 5,
	"pazar":     6,
}

// NormalizeExcludedWeekdays converts mixed weekday values (integers
// 0-6 with Monday=0, numeric strings, or local-language day names) to
// a canonical set. Unrecognized entries are dropped silently.
func NormalizeExcludedWeekdays(values []interface{}) map[int]bool {
	out := make(map[int]bool)
	for _, v := range values {
		switch it := v.(type) {
		case int:
			if it >= 0 && it <= 6 {
				out[it] = true
			}
		case float64:
			n := int(it)
			if float64(n) == it && n >= 0 && n <= 6 {
				out[n] = true
			}
		case string:
			s := strings.ToLower(strings.TrimSpace(it))
			if n, err := strconv.Atoi(s); err == nil {
				if n >= 0 && n <= 6 {
					out[n] = true
				}
				continue
			}
			if n, ok := weekdayNames[s]; ok {
				out[n] = true
			}
		}
	}
	return out
}

// weekdayIndex maps time.Weekday (Sunday=0) onto the Monday=0 scheme
// used throughout planning.
func weekdayIndex(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}
