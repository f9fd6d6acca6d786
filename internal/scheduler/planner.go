package scheduler

import (
	"fmt"
	"sort"
	"time"
)

const defaultDurationMinutes = 75

// PlanCourse is a course competing for a slot in the exam timetable.
// Enrollment falls back to len(StudentIDs) when zero.
type PlanCourse struct {
	ID         string
	Code       string
	Title      string
	Instructor string
	ClassYear  int
	StudentIDs []string
	Enrollment int
}

func (c PlanCourse) enrollment() int {
	if c.Enrollment > 0 {
		return c.Enrollment
	}
	return len(c.StudentIDs)
}

// PlanRoom is a room usable for exam placement.
type PlanRoom struct {
	ID       string
	Code     string
	Capacity int
}

// Constraints is the canonical, alias-free planning configuration.
// Callers normalize any legacy field names before building one.
type Constraints struct {
	StartDate        time.Time
	EndDate          time.Time
	Slots            []TimeOfDay
	ExcludedWeekdays map[int]bool

	DefaultDurationMinutes int
	DurationOverrides      map[string]int

	// BufferMinutes is carried through to persisted events but is not
	// enforced during placement. Promoting it to a hard constraint
	// (widening each student's occupied interval) would reshuffle
	// existing schedules, so it stays informational for now.
	BufferMinutes int

	NoParallel       bool
	IncludeCourseIDs []string
}

// Placement binds a course to a concrete interval and room set.
type Placement struct {
	CourseID string
	Start    time.Time
	End      time.Time
	RoomIDs  []string
}

// PlanResult is the full outcome of one planning run. Fatal is
// reserved for future unrecoverable validation failures and is always
// false today; shortfalls surface through Warnings and Unplaced.
type PlanResult struct {
	Placements []Placement
	Warnings   []string
	Unplaced   []string
	Fatal      bool
}

type interval struct {
	start time.Time
	end   time.Time
}

func anyOverlap(busy []interval, start, end time.Time) bool {
	for _, iv := range busy {
		if Overlaps(start, end, iv.start, iv.end) {
			return true
		}
	}
	return false
}

// Plan computes a conflict-free exam timetable in a single pass.
// Courses with more students are placed first; each placement picks
// the least-used qualifying room, breaking ties toward the smallest
// capacity so large rooms stay available for large courses. The run
// never fails outright: courses that cannot be placed are reported
// back with warnings.
func Plan(c Constraints, courses []PlanCourse, rooms []PlanRoom) PlanResult {
	result := PlanResult{}

	if len(c.IncludeCourseIDs) > 0 {
		allowed := make(map[string]bool, len(c.IncludeCourseIDs))
		for _, id := range c.IncludeCourseIDs {
			allowed[id] = true
		}
		filtered := make([]PlanCourse, 0, len(courses))
		for _, course := range courses {
			if allowed[course.ID] {
				filtered = append(filtered, course)
			}
		}
		courses = filtered
	}

	defaultDuration := c.DefaultDurationMinutes
	if defaultDuration <= 0 {
		defaultDuration = defaultDurationMinutes
	}

	remaining := make([]PlanCourse, len(courses))
	copy(remaining, courses)
	sort.SliceStable(remaining, func(i, j int) bool {
		if remaining[i].enrollment() != remaining[j].enrollment() {
			return remaining[i].enrollment() > remaining[j].enrollment()
		}
		return remaining[i].ID < remaining[j].ID
	})

	orderedRooms := make([]PlanRoom, len(rooms))
	copy(orderedRooms, rooms)
	sort.SliceStable(orderedRooms, func(i, j int) bool {
		if orderedRooms[i].Capacity != orderedRooms[j].Capacity {
			return orderedRooms[i].Capacity > orderedRooms[j].Capacity
		}
		return orderedRooms[i].ID < orderedRooms[j].ID
	})

	roomBusy := make(map[string][]interval)
	studentBusy := make(map[string][]interval)
	roomUsage := make(map[string]int, len(orderedRooms))
	for _, room := range orderedRooms {
		roomUsage[room.ID] = 0
	}

	for day := c.StartDate; !day.After(c.EndDate); day = day.AddDate(0, 0, 1) {
		if c.ExcludedWeekdays[weekdayIndex(day)] {
			continue
		}

		for _, slot := range c.Slots {
			if len(remaining) == 0 {
				break
			}

			maxThisSlot := len(remaining)
			if c.NoParallel {
				maxThisSlot = 1
			}

			placedThisSlot := 0
			var still []PlanCourse
			for idx, course := range remaining {
				if placedThisSlot >= maxThisSlot {
					still = append(still, remaining[idx:]...)
					break
				}

				duration := defaultDuration
				if override, ok := c.DurationOverrides[course.ID]; ok && override > 0 {
					duration = override
				}
				start := slot.At(day)
				end := start.Add(time.Duration(duration) * time.Minute)

				if studentsBusy(studentBusy, course.StudentIDs, start, end) {
					still = append(still, course)
					continue
				}

				roomID := pickRoom(orderedRooms, roomBusy, roomUsage, course.enrollment(), start, end)
				if roomID == "" {
					result.Warnings = append(result.Warnings, fmt.Sprintf(
						"no available room with capacity for course %s on %s at %s",
						course.Code, day.Format("2006-01-02"), slot))
					still = append(still, course)
					continue
				}

				result.Placements = append(result.Placements, Placement{
					CourseID: course.ID,
					Start:    start,
					End:      end,
					RoomIDs:  []string{roomID},
				})
				roomBusy[roomID] = append(roomBusy[roomID], interval{start: start, end: end})
				for _, studentID := range course.StudentIDs {
					studentBusy[studentID] = append(studentBusy[studentID], interval{start: start, end: end})
				}
				roomUsage[roomID]++
				placedThisSlot++
			}
			remaining = still
		}
	}

	for _, course := range remaining {
		result.Unplaced = append(result.Unplaced, course.ID)
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"course %s could not be placed within the planning range", course.Code))
	}

	return result
}

func studentsBusy(studentBusy map[string][]interval, studentIDs []string, start, end time.Time) bool {
	for _, id := range studentIDs {
		if anyOverlap(studentBusy[id], start, end) {
			return true
		}
	}
	return false
}

// pickRoom returns the least-used free room with enough capacity,
// preferring the smallest qualifying capacity on equal usage.
func pickRoom(rooms []PlanRoom, roomBusy map[string][]interval, roomUsage map[string]int, needed int, start, end time.Time) string {
	var candidates []PlanRoom
	for _, room := range rooms {
		if room.Capacity < needed {
			continue
		}
		if anyOverlap(roomBusy[room.ID], start, end) {
			continue
		}
		candidates = append(candidates, room)
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ui, uj := roomUsage[candidates[i].ID], roomUsage[candidates[j].ID]
		if ui != uj {
			return ui < uj
		}
		if candidates[i].Capacity != candidates[j].Capacity {
			return candidates[i].Capacity < candidates[j].Capacity
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates[0].ID
}
