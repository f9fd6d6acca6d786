package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC)
}

func ids(prefix string, n int) []string {
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, fmt.Sprintf("%s-%d", prefix, i))
	}
	return out
}

func baseConstraints() Constraints {
	return Constraints{
		StartDate:              day(7), // a Monday
		EndDate:                day(7),
		Slots:                  []TimeOfDay{{Hour: 9}},
		DefaultDurationMinutes: 75,
	}
}

func TestPlanSingleCourseSingleRoom(t *testing.T) {
	courses := []PlanCourse{{ID: "c1", Code: "MAT101", StudentIDs: ids("s", 40)}}
	rooms := []PlanRoom{{ID: "r1", Code: "A101", Capacity: 40}}

	result := Plan(baseConstraints(), courses, rooms)
	require.Len(t, result.Placements, 1)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Unplaced)
	assert.False(t, result.Fatal)

	p := result.Placements[0]
	assert.Equal(t, "c1", p.CourseID)
	assert.Equal(t, time.Date(2025, 4, 7, 9, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2025, 4, 7, 10, 15, 0, 0, time.UTC), p.End)
	assert.Equal(t, []string{"r1"}, p.RoomIDs)
}

func TestPlanSharedStudentCannotSitTwoExamsAtOnce(t *testing.T) {
	courses := []PlanCourse{
		{ID: "c1", Code: "MAT101", StudentIDs: []string{"shared", "s2", "s3"}},
		{ID: "c2", Code: "FIZ102", StudentIDs: []string{"shared", "s4"}},
	}
	rooms := []PlanRoom{
		{ID: "r1", Code: "A101", Capacity: 30},
		{ID: "r2", Code: "A102", Capacity: 30},
	}

	result := Plan(baseConstraints(), courses, rooms)
	require.Len(t, result.Placements, 1)
	assert.Equal(t, "c1", result.Placements[0].CourseID)
	assert.Equal(t, []string{"c2"}, result.Unplaced)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[len(result.Warnings)-1], "FIZ102")
}

func TestPlanSharedStudentResolvedByLaterSlot(t *testing.T) {
	c := baseConstraints()
	c.Slots = []TimeOfDay{{Hour: 9}, {Hour: 13}}
	courses := []PlanCourse{
		{ID: "c1", Code: "MAT101", StudentIDs: []string{"shared", "s2", "s3"}},
		{ID: "c2", Code: "FIZ102", StudentIDs: []string{"shared", "s4"}},
	}
	rooms := []PlanRoom{{ID: "r1", Code: "A101", Capacity: 30}}

	result := Plan(c, courses, rooms)
	require.Len(t, result.Placements, 2)
	assert.Empty(t, result.Unplaced)
	assert.False(t, Overlaps(
		result.Placements[0].Start, result.Placements[0].End,
		result.Placements[1].Start, result.Placements[1].End))
}

func TestPlanNoParallelOneCoursePerDay(t *testing.T) {
	c := baseConstraints()
	c.EndDate = day(9)
	c.NoParallel = true
	courses := []PlanCourse{
		{ID: "c1", Code: "A", StudentIDs: ids("a", 3)},
		{ID: "c2", Code: "B", StudentIDs: ids("b", 2)},
		{ID: "c3", Code: "C", StudentIDs: ids("c", 1)},
	}
	rooms := []PlanRoom{{ID: "r1", Code: "A101", Capacity: 10}}

	result := Plan(c, courses, rooms)
	require.Len(t, result.Placements, 3)
	assert.Empty(t, result.Unplaced)

	days := make(map[string]int)
	for _, p := range result.Placements {
		days[p.Start.Format("2006-01-02")]++
	}
	assert.Len(t, days, 3)
	for _, count := range days {
		assert.Equal(t, 1, count)
	}
}

func TestPlanSkipsExcludedWeekdays(t *testing.T) {
	c := baseConstraints()
	c.StartDate = day(5) // Saturday
	c.EndDate = day(7)   // Monday
	c.ExcludedWeekdays = map[int]bool{5: true, 6: true}
	courses := []PlanCourse{{ID: "c1", Code: "MAT101", StudentIDs: ids("s", 5)}}
	rooms := []PlanRoom{{ID: "r1", Code: "A101", Capacity: 10}}

	result := Plan(c, courses, rooms)
	require.Len(t, result.Placements, 1)
	assert.Equal(t, time.Monday, result.Placements[0].Start.Weekday())
}

func TestPlanCapacityRespected(t *testing.T) {
	courses := []PlanCourse{{ID: "big", Code: "BIO201", StudentIDs: ids("s", 60)}}
	rooms := []PlanRoom{{ID: "r1", Code: "A101", Capacity: 40}}

	result := Plan(baseConstraints(), courses, rooms)
	assert.Empty(t, result.Placements)
	assert.Equal(t, []string{"big"}, result.Unplaced)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "BIO201")
	assert.Contains(t, result.Warnings[0], "2025-04-07")
	assert.Contains(t, result.Warnings[0], "09:00")
}

func TestPlanLargerCoursesGetRoomsFirst(t *testing.T) {
	// One big room, one small; the larger course must win the big room.
	courses := []PlanCourse{
		{ID: "small", Code: "SML", StudentIDs: ids("a", 10)},
		{ID: "large", Code: "LRG", StudentIDs: ids("b", 50)},
	}
	rooms := []PlanRoom{
		{ID: "big", Code: "AUD", Capacity: 60},
		{ID: "tiny", Code: "LAB", Capacity: 12},
	}

	result := Plan(baseConstraints(), courses, rooms)
	require.Len(t, result.Placements, 2)
	byCourse := make(map[string]string)
	for _, p := range result.Placements {
		byCourse[p.CourseID] = p.RoomIDs[0]
	}
	assert.Equal(t, "big", byCourse["large"])
	assert.Equal(t, "tiny", byCourse["small"])
}

func TestPlanBalancesRoomUsage(t *testing.T) {
	c := baseConstraints()
	c.Slots = []TimeOfDay{{Hour: 9}, {Hour: 11}}
	c.NoParallel = true
	courses := []PlanCourse{
		{ID: "c1", Code: "A", StudentIDs: ids("a", 5)},
		{ID: "c2", Code: "B", StudentIDs: ids("b", 5)},
	}
	rooms := []PlanRoom{
		{ID: "r1", Code: "A101", Capacity: 10},
		{ID: "r2", Code: "A102", Capacity: 10},
	}

	result := Plan(c, courses, rooms)
	require.Len(t, result.Placements, 2)
	// Least-used room preferred: second exam lands in the other room
	// even though the first room is free again at 11:00.
	assert.NotEqual(t, result.Placements[0].RoomIDs[0], result.Placements[1].RoomIDs[0])
}

func TestPlanDurationOverrides(t *testing.T) {
	c := baseConstraints()
	c.DurationOverrides = map[string]int{"c1": 120}
	courses := []PlanCourse{{ID: "c1", Code: "MAT101", StudentIDs: ids("s", 5)}}
	rooms := []PlanRoom{{ID: "r1", Code: "A101", Capacity: 10}}

	result := Plan(c, courses, rooms)
	require.Len(t, result.Placements, 1)
	assert.Equal(t, 120*time.Minute, result.Placements[0].End.Sub(result.Placements[0].Start))
}

func TestPlanAllowListRestrictsCourses(t *testing.T) {
	c := baseConstraints()
	c.IncludeCourseIDs = []string{"c2"}
	courses := []PlanCourse{
		{ID: "c1", Code: "A", StudentIDs: ids("a", 5)},
		{ID: "c2", Code: "B", StudentIDs: ids("b", 5)},
	}
	rooms := []PlanRoom{{ID: "r1", Code: "A101", Capacity: 10}}

	result := Plan(c, courses, rooms)
	require.Len(t, result.Placements, 1)
	assert.Equal(t, "c2", result.Placements[0].CourseID)
	assert.Empty(t, result.Unplaced)
}

func TestPlanDeterministicAcrossRuns(t *testing.T) {
	c := baseConstraints()
	c.EndDate = day(11)
	c.Slots = []TimeOfDay{{Hour: 9}, {Hour: 11}, {Hour: 14}}
	var courses []PlanCourse
	for i := 1; i <= 8; i++ {
		courses = append(courses, PlanCourse{
			ID:         fmt.Sprintf("c%d", i),
			Code:       fmt.Sprintf("CRS%d", i),
			StudentIDs: ids(fmt.Sprintf("g%d", i%3), 10+i),
		})
	}
	rooms := []PlanRoom{
		{ID: "r1", Code: "A101", Capacity: 30},
		{ID: "r2", Code: "A102", Capacity: 20},
	}

	first := Plan(c, courses, rooms)
	second := Plan(c, courses, rooms)
	assert.Equal(t, first, second)
}

func TestPlanNoDoubleBookedRooms(t *testing.T) {
	c := baseConstraints()
	c.EndDate = day(8)
	c.Slots = []TimeOfDay{{Hour: 9}, {Hour: 11}}
	var courses []PlanCourse
	for i := 1; i <= 6; i++ {
		courses = append(courses, PlanCourse{
			ID:         fmt.Sprintf("c%d", i),
			Code:       fmt.Sprintf("CRS%d", i),
			StudentIDs: ids(fmt.Sprintf("c%d", i), 8),
		})
	}
	rooms := []PlanRoom{
		{ID: "r1", Code: "A101", Capacity: 10},
		{ID: "r2", Code: "A102", Capacity: 10},
	}

	result := Plan(c, courses, rooms)
	for i, a := range result.Placements {
		for j, b := range result.Placements {
			if i >= j || a.RoomIDs[0] != b.RoomIDs[0] {
				continue
			}
			assert.False(t, Overlaps(a.Start, a.End, b.Start, b.End),
				"room %s double-booked by %s and %s", a.RoomIDs[0], a.CourseID, b.CourseID)
		}
	}
}
