package scheduler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeStudents(n int) []SeatStudent {
	students := make([]SeatStudent, 0, n)
	for i := 1; i <= n; i++ {
		students = append(students, SeatStudent{
			ID:     fmt.Sprintf("s%03d", i),
			Number: fmt.Sprintf("2025%03d", i),
		})
	}
	return students
}

func TestAssignSeatsFillsSingleRoom(t *testing.T) {
	students := makeStudents(40)
	rooms := []SeatRoom{{ID: "r1", Code: "A101", Capacity: 40, Width: 8, Depth: 5, GroupSize: 2}}

	placements, warnings := AssignSeats(students, rooms)
	require.Len(t, placements, 40)
	assert.Empty(t, warnings)

	// every seat unique within the room
	seen := make(map[Seat]bool)
	for _, p := range placements {
		assert.Equal(t, "r1", p.RoomID)
		seat := Seat{Row: p.Row, Column: p.Column}
		assert.False(t, seen[seat], "seat %v assigned twice", seat)
		seen[seat] = true
	}

	// first four students of each row sit in odd columns
	assert.Equal(t, 1, placements[0].Column)
	assert.Equal(t, 3, placements[1].Column)
	assert.Equal(t, 5, placements[2].Column)
	assert.Equal(t, 7, placements[3].Column)
	assert.Equal(t, 2, placements[4].Column)
}

func TestAssignSeatsShortfall(t *testing.T) {
	students := makeStudents(50)
	rooms := []SeatRoom{
		{ID: "r1", Code: "A101", Capacity: 20, Width: 4, Depth: 5, GroupSize: 2},
		{ID: "r2", Code: "A102", Capacity: 10, Width: 2, Depth: 5, GroupSize: 2},
	}

	placements, warnings := AssignSeats(students, rooms)
	assert.Len(t, placements, 30)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "30 seats available for 50 students")
	assert.Contains(t, warnings[1], "20 students could not be seated")
}

func TestAssignSeatsLargestRoomFirst(t *testing.T) {
	students := makeStudents(12)
	rooms := []SeatRoom{
		{ID: "small", Code: "B1", Capacity: 6, Width: 3, Depth: 2, GroupSize: 2},
		{ID: "large", Code: "B2", Capacity: 10, Width: 5, Depth: 2, GroupSize: 2},
	}

	placements, warnings := AssignSeats(students, rooms)
	require.Len(t, placements, 12)
	assert.Empty(t, warnings)

	for i := 0; i < 10; i++ {
		assert.Equal(t, "large", placements[i].RoomID)
	}
	for i := 10; i < 12; i++ {
		assert.Equal(t, "small", placements[i].RoomID)
	}
}

func TestAssignSeatsNoStudents(t *testing.T) {
	placements, warnings := AssignSeats(nil, []SeatRoom{{ID: "r1", Width: 4, Depth: 4, GroupSize: 2}})
	assert.Empty(t, placements)
	assert.Equal(t, []string{"no students registered for this exam"}, warnings)
}

func TestAssignSeatsNoRooms(t *testing.T) {
	placements, warnings := AssignSeats(makeStudents(3), nil)
	assert.Empty(t, placements)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "0 seats available for 3 students")
	assert.Contains(t, warnings[1], "3 students could not be seated")
}

func TestAssignSeatsRosterOrderPreserved(t *testing.T) {
	students := makeStudents(5)
	rooms := []SeatRoom{{ID: "r1", Width: 3, Depth: 2, GroupSize: 2}}

	placements, _ := AssignSeats(students, rooms)
	require.Len(t, placements, 5)
	for i, p := range placements {
		assert.Equal(t, students[i].ID, p.StudentID)
	}
}
