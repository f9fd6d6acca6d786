package scheduler

import (
	"fmt"
	"sort"
)

// SeatStudent identifies one roster entry for an exam event.
type SeatStudent struct {
	ID       string
	Number   string
	FullName string
}

// SeatRoom describes a room assigned to an exam event.
type SeatRoom struct {
	ID        string
	Code      string
	Capacity  int
	Width     int
	Depth     int
	GroupSize int
}

// SeatPlacement binds one student to a seat inside a room.
type SeatPlacement struct {
	StudentID string
	RoomID    string
	Row       int
	Column    int
}

// AssignSeats distributes the roster across the event's rooms. Larger
// rooms are filled first so the dispersion pattern is fragmented across
// as few rooms as possible. Shortfalls never abort the run; they are
// reported as warnings alongside the partial result.
func AssignSeats(students []SeatStudent, rooms []SeatRoom) ([]SeatPlacement, []string) {
	var warnings []string

	sequences := make(map[string][]Seat, len(rooms))
	totalSeats := 0
	for _, room := range rooms {
		seq := SeatSequence(room.Width, room.Depth, room.GroupSize)
		sequences[room.ID] = seq
		totalSeats += len(seq)
	}

	if totalSeats < len(students) {
		warnings = append(warnings, fmt.Sprintf(
			"insufficient capacity: %d seats available for %d students", totalSeats, len(students)))
	}

	if len(students) == 0 {
		return nil, []string{"no students registered for this exam"}
	}

	ordered := make([]SeatRoom, len(rooms))
	copy(ordered, rooms)
	sort.SliceStable(ordered, func(i, j int) bool {
		ci := roomSeatCount(ordered[i], sequences)
		cj := roomSeatCount(ordered[j], sequences)
		if ci != cj {
			return ci > cj
		}
		return ordered[i].ID < ordered[j].ID
	})

	placements := make([]SeatPlacement, 0, len(students))
	next := 0
	for _, room := range ordered {
		for _, seat := range sequences[room.ID] {
			if next >= len(students) {
				break
			}
			placements = append(placements, SeatPlacement{
				StudentID: students[next].ID,
				RoomID:    room.ID,
				Row:       seat.Row,
				Column:    seat.Column,
			})
			next++
		}
		if next >= len(students) {
			break
		}
	}

	if next < len(students) {
		warnings = append(warnings, fmt.Sprintf(
			"%d students could not be seated (all rooms full)", len(students)-next))
	}

	return placements, warnings
}

// roomSeatCount prefers the declared capacity when present and falls
// back to the generated sequence length, matching how rooms without a
// capacity figure are ranked.
func roomSeatCount(room SeatRoom, sequences map[string][]Seat) int {
	if room.Capacity > 0 {
		return room.Capacity
	}
	return len(sequences[room.ID])
}
