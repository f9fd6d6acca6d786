package scheduler

// Seat is a 1-indexed (row, column) position inside a room.
type Seat struct {
	Row    int
	Column int
}

// SeatSequence produces the order in which seats of a width×depth room
// are filled. Rows are visited front to back; within a row the column
// order is rearranged by desk group size so that partially filled rooms
// keep students apart:
//
//	group 2: odd columns first (1,3,5,...), then even (2,4,6,...)
//	group 3: columns ≡1 mod 3, then ≡2 mod 3, then ≡0 mod 3
//
// Any group size other than 3 normalizes to 2. Non-positive dimensions
// yield an empty sequence.
func SeatSequence(width, depth, groupSize int) []Seat {
	if width <= 0 || depth <= 0 {
		return nil
	}
	if groupSize != 3 {
		groupSize = 2
	}

	columns := make([]int, 0, width)
	if groupSize == 2 {
		for c := 1; c <= width; c += 2 {
			columns = append(columns, c)
		}
		for c := 2; c <= width; c += 2 {
			columns = append(columns, c)
		}
	} else {
		for offset := 1; offset <= 3; offset++ {
			for c := offset; c <= width; c += 3 {
				columns = append(columns, c)
			}
		}
	}

	seats := make([]Seat, 0, width*depth)
	for row := 1; row <= depth; row++ {
		for _, col := range columns {
			seats = append(seats, Seat{Row: row, Column: col})
		}
	}
	return seats
}
