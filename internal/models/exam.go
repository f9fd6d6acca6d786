package models

import "time"

// Exam type labels distinguishing scheduled rounds for a course.
const (
	ExamTypeMidterm = "midterm"
	ExamTypeFinal   = "final"
	ExamTypeMakeup  = "makeup"
)

// ExamEvent is one scheduled exam: a course bound to a concrete time
// interval and a set of rooms. A course has at most one event per exam
// type within a department. BufferMinutes is informational metadata
// persisted alongside the event; it is not enforced during placement.
type ExamEvent struct {
	ID              string    `db:"id" json:"id"`
	DepartmentID    string    `db:"department_id" json:"department_id"`
	CourseID        string    `db:"course_id" json:"course_id"`
	ExamType        string    `db:"exam_type" json:"exam_type"`
	StartAt         time.Time `db:"start_at" json:"start_at"`
	EndAt           time.Time `db:"end_at" json:"end_at"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	BufferMinutes   int       `db:"buffer_minutes" json:"buffer_minutes"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`

	RoomIDs []string `db:"-" json:"room_ids"`
}

// ExamEventDetail joins event rows with course identification for
// schedule listings.
type ExamEventDetail struct {
	ExamEvent
	CourseCode  string  `db:"course_code" json:"course_code"`
	CourseTitle string  `db:"course_title" json:"course_title"`
	Instructor  *string `db:"instructor" json:"instructor,omitempty"`
}

// SeatAssignment places one student at a seat for one exam event. The
// room must belong to the event's assigned room set and the (room,
// row, column) triple is unique within the event.
type SeatAssignment struct {
	EventID   string `db:"event_id" json:"event_id"`
	StudentID string `db:"student_id" json:"student_id"`
	RoomID    string `db:"room_id" json:"room_id"`
	Row       int    `db:"row_no" json:"row"`
	Column    int    `db:"col_no" json:"column"`
}

// SeatAssignmentDetail joins a seat with student and room display
// fields for seating plan output.
type SeatAssignmentDetail struct {
	SeatAssignment
	StudentNumber string `db:"student_number" json:"student_number"`
	StudentName   string `db:"student_name" json:"student_name"`
	RoomCode      string `db:"room_code" json:"room_code"`
}
