package models

import "time"

// Course is an offering whose exams are scheduled per department.
type Course struct {
	ID           string    `db:"id" json:"id"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	Code         string    `db:"code" json:"code"`
	Title        string    `db:"title" json:"title"`
	Instructor   *string   `db:"instructor" json:"instructor,omitempty"`
	ClassYear    *int      `db:"class_year" json:"class_year,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CourseRoster is a course together with its enrolled student ids, the
// shape the planner consumes. ClassYear is inferred from the majority
// of enrolled students when the course record carries none.
type CourseRoster struct {
	Course
	StudentIDs []string `json:"student_ids"`
	Enrollment int      `json:"enrollment"`
}
