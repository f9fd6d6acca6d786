package models

import "time"

// Student is a learner registered within one department.
type Student struct {
	ID           string    `db:"id" json:"id"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	Number       string    `db:"number" json:"number"`
	FullName     string    `db:"full_name" json:"full_name"`
	ClassYear    *int      `db:"class_year" json:"class_year,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StudentCourses pairs a student with the courses they are enrolled in.
type StudentCourses struct {
	Student Student  `json:"student"`
	Courses []Course `json:"courses"`
}
