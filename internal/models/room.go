package models

import "time"

// Room is a physical classroom usable for exams. Width counts columns,
// Depth counts rows; GroupSize (2 or 3) describes how many seats share
// one desk and drives the dispersion fill order.
type Room struct {
	ID           string    `db:"id" json:"id"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	Code         string    `db:"code" json:"code"`
	Name         string    `db:"name" json:"name"`
	Capacity     int       `db:"capacity" json:"capacity"`
	Width        int       `db:"width" json:"width"`
	Depth        int       `db:"depth" json:"depth"`
	GroupSize    int       `db:"group_size" json:"group_size"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
