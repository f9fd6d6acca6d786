package dto

import (
	"time"

	"github.com/noah-isme/exam-planner-api/internal/scheduler"
)

// CourseDuration overrides the exam duration for one course.
type CourseDuration struct {
	CourseID string `json:"courseId" validate:"required"`
	Minutes  int    `json:"minutes" validate:"required,min=1"`
}

// PlanExamsRequest configures one planning run. Several fields accept
// legacy alias names kept from the pre-migration clients; Normalize
// collapses them into a canonical scheduler.Constraints, with the
// canonical field winning whenever both are supplied.
type PlanExamsRequest struct {
	ExamType  string `json:"examType" validate:"required,oneof=midterm final makeup"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`

	Slots      []string `json:"slots" validate:"omitempty,min=1"`
	DailySlots []string `json:"dailySlots"` // legacy alias for slots

	DefaultDurationMinutes *int `json:"defaultDurationMinutes" validate:"omitempty,min=1,max=600"`
	DurationMinutes        *int `json:"durationMinutes"` // legacy alias
	ExamDurationMinutes    *int `json:"examDurationMinutes"` // legacy alias

	BufferMinutes *int `json:"bufferMinutes" validate:"omitempty,min=0,max=600"`
	WaitMinutes   *int `json:"waitMinutes"` // legacy alias

	NoParallel    *bool `json:"noParallel"`
	SingleSession *bool `json:"singleSession"` // legacy alias
	SingleSitting *bool `json:"singleSitting"` // legacy alias

	// ExcludedWeekdays accepts integers 0-6 (Monday=0), numeric
	// strings, or local-language day names.
	ExcludedWeekdays []interface{} `json:"excludedWeekdays"`

	CourseDurations       map[string]int   `json:"courseDurations"`
	CourseDurationList    []CourseDuration `json:"courseDurationOverrides"` // legacy alias
	IncludeCourseIDs      []string         `json:"courseIds"`
	ReplaceExistingEvents bool             `json:"replace"`
}

// Normalize resolves aliases and parses dates/slots into the canonical
// constraint set the planner consumes. Malformed slot strings are
// skipped rather than rejected. The returned error only covers date
// parsing; everything else degrades to defaults.
func (r PlanExamsRequest) Normalize() (scheduler.Constraints, error) {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return scheduler.Constraints{}, err
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return scheduler.Constraints{}, err
	}

	rawSlots := r.Slots
	if len(rawSlots) == 0 {
		rawSlots = r.DailySlots
	}
	slots := make([]scheduler.TimeOfDay, 0, len(rawSlots))
	for _, raw := range rawSlots {
		if slot, ok := scheduler.ParseTimeOfDay(raw); ok {
			slots = append(slots, slot)
		}
	}

	overrides := r.CourseDurations
	if len(overrides) == 0 && len(r.CourseDurationList) > 0 {
		overrides = make(map[string]int, len(r.CourseDurationList))
		for _, item := range r.CourseDurationList {
			if item.CourseID != "" && item.Minutes > 0 {
				overrides[item.CourseID] = item.Minutes
			}
		}
	}

	return scheduler.Constraints{
		StartDate:              start,
		EndDate:                end,
		Slots:                  slots,
		ExcludedWeekdays:       scheduler.NormalizeExcludedWeekdays(r.ExcludedWeekdays),
		DefaultDurationMinutes: firstInt(r.DefaultDurationMinutes, r.DurationMinutes, r.ExamDurationMinutes),
		DurationOverrides:      overrides,
		BufferMinutes:          firstInt(r.BufferMinutes, r.WaitMinutes),
		NoParallel:             firstBool(r.NoParallel, r.SingleSession, r.SingleSitting),
		IncludeCourseIDs:       r.IncludeCourseIDs,
	}, nil
}

func firstInt(values ...*int) int {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

func firstBool(values ...*bool) bool {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return false
}

// PlacementResponse is one scheduled exam in the plan output.
type PlacementResponse struct {
	CourseID   string    `json:"courseId"`
	CourseCode string    `json:"courseCode"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	RoomIDs    []string  `json:"roomIds"`
	EventID    string    `json:"eventId,omitempty"`
}

// PlanExamsResponse summarises a completed planning run.
type PlanExamsResponse struct {
	ExamType   string              `json:"examType"`
	Placements []PlacementResponse `json:"placements"`
	Unplaced   []string            `json:"unplacedCourseIds"`
	Warnings   []string            `json:"warnings"`
	Fatal      bool                `json:"fatal"`
}

// ManualExamRequest creates one exam event outside a planning run.
type ManualExamRequest struct {
	CourseID      string   `json:"courseId" validate:"required"`
	ExamType      string   `json:"examType" validate:"required,oneof=midterm final makeup"`
	Start         string   `json:"start" validate:"required"`
	End           string   `json:"end" validate:"required"`
	RoomIDs       []string `json:"roomIds" validate:"required,min=1"`
	BufferMinutes int      `json:"bufferMinutes" validate:"omitempty,min=0"`
}
