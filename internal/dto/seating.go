package dto

// SeatResponse is one student's seat within an exam event.
type SeatResponse struct {
	StudentID     string `json:"studentId"`
	StudentNumber string `json:"studentNumber"`
	StudentName   string `json:"studentName"`
	RoomID        string `json:"roomId"`
	RoomCode      string `json:"roomCode"`
	Row           int    `json:"row"`
	Column        int    `json:"column"`
}

// SeatingPlanResponse is the seat assignment outcome for one event.
type SeatingPlanResponse struct {
	EventID  string         `json:"eventId"`
	Seats    []SeatResponse `json:"seats"`
	Warnings []string       `json:"warnings"`
}

// RoomRequest creates or updates a room.
type RoomRequest struct {
	Code      string `json:"code" validate:"required"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity" validate:"required,min=1"`
	Width     int    `json:"width" validate:"required,min=1"`
	Depth     int    `json:"depth" validate:"required,min=1"`
	GroupSize int    `json:"groupSize" validate:"omitempty,oneof=2 3"`
}
