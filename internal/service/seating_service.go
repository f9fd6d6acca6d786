package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/exam-planner-api/internal/dto"
	"github.com/noah-isme/exam-planner-api/internal/models"
	"github.com/noah-isme/exam-planner-api/internal/scheduler"
	appErrors "github.com/noah-isme/exam-planner-api/pkg/errors"
)

type seatingStudentRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Student, error)
}

type seatingSeatRepository interface {
	ReplaceForEvent(ctx context.Context, eventID string, seats []models.SeatAssignment) error
	ListByEvent(ctx context.Context, eventID string) ([]models.SeatAssignmentDetail, error)
}

// SeatingService runs seat assignment for exam events and serves
// seating plans cache-first.
type SeatingService struct {
	events   plannerEventRepository
	rooms    plannerRoomRepository
	students seatingStudentRepository
	seats    seatingSeatRepository
	cache    plannerCache
	logger   *zap.Logger
	metrics  *MetricsService
	cacheTTL time.Duration
}

// NewSeatingService constructs a SeatingService.
func NewSeatingService(
	events plannerEventRepository,
	rooms plannerRoomRepository,
	students seatingStudentRepository,
	seats seatingSeatRepository,
	cache plannerCache,
	logger *zap.Logger,
	metrics *MetricsService,
	cacheTTL time.Duration,
) *SeatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &SeatingService{
		events:   events,
		rooms:    rooms,
		students: students,
		seats:    seats,
		cache:    cache,
		logger:   logger,
		metrics:  metrics,
		cacheTTL: cacheTTL,
	}
}

func seatingCacheKey(eventID string) string {
	return fmt.Sprintf("seating:%s", eventID)
}

// Assign computes and persists the seat layout for one event,
// replacing any previous assignment wholesale.
func (s *SeatingService) Assign(ctx context.Context, departmentID, eventID string) (*dto.SeatingPlanResponse, error) {
	event, err := s.loadEvent(ctx, departmentID, eventID)
	if err != nil {
		return nil, err
	}

	roster, err := s.students.ListByCourse(ctx, event.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	seatRooms := make([]scheduler.SeatRoom, 0, len(event.RoomIDs))
	roomCodes := make(map[string]string, len(event.RoomIDs))
	for _, roomID := range event.RoomIDs {
		room, err := s.rooms.FindByID(ctx, roomID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "event room no longer exists")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
		}
		seatRooms = append(seatRooms, scheduler.SeatRoom{
			ID:        room.ID,
			Code:      room.Code,
			Capacity:  room.Capacity,
			Width:     room.Width,
			Depth:     room.Depth,
			GroupSize: room.GroupSize,
		})
		roomCodes[room.ID] = room.Code
	}

	seatStudents := make([]scheduler.SeatStudent, 0, len(roster))
	studentByID := make(map[string]models.Student, len(roster))
	for _, student := range roster {
		seatStudents = append(seatStudents, scheduler.SeatStudent{
			ID:       student.ID,
			Number:   student.Number,
			FullName: student.FullName,
		})
		studentByID[student.ID] = student
	}

	placements, warnings := scheduler.AssignSeats(seatStudents, seatRooms)

	seats := make([]models.SeatAssignment, 0, len(placements))
	for _, placement := range placements {
		seats = append(seats, models.SeatAssignment{
			EventID:   eventID,
			StudentID: placement.StudentID,
			RoomID:    placement.RoomID,
			Row:       placement.Row,
			Column:    placement.Column,
		})
	}
	if err := s.seats.ReplaceForEvent(ctx, eventID, seats); err != nil {
		s.metrics.RecordSeatingRun("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist seat assignments")
	}

	response := &dto.SeatingPlanResponse{EventID: eventID, Warnings: warnings, Seats: make([]dto.SeatResponse, 0, len(placements))}
	for _, placement := range placements {
		student := studentByID[placement.StudentID]
		response.Seats = append(response.Seats, dto.SeatResponse{
			StudentID:     placement.StudentID,
			StudentNumber: student.Number,
			StudentName:   student.FullName,
			RoomID:        placement.RoomID,
			RoomCode:      roomCodes[placement.RoomID],
			Row:           placement.Row,
			Column:        placement.Column,
		})
	}

	if err := s.cache.Set(ctx, seatingCacheKey(eventID), response, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache seating plan", zap.Error(err))
	}

	outcome := "ok"
	if len(warnings) > 0 {
		outcome = "partial"
	}
	s.metrics.RecordSeatingRun(outcome)
	s.logger.Info("seat assignment completed",
		zap.String("event_id", eventID),
		zap.Int("seats", len(seats)),
		zap.Int("warnings", len(warnings)))

	return response, nil
}

// Plan returns the stored seating plan for one event, cache-first.
func (s *SeatingService) Plan(ctx context.Context, departmentID, eventID string) (*dto.SeatingPlanResponse, error) {
	key := seatingCacheKey(eventID)
	var cached dto.SeatingPlanResponse
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		s.metrics.RecordCacheOperation("seating", "hit")
		return &cached, nil
	}
	s.metrics.RecordCacheOperation("seating", "miss")

	if _, err := s.loadEvent(ctx, departmentID, eventID); err != nil {
		return nil, err
	}

	details, err := s.seats.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load seating plan")
	}

	response := &dto.SeatingPlanResponse{EventID: eventID, Seats: make([]dto.SeatResponse, 0, len(details))}
	for _, detail := range details {
		response.Seats = append(response.Seats, dto.SeatResponse{
			StudentID:     detail.StudentID,
			StudentNumber: detail.StudentNumber,
			StudentName:   detail.StudentName,
			RoomID:        detail.RoomID,
			RoomCode:      detail.RoomCode,
			Row:           detail.Row,
			Column:        detail.Column,
		})
	}

	if err := s.cache.Set(ctx, key, response, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache seating plan", zap.Error(err))
	}
	return response, nil
}

func (s *SeatingService) loadEvent(ctx context.Context, departmentID, eventID string) (*models.ExamEvent, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam event")
	}
	if event.DepartmentID != departmentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "event belongs to another department")
	}
	return event, nil
}
