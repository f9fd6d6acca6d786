package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-planner-api/internal/dto"
	"github.com/noah-isme/exam-planner-api/internal/models"
	"github.com/noah-isme/exam-planner-api/internal/scheduler"
	"github.com/noah-isme/exam-planner-api/pkg/config"
	appErrors "github.com/noah-isme/exam-planner-api/pkg/errors"
)

type plannerCourseRepository interface {
	ListWithRoster(ctx context.Context, departmentID string) ([]models.CourseRoster, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type plannerRoomRepository interface {
	ListByDepartment(ctx context.Context, departmentID string) ([]models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

type plannerEventRepository interface {
	CreateWithRooms(ctx context.Context, event *models.ExamEvent) error
	ListByType(ctx context.Context, departmentID, examType string) ([]models.ExamEventDetail, error)
	FindByID(ctx context.Context, id string) (*models.ExamEvent, error)
	DeleteByType(ctx context.Context, departmentID, examType string) (int64, error)
	DeleteByCourseAndType(ctx context.Context, departmentID, courseID, examType string) error
}

type plannerCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// PlannerService runs planning, manages the persisted schedule and
// serves schedule reads through the cache.
type PlannerService struct {
	courses   plannerCourseRepository
	rooms     plannerRoomRepository
	events    plannerEventRepository
	cache     plannerCache
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	defaults  config.PlannerConfig
}

// NewPlannerService constructs a PlannerService.
func NewPlannerService(
	courses plannerCourseRepository,
	rooms plannerRoomRepository,
	events plannerEventRepository,
	cache plannerCache,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics *MetricsService,
	defaults config.PlannerConfig,
) *PlannerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PlannerService{
		courses:   courses,
		rooms:     rooms,
		events:    events,
		cache:     cache,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		defaults:  defaults,
	}
}

func scheduleCacheKey(departmentID, examType string) string {
	return fmt.Sprintf("schedule:%s:%s", departmentID, examType)
}

// PlanExams runs the planner over the department's courses and rooms
// and persists the resulting events. When the request asks for a
// replace, the existing schedule for that exam type is cleared first.
func (s *PlannerService) PlanExams(ctx context.Context, departmentID string, req dto.PlanExamsRequest) (*dto.PlanExamsResponse, error) {
	started := time.Now()

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid planning payload")
	}

	constraints, err := req.Normalize()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid planning dates")
	}
	if constraints.EndDate.Before(constraints.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date precedes start date")
	}
	s.applyDefaults(&constraints)
	if len(constraints.Slots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no usable daily slots")
	}

	rosters, err := s.courses.ListWithRoster(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	rooms, err := s.rooms.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}

	planCourses := make([]scheduler.PlanCourse, 0, len(rosters))
	codeByID := make(map[string]string, len(rosters))
	for _, roster := range rosters {
		course := scheduler.PlanCourse{
			ID:         roster.ID,
			Code:       roster.Code,
			Title:      roster.Title,
			StudentIDs: roster.StudentIDs,
			Enrollment: roster.Enrollment,
		}
		if roster.Instructor != nil {
			course.Instructor = *roster.Instructor
		}
		if roster.ClassYear != nil {
			course.ClassYear = *roster.ClassYear
		}
		planCourses = append(planCourses, course)
		codeByID[roster.ID] = roster.Code
	}

	planRooms := make([]scheduler.PlanRoom, 0, len(rooms))
	for _, room := range rooms {
		planRooms = append(planRooms, scheduler.PlanRoom{ID: room.ID, Code: room.Code, Capacity: room.Capacity})
	}

	result := scheduler.Plan(constraints, planCourses, planRooms)

	if req.ReplaceExistingEvents {
		if _, err := s.events.DeleteByType(ctx, departmentID, req.ExamType); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear previous schedule")
		}
	}

	response := &dto.PlanExamsResponse{
		ExamType: req.ExamType,
		Unplaced: result.Unplaced,
		Warnings: result.Warnings,
		Fatal:    result.Fatal,
	}

	for _, placement := range result.Placements {
		event := &models.ExamEvent{
			DepartmentID:    departmentID,
			CourseID:        placement.CourseID,
			ExamType:        req.ExamType,
			StartAt:         placement.Start,
			EndAt:           placement.End,
			DurationMinutes: int(placement.End.Sub(placement.Start).Minutes()),
			BufferMinutes:   constraints.BufferMinutes,
			RoomIDs:         placement.RoomIDs,
		}
		if err := s.events.CreateWithRooms(ctx, event); err != nil {
			if errors.Is(err, appErrors.ErrRoomOverlap) {
				response.Warnings = append(response.Warnings, fmt.Sprintf(
					"course %s skipped: %s", codeByID[placement.CourseID], appErrors.ErrRoomOverlap.Message))
				response.Unplaced = append(response.Unplaced, placement.CourseID)
				continue
			}
			s.metrics.ObservePlanRun(time.Since(started), "error")
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist exam event")
		}
		response.Placements = append(response.Placements, dto.PlacementResponse{
			CourseID:   placement.CourseID,
			CourseCode: codeByID[placement.CourseID],
			Start:      placement.Start,
			End:        placement.End,
			RoomIDs:    placement.RoomIDs,
			EventID:    event.ID,
		})
	}

	s.invalidateSchedule(ctx, departmentID, req.ExamType)

	outcome := "ok"
	if len(response.Unplaced) > 0 {
		outcome = "partial"
	}
	s.metrics.ObservePlanRun(time.Since(started), outcome)
	s.logger.Info("planning run completed",
		zap.String("department_id", departmentID),
		zap.String("exam_type", req.ExamType),
		zap.Int("placed", len(response.Placements)),
		zap.Int("unplaced", len(response.Unplaced)))

	return response, nil
}

func (s *PlannerService) applyDefaults(c *scheduler.Constraints) {
	if len(c.Slots) == 0 {
		for _, raw := range s.defaults.DefaultSlots {
			if slot, ok := scheduler.ParseTimeOfDay(raw); ok {
				c.Slots = append(c.Slots, slot)
			}
		}
	}
	if c.DefaultDurationMinutes <= 0 {
		c.DefaultDurationMinutes = s.defaults.DefaultDurationMinutes
	}
	if c.BufferMinutes <= 0 {
		c.BufferMinutes = s.defaults.DefaultBufferMinutes
	}
}

// Schedule returns the department's schedule for one exam type,
// cache-first.
func (s *PlannerService) Schedule(ctx context.Context, departmentID, examType string) ([]models.ExamEventDetail, error) {
	if !validExamType(examType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown exam type")
	}

	key := scheduleCacheKey(departmentID, examType)
	var cached []models.ExamEventDetail
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		s.metrics.RecordCacheOperation("schedule", "hit")
		return cached, nil
	}
	s.metrics.RecordCacheOperation("schedule", "miss")

	events, err := s.events.ListByType(ctx, departmentID, examType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	if err := s.cache.Set(ctx, key, events, 10*time.Minute); err != nil {
		s.logger.Warn("failed to cache schedule", zap.Error(err))
	}
	return events, nil
}

// CreateManualExam persists a single hand-entered exam event.
func (s *PlannerService) CreateManualExam(ctx context.Context, departmentID string, req dto.ManualExamRequest) (*models.ExamEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}

	start, err := parseEventTime(req.Start)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start time")
	}
	end, err := parseEventTime(req.End)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid end time")
	}
	if !end.After(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end must be after start")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course.DepartmentID != departmentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course belongs to another department")
	}

	for _, roomID := range req.RoomIDs {
		room, err := s.rooms.FindByID(ctx, roomID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
		}
		if room.DepartmentID != departmentID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "room belongs to another department")
		}
	}

	// a manual entry replaces any planned event for the same round
	if err := s.events.DeleteByCourseAndType(ctx, departmentID, req.CourseID, req.ExamType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace existing event")
	}

	event := &models.ExamEvent{
		DepartmentID:    departmentID,
		CourseID:        req.CourseID,
		ExamType:        req.ExamType,
		StartAt:         start,
		EndAt:           end,
		DurationMinutes: int(end.Sub(start).Minutes()),
		BufferMinutes:   req.BufferMinutes,
		RoomIDs:         req.RoomIDs,
	}
	if err := s.events.CreateWithRooms(ctx, event); err != nil {
		if errors.Is(err, appErrors.ErrRoomOverlap) {
			return nil, appErrors.ErrRoomOverlap
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist exam event")
	}

	s.invalidateSchedule(ctx, departmentID, req.ExamType)
	return event, nil
}

// ClearSchedule removes every event for the exam type. Seat
// assignments cascade away with their events.
func (s *PlannerService) ClearSchedule(ctx context.Context, departmentID, examType string) (int64, error) {
	if !validExamType(examType) {
		return 0, appErrors.Clone(appErrors.ErrValidation, "unknown exam type")
	}
	removed, err := s.events.DeleteByType(ctx, departmentID, examType)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear schedule")
	}
	s.invalidateSchedule(ctx, departmentID, examType)
	s.logger.Info("schedule cleared",
		zap.String("department_id", departmentID),
		zap.String("exam_type", examType),
		zap.Int64("events_removed", removed))
	return removed, nil
}

func (s *PlannerService) invalidateSchedule(ctx context.Context, departmentID, examType string) {
	if err := s.cache.DeleteByPattern(ctx, scheduleCacheKey(departmentID, examType)); err != nil {
		s.logger.Warn("failed to invalidate schedule cache", zap.Error(err))
	}
	if err := s.cache.DeleteByPattern(ctx, "seating:*"); err != nil {
		s.logger.Warn("failed to invalidate seating cache", zap.Error(err))
	}
}

func validExamType(examType string) bool {
	switch examType {
	case models.ExamTypeMidterm, models.ExamTypeFinal, models.ExamTypeMakeup:
		return true
	}
	return false
}

// parseEventTime accepts RFC3339 or a plain local "2006-01-02 15:04".
func parseEventTime(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02 15:04", raw)
}
