package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-planner-api/internal/dto"
	"github.com/noah-isme/exam-planner-api/internal/models"
	appErrors "github.com/noah-isme/exam-planner-api/pkg/errors"
)

type roomRepository interface {
	ListByDepartment(ctx context.Context, departmentID string) ([]models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	ExistsByCode(ctx context.Context, departmentID, code, excludeID string) (bool, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, departmentID, id string) (int64, error)
}

// RoomResult pairs a room with non-blocking validation warnings.
type RoomResult struct {
	Room     models.Room `json:"room"`
	Warnings []string    `json:"warnings,omitempty"`
}

// RoomService manages the department's room inventory.
type RoomService struct {
	repo      roomRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService constructs a RoomService.
func NewRoomService(repo roomRepository, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RoomService{repo: repo, validator: validate, logger: logger}
}

// List returns the department's rooms.
func (s *RoomService) List(ctx context.Context, departmentID string) ([]models.Room, error) {
	rooms, err := s.repo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// Create adds a room after uniqueness and layout checks.
func (s *RoomService) Create(ctx context.Context, departmentID string, req dto.RoomRequest) (*RoomResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}

	exists, err := s.repo.ExistsByCode(ctx, departmentID, req.Code, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "room code already exists")
	}

	room := models.Room{
		DepartmentID: departmentID,
		Code:         req.Code,
		Name:         req.Name,
		Capacity:     req.Capacity,
		Width:        req.Width,
		Depth:        req.Depth,
		GroupSize:    normalizeGroupSize(req.GroupSize),
	}
	if err := s.repo.Create(ctx, &room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}

	return &RoomResult{Room: room, Warnings: layoutWarnings(room)}, nil
}

// Update modifies an existing room.
func (s *RoomService) Update(ctx context.Context, departmentID, id string, req dto.RoomRequest) (*RoomResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	if room.DepartmentID != departmentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "room belongs to another department")
	}

	exists, err := s.repo.ExistsByCode(ctx, departmentID, req.Code, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "room code already exists")
	}

	room.Code = req.Code
	room.Name = req.Name
	room.Capacity = req.Capacity
	room.Width = req.Width
	room.Depth = req.Depth
	room.GroupSize = normalizeGroupSize(req.GroupSize)
	if err := s.repo.Update(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update room")
	}

	return &RoomResult{Room: *room, Warnings: layoutWarnings(*room)}, nil
}

// Delete removes a room from the department.
func (s *RoomService) Delete(ctx context.Context, departmentID, id string) error {
	affected, err := s.repo.Delete(ctx, departmentID, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete room")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "room not found")
	}
	return nil
}

func normalizeGroupSize(groupSize int) int {
	if groupSize != 3 {
		return 2
	}
	return 3
}

// layoutWarnings flags a declared capacity that disagrees with the
// width x depth grid. Planning trusts capacity, seating trusts the
// grid, so a mismatch means the two can drift apart.
func layoutWarnings(room models.Room) []string {
	gridSeats := room.Width * room.Depth
	if room.Capacity > gridSeats {
		return []string{fmt.Sprintf(
			"declared capacity %d exceeds the %dx%d layout (%d seats)",
			room.Capacity, room.Width, room.Depth, gridSeats)}
	}
	return nil
}
