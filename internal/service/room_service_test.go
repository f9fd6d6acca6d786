package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-planner-api/internal/dto"
	"github.com/noah-isme/exam-planner-api/internal/models"
	appErrors "github.com/noah-isme/exam-planner-api/pkg/errors"
)

type mockRoomCRUDRepo struct {
	rooms   map[string]*models.Room
	created []*models.Room
}

func (m *mockRoomCRUDRepo) ListByDepartment(ctx context.Context, departmentID string) ([]models.Room, error) {
	var out []models.Room
	for _, room := range m.rooms {
		if room.DepartmentID == departmentID {
			out = append(out, *room)
		}
	}
	return out, nil
}

func (m *mockRoomCRUDRepo) FindByID(ctx context.Context, id string) (*models.Room, error) {
	room, ok := m.rooms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return room, nil
}

func (m *mockRoomCRUDRepo) ExistsByCode(ctx context.Context, departmentID, code, excludeID string) (bool, error) {
	for _, room := range m.rooms {
		if room.DepartmentID == departmentID && room.Code == code && room.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRoomCRUDRepo) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = "generated"
	}
	if m.rooms == nil {
		m.rooms = make(map[string]*models.Room)
	}
	m.rooms[room.ID] = room
	m.created = append(m.created, room)
	return nil
}

func (m *mockRoomCRUDRepo) Update(ctx context.Context, room *models.Room) error {
	m.rooms[room.ID] = room
	return nil
}

func (m *mockRoomCRUDRepo) Delete(ctx context.Context, departmentID, id string) (int64, error) {
	room, ok := m.rooms[id]
	if !ok || room.DepartmentID != departmentID {
		return 0, nil
	}
	delete(m.rooms, id)
	return 1, nil
}

func newRoomService(repo *mockRoomCRUDRepo) *RoomService {
	return NewRoomService(repo, validator.New(), zap.NewNop())
}

func TestRoomServiceCreateNormalizesGroupSize(t *testing.T) {
	repo := &mockRoomCRUDRepo{}
	svc := newRoomService(repo)

	res, err := svc.Create(context.Background(), "d1", dto.RoomRequest{
		Code: "A101", Name: "Hall A", Capacity: 40, Width: 8, Depth: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Room.GroupSize)
	assert.Empty(t, res.Warnings)
}

func TestRoomServiceCreateWarnsOnCapacityMismatch(t *testing.T) {
	svc := newRoomService(&mockRoomCRUDRepo{})

	res, err := svc.Create(context.Background(), "d1", dto.RoomRequest{
		Code: "B202", Name: "Lab B", Capacity: 50, Width: 6, Depth: 4, GroupSize: 3,
	})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "exceeds")
}

func TestRoomServiceCreateDuplicateCode(t *testing.T) {
	repo := &mockRoomCRUDRepo{rooms: map[string]*models.Room{
		"r1": {ID: "r1", DepartmentID: "d1", Code: "A101"},
	}}
	svc := newRoomService(repo)

	_, err := svc.Create(context.Background(), "d1", dto.RoomRequest{
		Code: "A101", Capacity: 40, Width: 8, Depth: 5,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRoomServiceUpdateForeignDepartment(t *testing.T) {
	repo := &mockRoomCRUDRepo{rooms: map[string]*models.Room{
		"r1": {ID: "r1", DepartmentID: "other", Code: "A101"},
	}}
	svc := newRoomService(repo)

	_, err := svc.Update(context.Background(), "d1", "r1", dto.RoomRequest{
		Code: "A101", Capacity: 40, Width: 8, Depth: 5,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestRoomServiceDeleteMissing(t *testing.T) {
	svc := newRoomService(&mockRoomCRUDRepo{})
	err := svc.Delete(context.Background(), "d1", "nope")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
