package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-planner-api/internal/middleware"
	"github.com/noah-isme/exam-planner-api/internal/models"
	"github.com/noah-isme/exam-planner-api/internal/service"
)

type roomRepoStub struct {
	rooms []models.Room
}

func (s *roomRepoStub) ListByDepartment(ctx context.Context, departmentID string) ([]models.Room, error) {
	return s.rooms, nil
}

func (s *roomRepoStub) FindByID(ctx context.Context, id string) (*models.Room, error) {
	for i := range s.rooms {
		if s.rooms[i].ID == id {
			return &s.rooms[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *roomRepoStub) ExistsByCode(ctx context.Context, departmentID, code, excludeID string) (bool, error) {
	return false, nil
}

func (s *roomRepoStub) Create(ctx context.Context, room *models.Room) error {
	room.ID = "r-new"
	s.rooms = append(s.rooms, *room)
	return nil
}

func (s *roomRepoStub) Update(ctx context.Context, room *models.Room) error { return nil }

func (s *roomRepoStub) Delete(ctx context.Context, departmentID, id string) (int64, error) {
	return 1, nil
}

func coordinatorClaims(dept string) *models.JWTClaims {
	return &models.JWTClaims{UserID: "u1", Role: models.RoleCoordinator, DepartmentID: &dept}
}

func TestRoomHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &roomRepoStub{rooms: []models.Room{{ID: "r1", DepartmentID: "d1", Code: "A101"}}}
	handler := NewRoomHandler(service.NewRoomService(stub, validator.New(), zap.NewNop()))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/rooms", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, coordinatorClaims("d1"))

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "A101")
}

func TestRoomHandlerListUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRoomHandler(service.NewRoomService(&roomRepoStub{}, validator.New(), zap.NewNop()))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/rooms", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoomHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &roomRepoStub{}
	handler := NewRoomHandler(service.NewRoomService(stub, validator.New(), zap.NewNop()))

	payload, _ := json.Marshal(map[string]interface{}{
		"code": "A101", "name": "Hall A", "capacity": 40, "width": 8, "depth": 5, "groupSize": 2,
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/rooms", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, coordinatorClaims("d1"))

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, stub.rooms, 1)
	assert.Equal(t, "d1", stub.rooms[0].DepartmentID)
}

func TestRoomHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRoomHandler(service.NewRoomService(&roomRepoStub{}, validator.New(), zap.NewNop()))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/rooms", bytes.NewBufferString(`{"code":"A101"`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, coordinatorClaims("d1"))

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
