package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/exam-planner-api/internal/models"
	appErrors "github.com/noah-isme/exam-planner-api/pkg/errors"
)

func TestExamEventRepositoryCreateWithRooms(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM exam_events ev").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"?"}))
	mock.ExpectExec("INSERT INTO exam_events").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO exam_event_rooms").
		WithArgs(sqlmock.AnyArg(), "r1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO exam_event_rooms").
		WithArgs(sqlmock.AnyArg(), "r2").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	start := time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)
	event := &models.ExamEvent{
		DepartmentID:    "d1",
		CourseID:        "c1",
		ExamType:        models.ExamTypeMidterm,
		StartAt:         start,
		EndAt:           start.Add(75 * time.Minute),
		DurationMinutes: 75,
		RoomIDs:         []string{"r1", "r2"},
	}
	err := repo.CreateWithRooms(context.Background(), event)
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamEventRepositoryCreateWithRoomsOverlap(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamEventRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM exam_events ev").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"?"}).AddRow(1))
	mock.ExpectRollback()

	start := time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)
	event := &models.ExamEvent{
		DepartmentID:    "d1",
		CourseID:        "c1",
		ExamType:        models.ExamTypeMidterm,
		StartAt:         start,
		EndAt:           start.Add(75 * time.Minute),
		DurationMinutes: 75,
		RoomIDs:         []string{"r1"},
	}
	err := repo.CreateWithRooms(context.Background(), event)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrRoomOverlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamEventRepositoryListByType(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamEventRepository(db)

	start := time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "department_id", "course_id", "exam_type", "start_at", "end_at", "duration_minutes", "buffer_minutes", "created_at", "course_code", "course_title", "instructor"}).
		AddRow("e1", "d1", "c1", "midterm", start, start.Add(75*time.Minute), 75, 0, time.Now(), "MATH101", "Calculus I", nil)
	mock.ExpectQuery("FROM exam_events ev").
		WithArgs("d1", "midterm").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT event_id, room_id FROM exam_event_rooms WHERE event_id = ANY($1) ORDER BY room_id")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "room_id"}).AddRow("e1", "r1").AddRow("e1", "r2"))

	events, err := repo.ListByType(context.Background(), "d1", "midterm")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "MATH101", events[0].CourseCode)
	assert.Equal(t, []string{"r1", "r2"}, events[0].RoomIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamEventRepositoryDeleteByType(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExamEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM exam_events WHERE department_id = $1 AND exam_type = $2")).
		WithArgs("d1", "final").
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := repo.DeleteByType(context.Background(), "d1", "final")
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
