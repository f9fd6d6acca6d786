package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/exam-planner-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRoomRepositoryListByDepartment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	rows := sqlmock.NewRows([]string{"id", "department_id", "code", "name", "capacity", "width", "depth", "group_size", "created_at", "updated_at"}).
		AddRow("r1", "d1", "A101", "Lecture Hall A", 40, 8, 5, 2, time.Now(), time.Now()).
		AddRow("r2", "d1", "B202", "Lab B", 24, 6, 4, 3, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms WHERE department_id = $1 ORDER BY code")).
		WithArgs("d1").
		WillReturnRows(rows)

	rooms, err := repo.ListByDepartment(context.Background(), "d1")
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
	assert.Equal(t, "A101", rooms[0].Code)
	assert.Equal(t, 3, rooms[1].GroupSize)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectExec("INSERT INTO rooms").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	room := &models.Room{DepartmentID: "d1", Code: "A101", Name: "Lecture Hall A", Capacity: 40, Width: 8, Depth: 5, GroupSize: 2}
	err := repo.Create(context.Background(), room)
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryExistsByCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM rooms WHERE department_id = $1 AND code = $2 LIMIT 1")).
		WithArgs("d1", "A101").
		WillReturnRows(sqlmock.NewRows([]string{"?"}).AddRow(1))

	exists, err := repo.ExistsByCode(context.Background(), "d1", "A101", "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rooms WHERE id = $1 AND department_id = $2")).
		WithArgs("r1", "d1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Delete(context.Background(), "d1", "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
