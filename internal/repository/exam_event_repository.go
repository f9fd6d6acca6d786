package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/exam-planner-api/internal/models"
	appErrors "github.com/noah-isme/exam-planner-api/pkg/errors"
)

// ExamEventRepository manages persistence for scheduled exam events and
// their room bindings.
type ExamEventRepository struct {
	db *sqlx.DB
}

// NewExamEventRepository constructs an ExamEventRepository.
func NewExamEventRepository(db *sqlx.DB) *ExamEventRepository {
	return &ExamEventRepository{db: db}
}

// CreateWithRooms persists one event and its room bindings in a single
// transaction. Before inserting it re-checks that none of the rooms is
// already booked for an overlapping interval, so concurrent planning
// runs cannot double-book a room. Intervals are half-open: an event
// ending exactly when another starts does not overlap.
func (r *ExamEventRepository) CreateWithRooms(ctx context.Context, event *models.ExamEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin event tx: %w", err)
	}
	defer tx.Rollback()

	const overlapQuery = `SELECT 1 FROM exam_events ev
        JOIN exam_event_rooms er ON er.event_id = ev.id
        WHERE er.room_id = ANY($1) AND ev.start_at < $3 AND ev.end_at > $2
        LIMIT 1`
	var clash int
	err = tx.GetContext(ctx, &clash, overlapQuery, pq.Array(event.RoomIDs), event.StartAt, event.EndAt)
	if err == nil {
		return appErrors.ErrRoomOverlap
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check room overlap: %w", err)
	}

	const insertEvent = `INSERT INTO exam_events (id, department_id, course_id, exam_type, start_at, end_at, duration_minutes, buffer_minutes, created_at)
        VALUES (:id, :department_id, :course_id, :exam_type, :start_at, :end_at, :duration_minutes, :buffer_minutes, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insertEvent, event); err != nil {
		return fmt.Errorf("create exam event: %w", err)
	}

	const insertRoom = `INSERT INTO exam_event_rooms (event_id, room_id) VALUES ($1, $2)`
	for _, roomID := range event.RoomIDs {
		if _, err := tx.ExecContext(ctx, insertRoom, event.ID, roomID); err != nil {
			return fmt.Errorf("bind event room: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit event tx: %w", err)
	}
	return nil
}

// ListByType returns the department's schedule for one exam type,
// ordered chronologically, with room ids attached.
func (r *ExamEventRepository) ListByType(ctx context.Context, departmentID, examType string) ([]models.ExamEventDetail, error) {
	const query = `SELECT ev.id, ev.department_id, ev.course_id, ev.exam_type, ev.start_at, ev.end_at, ev.duration_minutes, ev.buffer_minutes, ev.created_at,
        c.code AS course_code, c.title AS course_title, c.instructor
        FROM exam_events ev
        JOIN courses c ON c.id = ev.course_id
        WHERE ev.department_id = $1 AND ev.exam_type = $2
        ORDER BY ev.start_at, c.code`
	var events []models.ExamEventDetail
	if err := r.db.SelectContext(ctx, &events, query, departmentID, examType); err != nil {
		return nil, fmt.Errorf("list exam events: %w", err)
	}
	if err := r.attachRoomIDs(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

type eventRoomRow struct {
	EventID string `db:"event_id"`
	RoomID  string `db:"room_id"`
}

func (r *ExamEventRepository) attachRoomIDs(ctx context.Context, events []models.ExamEventDetail) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]string, len(events))
	index := make(map[string]int, len(events))
	for i := range events {
		ids[i] = events[i].ID
		index[events[i].ID] = i
	}

	const query = `SELECT event_id, room_id FROM exam_event_rooms WHERE event_id = ANY($1) ORDER BY room_id`
	var rows []eventRoomRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("list event rooms: %w", err)
	}
	for _, row := range rows {
		i := index[row.EventID]
		events[i].RoomIDs = append(events[i].RoomIDs, row.RoomID)
	}
	return nil
}

// FindByID fetches one event with its room ids.
func (r *ExamEventRepository) FindByID(ctx context.Context, id string) (*models.ExamEvent, error) {
	const query = `SELECT id, department_id, course_id, exam_type, start_at, end_at, duration_minutes, buffer_minutes, created_at
        FROM exam_events WHERE id = $1`
	var event models.ExamEvent
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}

	const roomsQuery = `SELECT room_id FROM exam_event_rooms WHERE event_id = $1 ORDER BY room_id`
	if err := r.db.SelectContext(ctx, &event.RoomIDs, roomsQuery, id); err != nil {
		return nil, fmt.Errorf("event rooms: %w", err)
	}
	return &event, nil
}

// DeleteByType clears the department's schedule for one exam type.
// Room bindings and seat assignments cascade at the database level.
func (r *ExamEventRepository) DeleteByType(ctx context.Context, departmentID, examType string) (int64, error) {
	const query = `DELETE FROM exam_events WHERE department_id = $1 AND exam_type = $2`
	res, err := r.db.ExecContext(ctx, query, departmentID, examType)
	if err != nil {
		return 0, fmt.Errorf("clear exam schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear exam schedule rows: %w", err)
	}
	return affected, nil
}

// DeleteByCourseAndType removes an existing event for the course so a
// re-plan can replace it.
func (r *ExamEventRepository) DeleteByCourseAndType(ctx context.Context, departmentID, courseID, examType string) error {
	const query = `DELETE FROM exam_events WHERE department_id = $1 AND course_id = $2 AND exam_type = $3`
	if _, err := r.db.ExecContext(ctx, query, departmentID, courseID, examType); err != nil {
		return fmt.Errorf("replace exam event: %w", err)
	}
	return nil
}
