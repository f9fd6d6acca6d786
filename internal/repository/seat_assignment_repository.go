package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/exam-planner-api/internal/models"
)

// SeatAssignmentRepository manages persistence of per-event seat
// assignments.
type SeatAssignmentRepository struct {
	db *sqlx.DB
}

// NewSeatAssignmentRepository constructs a SeatAssignmentRepository.
func NewSeatAssignmentRepository(db *sqlx.DB) *SeatAssignmentRepository {
	return &SeatAssignmentRepository{db: db}
}

// ReplaceForEvent atomically swaps the event's seat assignments for the
// provided set. Re-running seat assignment never leaves a partial mix
// of old and new seats behind.
func (r *SeatAssignmentRepository) ReplaceForEvent(ctx context.Context, eventID string, seats []models.SeatAssignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seating tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM seat_assignments WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("clear seat assignments: %w", err)
	}

	const insert = `INSERT INTO seat_assignments (event_id, student_id, room_id, row_no, col_no)
        VALUES (:event_id, :student_id, :room_id, :row_no, :col_no)`
	for i := range seats {
		seats[i].EventID = eventID
		if _, err := tx.NamedExecContext(ctx, insert, seats[i]); err != nil {
			return fmt.Errorf("insert seat assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seating tx: %w", err)
	}
	return nil
}

// ListByEvent returns the event's seats with student and room display
// fields, ordered by room then position.
func (r *SeatAssignmentRepository) ListByEvent(ctx context.Context, eventID string) ([]models.SeatAssignmentDetail, error) {
	const query = `SELECT sa.event_id, sa.student_id, sa.room_id, sa.row_no, sa.col_no,
        s.number AS student_number, s.full_name AS student_name, r.code AS room_code
        FROM seat_assignments sa
        JOIN students s ON s.id = sa.student_id
        JOIN rooms r ON r.id = sa.room_id
        WHERE sa.event_id = $1
        ORDER BY r.code, sa.row_no, sa.col_no`
	var seats []models.SeatAssignmentDetail
	if err := r.db.SelectContext(ctx, &seats, query, eventID); err != nil {
		return nil, fmt.Errorf("list seat assignments: %w", err)
	}
	return seats, nil
}
