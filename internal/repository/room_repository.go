package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/exam-planner-api/internal/models"
)

// RoomRepository manages persistence for exam rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListByDepartment returns the department's rooms ordered by code.
func (r *RoomRepository) ListByDepartment(ctx context.Context, departmentID string) ([]models.Room, error) {
	const query = `SELECT id, department_id, code, name, capacity, width, depth, group_size, created_at, updated_at
        FROM rooms WHERE department_id = $1 ORDER BY code`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, departmentID); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// FindByID fetches a room by ID.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	const query = `SELECT id, department_id, code, name, capacity, width, depth, group_size, created_at, updated_at
        FROM rooms WHERE id = $1`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// ExistsByCode checks for a duplicate room code within a department,
// optionally excluding one room id.
func (r *RoomRepository) ExistsByCode(ctx context.Context, departmentID, code, excludeID string) (bool, error) {
	query := "SELECT 1 FROM rooms WHERE department_id = $1 AND code = $2"
	args := []interface{}{departmentID, code}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check room code: %w", err)
	}
	return true, nil
}

// Create inserts a new room.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now
	}
	room.UpdatedAt = now
	const query = `INSERT INTO rooms (id, department_id, code, name, capacity, width, depth, group_size, created_at, updated_at)
        VALUES (:id, :department_id, :code, :name, :capacity, :width, :depth, :group_size, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Update modifies an existing room.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now().UTC()
	const query = `UPDATE rooms SET code = :code, name = :name, capacity = :capacity, width = :width, depth = :depth, group_size = :group_size, updated_at = :updated_at
        WHERE id = :id AND department_id = :department_id`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	return nil
}

// Delete removes a room. Returns the number of rows removed so callers
// can distinguish a missing room.
func (r *RoomRepository) Delete(ctx context.Context, departmentID, id string) (int64, error) {
	const query = `DELETE FROM rooms WHERE id = $1 AND department_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, departmentID)
	if err != nil {
		return 0, fmt.Errorf("delete room: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete room rows: %w", err)
	}
	return affected, nil
}
