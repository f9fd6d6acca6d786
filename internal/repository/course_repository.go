package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/exam-planner-api/internal/models"
)

// CourseRepository manages persistence for course records and rosters.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

type courseRosterRow struct {
	models.Course
	StudentID *string `db:"student_id"`
	ClassYear *int    `db:"student_class_year"`
}

// ListWithRoster returns every course in the department together with
// its enrolled student ids. When a course record carries no class year,
// the majority year among its enrolled students is used instead.
func (r *CourseRepository) ListWithRoster(ctx context.Context, departmentID string) ([]models.CourseRoster, error) {
	const query = `SELECT c.id, c.department_id, c.code, c.title, c.instructor, c.class_year, c.created_at, c.updated_at,
        e.student_id AS student_id, s.class_year AS student_class_year
        FROM courses c
        LEFT JOIN course_enrollments e ON e.course_id = c.id
        LEFT JOIN students s ON s.id = e.student_id
        WHERE c.department_id = $1
        ORDER BY c.code, e.student_id`

	var rows []courseRosterRow
	if err := r.db.SelectContext(ctx, &rows, query, departmentID); err != nil {
		return nil, fmt.Errorf("list course rosters: %w", err)
	}

	order := make([]string, 0)
	byID := make(map[string]*models.CourseRoster)
	yearVotes := make(map[string]map[int]int)

	for _, row := range rows {
		roster, ok := byID[row.ID]
		if !ok {
			roster = &models.CourseRoster{Course: row.Course}
			byID[row.ID] = roster
			order = append(order, row.ID)
			yearVotes[row.ID] = make(map[int]int)
		}
		if row.StudentID != nil {
			roster.StudentIDs = append(roster.StudentIDs, *row.StudentID)
			if row.ClassYear != nil {
				yearVotes[row.ID][*row.ClassYear]++
			}
		}
	}

	result := make([]models.CourseRoster, 0, len(order))
	for _, id := range order {
		roster := byID[id]
		roster.Enrollment = len(roster.StudentIDs)
		if roster.ClassYear == nil {
			if year, ok := majorityYear(yearVotes[id]); ok {
				roster.ClassYear = &year
			}
		}
		result = append(result, *roster)
	}
	return result, nil
}

// majorityYear picks the most common class year, lowest year winning
// ties so repeated calls stay deterministic.
func majorityYear(votes map[int]int) (int, bool) {
	best, bestCount := 0, 0
	for year, count := range votes {
		if count > bestCount || (count == bestCount && bestCount > 0 && year < best) {
			best, bestCount = year, count
		}
	}
	return best, bestCount > 0
}

// FindByID fetches a single course.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, department_id, code, title, instructor, class_year, created_at, updated_at
        FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// RosterByCourse returns the enrolled student ids for one course.
func (r *CourseRepository) RosterByCourse(ctx context.Context, courseID string) ([]string, error) {
	const query = `SELECT e.student_id FROM course_enrollments e
        JOIN students s ON s.id = e.student_id
        WHERE e.course_id = $1
        ORDER BY s.number`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, courseID); err != nil {
		return nil, fmt.Errorf("course roster: %w", err)
	}
	return ids, nil
}
