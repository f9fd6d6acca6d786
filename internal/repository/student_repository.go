package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/exam-planner-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListByCourse returns the students enrolled in a course ordered by
// student number, the order seat assignment walks them in.
func (r *StudentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Student, error) {
	const query = `SELECT s.id, s.department_id, s.number, s.full_name, s.class_year, s.created_at, s.updated_at
        FROM students s
        JOIN course_enrollments e ON e.student_id = s.id
        WHERE e.course_id = $1
        ORDER BY s.number`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, courseID); err != nil {
		return nil, fmt.Errorf("list students by course: %w", err)
	}
	return students, nil
}

// FindByNumber looks a student up by their student number within a
// department.
func (r *StudentRepository) FindByNumber(ctx context.Context, departmentID, number string) (*models.Student, error) {
	const query = `SELECT id, department_id, number, full_name, class_year, created_at, updated_at
        FROM students WHERE department_id = $1 AND number = $2`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, departmentID, number); err != nil {
		return nil, err
	}
	return &student, nil
}

// CoursesByStudent returns the courses a student is enrolled in.
func (r *StudentRepository) CoursesByStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	const query = `SELECT c.id, c.department_id, c.code, c.title, c.instructor, c.class_year, c.created_at, c.updated_at
        FROM courses c
        JOIN course_enrollments e ON e.course_id = c.id
        WHERE e.student_id = $1
        ORDER BY c.code`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list courses by student: %w", err)
	}
	return courses, nil
}
