package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/exam-planner-api/internal/models"
	appErrors "github.com/noah-isme/exam-planner-api/pkg/errors"
)

type courseRepository interface {
	ListWithRoster(ctx context.Context, departmentID string) ([]models.CourseRoster, error)
}

type studentRepository interface {
	FindByNumber(ctx context.Context, departmentID, number string) (*models.Student, error)
	CoursesByStudent(ctx context.Context, studentID string) ([]models.Course, error)
}

// CourseService serves course listings and student lookups.
type CourseService struct {
	courses  courseRepository
	students studentRepository
	logger   *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(courses courseRepository, students studentRepository, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, students: students, logger: logger}
}

// List returns the department's courses with enrollment counts.
func (s *CourseService) List(ctx context.Context, departmentID string) ([]models.CourseRoster, error) {
	rosters, err := s.courses.ListWithRoster(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return rosters, nil
}

// FindStudent looks a student up by number and attaches their courses.
func (s *CourseService) FindStudent(ctx context.Context, departmentID, number string) (*models.StudentCourses, error) {
	student, err := s.students.FindByNumber(ctx, departmentID, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	courses, err := s.students.CoursesByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student courses")
	}

	return &models.StudentCourses{Student: *student, Courses: courses}, nil
}
