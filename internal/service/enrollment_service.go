package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursely/coursely-backend/internal/model"
	"github.com/coursely/coursely-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Domain Errors
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

// EnrollmentStore is the persistence surface the enrollment service needs.
// Implemented by repository.EnrollmentRepository.
type EnrollmentStore interface {
	Exists(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
	Create(ctx context.Context, studentID, courseID uuid.UUID) error
	Delete(ctx context.Context, studentID, courseID uuid.UUID) error
	ListCoursesByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Course, error)
}

// CourseStore is the course/lesson persistence surface shared by the
// enrollment and quiz services. Implemented by repository.CourseRepository.
type CourseStore interface {
	GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) error
	GetLesson(ctx context.Context, id uuid.UUID) (*model.Lesson, error)
	CreateLesson(ctx context.Context, l *model.Lesson) error
}

// EnrollmentService answers enrollment questions and manages the
// student-course link. IsEnrolled is the oracle the attempt engine consults
// before any grading side effect.
type EnrollmentService struct {
	enrollments EnrollmentStore
	courses     CourseStore
	log         zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(enrollments EnrollmentStore, courses CourseStore, log zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		courses:     courses,
		log:         log.With().Str("component", "enrollment_service").Logger(),
	}
}

// IsEnrolled reports whether the student holds an enrollment link for the
// course. Nil ids short-circuit to false without touching the store.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	if studentID == uuid.Nil || courseID == uuid.Nil {
		return false, nil
	}
	return s.enrollments.Exists(ctx, studentID, courseID)
}

// Enroll links a student to a course.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID uuid.UUID) error {
	if _, err := s.courses.GetCourse(ctx, courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("get course: %w", err)
	}

	if err := s.enrollments.Create(ctx, studentID, courseID); err != nil {
		if errors.Is(err, repository.ErrDuplicateEnrollment) {
			return ErrAlreadyEnrolled
		}
		return fmt.Errorf("create enrollment: %w", err)
	}

	s.log.Info().
		Str("student_id", studentID.String()).
		Str("course_id", courseID.String()).
		Msg("Student enrolled")
	return nil
}

// Withdraw removes a student's enrollment link.
func (s *EnrollmentService) Withdraw(ctx context.Context, studentID, courseID uuid.UUID) error {
	if err := s.enrollments.Delete(ctx, studentID, courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEnrollmentNotFound
		}
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}

// ListCourses retrieves the courses a student is enrolled in.
func (s *EnrollmentService) ListCourses(ctx context.Context, studentID uuid.UUID) ([]model.Course, error) {
	courses, err := s.enrollments.ListCoursesByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, nil
}
