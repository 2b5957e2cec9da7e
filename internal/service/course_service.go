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
	ErrNotCourseOwner  = errors.New("not the instructor of this course")
	ErrDuplicateLesson = errors.New("a lesson with this name already exists in the course")
)

// CourseService manages the minimal course/lesson surface the quiz chain
// needs: instructor-owned courses and their lessons.
type CourseService struct {
	courses CourseStore
	log     zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(courses CourseStore, log zerolog.Logger) *CourseService {
	return &CourseService{
		courses: courses,
		log:     log.With().Str("component", "course_service").Logger(),
	}
}

// CreateCourse inserts a course owned by the requesting instructor.
func (s *CourseService) CreateCourse(ctx context.Context, instructorID uuid.UUID, req *model.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		Name:         req.Name,
		Description:  req.Description,
		InstructorID: instructorID,
	}
	if err := s.courses.CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.log.Info().Str("course_id", course.ID.String()).Msg("Course created")
	return course, nil
}

// CreateLesson adds a lesson to a course the instructor owns.
func (s *CourseService) CreateLesson(ctx context.Context, instructorID, courseID uuid.UUID, req *model.CreateLessonRequest) (*model.Lesson, error) {
	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course.InstructorID != instructorID {
		return nil, ErrNotCourseOwner
	}

	lesson := &model.Lesson{
		Name:        req.Name,
		Description: req.Description,
		CourseID:    courseID,
	}
	if err := s.courses.CreateLesson(ctx, lesson); err != nil {
		if errors.Is(err, repository.ErrDuplicateLessonName) {
			return nil, ErrDuplicateLesson
		}
		return nil, fmt.Errorf("create lesson: %w", err)
	}

	return lesson, nil
}
