package repository

import (
	"context"
	"errors"

	"github.com/coursely/coursely-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDuplicateLessonName = errors.New("a lesson with this name already exists in the course")

// CourseRepository handles course and lesson data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// GetCourse retrieves a course by id.
func (r *CourseRepository) GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	c := &model.Course{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, instructor_id, created_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.InstructorID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateCourse inserts a new course.
func (r *CourseRepository) CreateCourse(ctx context.Context, c *model.Course) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO courses (name, description, instructor_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		c.Name, c.Description, c.InstructorID,
	).Scan(&c.ID, &c.CreatedAt)
}

// GetLesson retrieves a lesson by id.
func (r *CourseRepository) GetLesson(ctx context.Context, id uuid.UUID) (*model.Lesson, error) {
	l := &model.Lesson{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, course_id, created_at
		 FROM lessons WHERE id = $1`, id,
	).Scan(&l.ID, &l.Name, &l.Description, &l.CourseID, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// CreateLesson inserts a new lesson. Lesson names are unique per course.
func (r *CourseRepository) CreateLesson(ctx context.Context, l *model.Lesson) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO lessons (name, description, course_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		l.Name, l.Description, l.CourseID,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateLessonName
		}
		return err
	}
	return nil
}
